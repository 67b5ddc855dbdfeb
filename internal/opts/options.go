/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


package opts

type Options struct {
	Workers int
	Debug   bool
}

// Concurrency returns the number of workers to use for n functions.
func (self *Options) Concurrency(n int) int {
	if w := self.Workers; w <= 0 {
		return 1
	} else if w > n {
		return n
	} else {
		return w
	}
}

func GetDefaultOptions() Options {
	return Options{
		Workers: Workers,
		Debug:   Debug,
	}
}
