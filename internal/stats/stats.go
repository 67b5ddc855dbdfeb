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


package stats

import (
	"sync/atomic"
)

var (
	FnCount   uint64
	FnFailed  uint64
	MapCount  uint64
	RootCount uint64
)

func AddFunction(ok bool) {
	if ok {
		atomic.AddUint64(&FnCount, 1)
	} else {
		atomic.AddUint64(&FnFailed, 1)
	}
}

func AddStackMap(roots int) {
	atomic.AddUint64(&MapCount, 1)
	atomic.AddUint64(&RootCount, uint64(roots))
}

func Load() (fn uint64, failed uint64, maps uint64, roots uint64) {
	return atomic.LoadUint64(&FnCount),
		atomic.LoadUint64(&FnFailed),
		atomic.LoadUint64(&MapCount),
		atomic.LoadUint64(&RootCount)
}
