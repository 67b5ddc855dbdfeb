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

import (
	"os"
	"strconv"

	"github.com/klauspost/cpuid/v2"
)

const (
	_MaxDefaultWorkers = 64 // never spawn more workers than this by default
)

var (
	Workers = parseOrDefault("STACKMAP_WORKERS", defaultWorkers(), 0)
	Debug   = parseOrDefault("STACKMAP_DEBUG", 0, -1) != 0
)

func defaultWorkers() int {
	if n := cpuid.CPU.LogicalCores; n <= 0 {
		return 1
	} else if n > _MaxDefaultWorkers {
		return _MaxDefaultWorkers
	} else {
		return n
	}
}

func parseOrDefault(key string, def int, min int) int {
	if env := os.Getenv(key); env == "" {
		return def
	} else if val, err := strconv.ParseUint(env, 0, 64); err != nil {
		panic("stackmap: invalid value for " + key)
	} else if ret := int(val); ret <= min {
		panic("stackmap: value too small for " + key)
	} else {
		return ret
	}
}
