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


package debug

import (
	"github.com/cloudwego/stackmap/internal/stats"
)

// A Stats records statistics about stack map construction.
type Stats struct {
	Functions FuncStats
	StackMaps MapStats
}

// A FuncStats records how many functions were compiled.
type FuncStats struct {
	Compiled int
	Failed   int
}

// A MapStats records how many stack maps were built and the roots they describe.
type MapStats struct {
	Count int
	Roots int
}

// GetStats returns statistics of stack map construction.
func GetStats() Stats {
	fn, failed, maps, roots := stats.Load()
	return Stats{
		Functions: FuncStats{
			Compiled: int(fn),
			Failed:   int(failed),
		},
		StackMaps: MapStats{
			Count: int(maps),
			Roots: int(roots),
		},
	}
}
