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


package stackmap

import (
	"fmt"

	"github.com/cloudwego/stackmap/internal/opts"
)

// Option is the property setter function for opts.Options.
type Option func(*opts.Options)

// WithWorkers sets how many functions CompileAll compiles concurrently.
//
// The default value is the number of logical CPU cores, and can also be
// configured with the `STACKMAP_WORKERS` environment variable.
func WithWorkers(n int) Option {
	if n <= 0 {
		panic(fmt.Sprintf("stackmap: invalid worker count: %d", n))
	} else {
		return func(o *opts.Options) { o.Workers = n }
	}
}

// WithDebug dumps every stack map to stderr right after it is built.
//
// This option can also be enabled with `STACKMAP_DEBUG=1`.
func WithDebug(v bool) Option {
	return func(o *opts.Options) { o.Debug = v }
}

// SetDefaultWorkers sets the default worker count for all compilations from
// now on, and returns the old value.
func SetDefaultWorkers(n int) int {
	if n <= 0 {
		panic(fmt.Sprintf("stackmap: invalid worker count: %d", n))
	}
	n, opts.Workers = opts.Workers, n
	return n
}

func buildOptions(options []Option) opts.Options {
	o := opts.GetDefaultOptions()
	for _, fn := range options {
		fn(&o)
	}
	return o
}
