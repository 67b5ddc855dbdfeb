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
	"context"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/oleiade/lane"
	"golang.org/x/sync/errgroup"

	"github.com/cloudwego/stackmap/frame"
	"github.com/cloudwego/stackmap/internal/opts"
	"github.com/cloudwego/stackmap/internal/stats"
	"github.com/cloudwego/stackmap/ir"
)

// FuncData holds the stack maps of every safepoint of one function.
type FuncData struct {
	Name       string
	FrameSize  uint32
	Safepoints []ir.Inst
	StackMaps  map[ir.Inst]*StackMap
}

// StackMap returns the stack map of safepoint inst, or nil.
func (self *FuncData) StackMap(inst ir.Inst) *StackMap {
	return self.StackMaps[inst]
}

// Job is one function to compile. When Table is nil, frame.Layout is used to
// lay out the frame.
type Job struct {
	Func  *ir.Function
	Table frame.Table
}

// Result is the outcome of compiling one Job. Exactly one of Data and Err is
// non-nil.
type Result struct {
	Data *FuncData
	Err  error
}

type _Freezable interface {
	Frozen() bool
}

// Compile builds the stack map of every safepoint of fn against the frozen
// offset table tab. If any stack map fails to build, compilation of the whole
// function is aborted and no FuncData is returned.
func Compile(fn *ir.Function, tab frame.Table, options ...Option) (*FuncData, error) {
	o := buildOptions(options)
	return compile(fn, tab, 0, &o)
}

func compile(fn *ir.Function, tab frame.Table, size uint32, o *opts.Options) (*FuncData, error) {
	if fz, ok := tab.(_Freezable); ok && !fz.Frozen() {
		panic("stackmap: offset table of " + fn.Name + " is not frozen")
	}

	/* function data */
	sp := fn.Safepoints()
	fd := &FuncData{
		Name:       fn.Name,
		FrameSize:  size,
		Safepoints: sp,
		StackMaps:  make(map[ir.Inst]*StackMap, len(sp)),
	}

	/* build every stack map */
	for _, inst := range sp {
		sm, err := Build(fn.StackMapEntries(inst), tab)
		if err != nil {
			stats.AddFunction(false)
			return nil, CompileError{Func: fn.Name, Inst: inst, Err: err}
		}

		/* dump the map if needed */
		if o.Debug {
			spew.Fprintf(os.Stderr, "stackmap: %s %s: %v\n", fn.Name, inst, sm)
		}

		/* record statistics */
		fd.StackMaps[inst] = sm
		stats.AddStackMap(sm.Count())
	}

	/* all done */
	stats.AddFunction(true)
	return fd, nil
}

func compileJob(job Job, o *opts.Options) (*FuncData, error) {
	if job.Table != nil {
		return compile(job.Func, job.Table, 0, o)
	}

	/* lay out the frame first */
	tab, size, err := frame.Layout(job.Func)
	if err != nil {
		stats.AddFunction(false)
		return nil, err
	}

	/* build the stack maps */
	return compile(job.Func, tab, size, o)
}

// CompileAll compiles every job concurrently. Functions are independent: the
// failure of one function is reported in its own Result and does not affect
// the others.
//
// Cancelling ctx stops workers from picking up new functions, functions that
// are already being compiled still run to completion. The returned error is
// only ever the context error, in which case unstarted jobs have neither
// Data nor Err set.
func CompileAll(ctx context.Context, jobs []Job, options ...Option) ([]Result, error) {
	o := buildOptions(options)
	q := lane.NewQueue()
	ret := make([]Result, len(jobs))

	/* queue every job */
	for i := range jobs {
		q.Enqueue(i)
	}

	/* start the workers */
	eg, ctx := errgroup.WithContext(ctx)
	for n := o.Concurrency(len(jobs)); n > 0; n-- {
		eg.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}

				/* fetch the next job */
				v := q.Dequeue()
				if v == nil {
					return nil
				}

				/* each result is owned by exactly one worker */
				i := v.(int)
				ret[i].Data, ret[i].Err = compileJob(jobs[i], &o)
			}
		})
	}

	/* wait for all the workers */
	if err := eg.Wait(); err != nil {
		return ret, err
	}
	return ret, nil
}
