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

	"github.com/cloudwego/stackmap/ir"
)

// SlotError occurs when a stack map entry refers to a stack slot that frame
// layout never assigned an offset to.
type SlotError struct {
	Slot  ir.StackSlot
	Entry ir.StackMapEntry
}

func (self SlotError) Error() string {
	return fmt.Sprintf("SlotError(%s): stack slot has no frame offset, entry = %s", self.Slot, self.Entry)
}

// OverflowError occurs when the absolute frame offset of an entry does not
// fit into a frame offset.
type OverflowError struct {
	Base  uint32
	Entry ir.StackMapEntry
}

func (self OverflowError) Error() string {
	return fmt.Sprintf("OverflowError(%s): %d + %d overflows the frame offset", self.Entry.Slot, self.Base, self.Entry.Offset)
}

// CompileError wraps the failure of one function.
type CompileError struct {
	Func string
	Inst ir.Inst
	Err  error
}

func (self CompileError) Error() string {
	return fmt.Sprintf("stackmap: cannot build stack map of %s at %s: %v", self.Func, self.Inst, self.Err)
}

func (self CompileError) Unwrap() error {
	return self.Err
}
