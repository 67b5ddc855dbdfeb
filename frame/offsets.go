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


package frame

import (
	"fmt"
	"strings"

	"github.com/cloudwego/stackmap/ir"
)

// Table resolves a stack slot to its absolute base offset in the frame.
type Table interface {
	Offset(slot ir.StackSlot) (uint32, bool)
}

// Offsets is a dense Table, written once by frame layout and then frozen.
type Offsets struct {
	off    []uint32
	set    []bool
	frozen bool
}

func NewOffsets(nslots int) *Offsets {
	return &Offsets{
		off: make([]uint32, nslots),
		set: make([]bool, nslots),
	}
}

// Set assigns the base offset of slot. Writing a frozen table is a pipeline
// ordering defect.
func (self *Offsets) Set(slot ir.StackSlot, off uint32) {
	if self.frozen {
		panic(fmt.Sprintf("frame: offset table is frozen, cannot assign %s", slot))
	}

	/* grow the table if needed */
	if n := int(slot) + 1; n > len(self.off) {
		self.off = append(self.off, make([]uint32, n-len(self.off))...)
		self.set = append(self.set, make([]bool, n-len(self.set))...)
	}

	/* update the slot */
	self.off[slot] = off
	self.set[slot] = true
}

func (self *Offsets) Freeze() {
	self.frozen = true
}

func (self *Offsets) Frozen() bool {
	return self.frozen
}

func (self *Offsets) Len() int {
	return len(self.off)
}

func (self *Offsets) Offset(slot ir.StackSlot) (uint32, bool) {
	if int(slot) >= len(self.off) || !self.set[slot] {
		return 0, false
	} else {
		return self.off[slot], true
	}
}

func (self *Offsets) String() string {
	ss := make([]string, 0, len(self.off))
	for i, v := range self.off {
		if self.set[i] {
			ss = append(ss, fmt.Sprintf("%s: %d", ir.StackSlot(i), v))
		}
	}
	return fmt.Sprintf("{%s}", strings.Join(ss, ", "))
}
