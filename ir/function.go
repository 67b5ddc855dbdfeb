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


package ir

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoSuchInst   = errors.New("ir: no such instruction")
	ErrNotSafepoint = errors.New("ir: instruction cannot be a safepoint")
)

// StackSlotData is the size and alignment of a stack slot, in bytes.
type StackSlotData struct {
	Size  uint32
	Align uint32
}

// Function is the part of a function body relevant to stack maps: the
// instruction stream, the stack slots, and one entry accumulator for every
// instruction that has been declared as needing a stack map.
type Function struct {
	Name  string
	Insts []Opcode
	Slots []StackSlotData
	maps  map[Inst]*EntryVec
}

func NewFunction(name string) *Function {
	return &Function{
		Name: name,
		maps: make(map[Inst]*EntryVec),
	}
}

// CreateStackSlot allocates a new stack slot. align must be a power of 2,
// zero is treated as 1.
func (self *Function) CreateStackSlot(size uint32, align uint32) StackSlot {
	if align == 0 {
		align = 1
	}

	/* alignment must be a power of 2 */
	if align&(align-1) != 0 {
		panic(fmt.Sprintf("ir: invalid stack slot alignment %d", align))
	}

	/* append the slot */
	self.Slots = append(self.Slots, StackSlotData{Size: size, Align: align})
	return StackSlot(len(self.Slots) - 1)
}

func (self *Function) AppendInst(op Opcode) Inst {
	self.Insts = append(self.Insts, op)
	return Inst(len(self.Insts) - 1)
}

func (self *Function) checkSafepoint(inst Inst) error {
	if int(inst) >= len(self.Insts) {
		return fmt.Errorf("%w: %s", ErrNoSuchInst, inst)
	} else if op := self.Insts[inst]; !op.IsSafepoint() {
		return fmt.Errorf("%w: %s is %s", ErrNotSafepoint, inst, op)
	} else {
		return nil
	}
}

func (self *Function) accumulator(inst Inst) *EntryVec {
	if self.maps == nil {
		self.maps = make(map[Inst]*EntryVec)
	}

	/* every safepoint owns its own accumulator */
	vec, ok := self.maps[inst]
	if !ok {
		vec = new(EntryVec)
		self.maps[inst] = vec
	}
	return vec
}

// DeclareNeedsStackMap marks inst as a safepoint that requires a stack map,
// even if no entries are ever recorded for it.
func (self *Function) DeclareNeedsStackMap(inst Inst) error {
	if err := self.checkSafepoint(inst); err != nil {
		return err
	}
	self.accumulator(inst)
	return nil
}

// AppendStackMapEntry records e for the safepoint inst.
func (self *Function) AppendStackMapEntry(inst Inst, e StackMapEntry) error {
	if err := self.checkSafepoint(inst); err != nil {
		return err
	}
	self.accumulator(inst).Append(e)
	return nil
}

// StackMapEntries returns the entries recorded for inst, or nil if inst is
// not a declared safepoint.
func (self *Function) StackMapEntries(inst Inst) []StackMapEntry {
	if vec, ok := self.maps[inst]; ok {
		return vec.Entries()
	} else {
		return nil
	}
}

// NeedsStackMap reports whether inst is a declared safepoint.
func (self *Function) NeedsStackMap(inst Inst) bool {
	_, ok := self.maps[inst]
	return ok
}

// Safepoints returns every declared safepoint in instruction order.
func (self *Function) Safepoints() []Inst {
	ret := make([]Inst, 0, len(self.maps))
	for i := range self.Insts {
		if _, ok := self.maps[Inst(i)]; ok {
			ret = append(ret, Inst(i))
		}
	}
	return ret
}

func (self *Function) String() string {
	ss := make([]string, 0, len(self.Slots)+len(self.Insts))

	/* dump stack slots */
	for i, v := range self.Slots {
		ss = append(ss, fmt.Sprintf("    %s = size %d, align %d", StackSlot(i), v.Size, v.Align))
	}

	/* dump instructions with their entries */
	for i, op := range self.Insts {
		if vec, ok := self.maps[Inst(i)]; !ok {
			ss = append(ss, fmt.Sprintf("    %s: %s", Inst(i), op))
		} else {
			ss = append(ss, fmt.Sprintf("    %s: %s, stack_map = %v", Inst(i), op, vec.Entries()))
		}
	}

	/* join them together */
	return fmt.Sprintf(
		"function %s {\n%s\n}",
		self.Name,
		strings.Join(ss, "\n"),
	)
}
