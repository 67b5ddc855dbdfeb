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
	"fmt"
)

// Type identifies the kind of a GC-managed value. Values are owned by the
// host type system and only compared for equality here.
type Type uint16

func (self Type) String() string {
	return fmt.Sprintf("t%d", uint16(self))
}

// StackSlot names a storage region in the frame whose final offset is not
// known until frame layout has run.
type StackSlot uint32

func (self StackSlot) String() string {
	return fmt.Sprintf("ss%d", uint32(self))
}

// Inst identifies an instruction within a Function.
type Inst uint32

func (self Inst) String() string {
	return fmt.Sprintf("inst%d", uint32(self))
}

type Opcode uint8

const (
	OpNop Opcode = iota
	OpCall
	OpCallIndirect
	OpTailCall
	OpLoad
	OpStore
	OpReturn
)

var _OpNames = [...]string{
	OpNop:          "nop",
	OpCall:         "call",
	OpCallIndirect: "call_indirect",
	OpTailCall:     "return_call",
	OpLoad:         "load",
	OpStore:        "store",
	OpReturn:       "return",
}

func (self Opcode) String() string {
	if int(self) < len(_OpNames) {
		return _OpNames[self]
	} else {
		return fmt.Sprintf("op(%d)", uint8(self))
	}
}

// IsSafepoint reports whether instructions with this opcode may carry a
// stack map. Only non-tail calls qualify.
func (self Opcode) IsSafepoint() bool {
	return self == OpCall || self == OpCallIndirect
}
