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

const (
	_InlineEntries = 4
)

// StackMapEntry describes a single GC-managed value and where it lives
// within a stack slot across its safepoint.
type StackMapEntry struct {
	Ty     Type
	Slot   StackSlot
	Offset uint32
}

func (self StackMapEntry) String() string {
	return fmt.Sprintf("%s @ %s+%d", self.Ty, self.Slot, self.Offset)
}

// EntryVec accumulates the entries of exactly one safepoint in insertion
// order. The first few entries are stored inline.
type EntryVec struct {
	n   int
	buf [_InlineEntries]StackMapEntry
	ext []StackMapEntry
}

// Append records e. Duplicates are kept and collapse when the map is built.
func (self *EntryVec) Append(e StackMapEntry) {
	if self.ext != nil {
		self.ext = append(self.ext, e)
	} else if self.n < _InlineEntries {
		self.buf[self.n] = e
		self.n++
	} else {
		self.ext = make([]StackMapEntry, self.n, self.n*2)
		copy(self.ext, self.buf[:self.n])
		self.ext = append(self.ext, e)
	}
}

func (self *EntryVec) Len() int {
	if self.ext != nil {
		return len(self.ext)
	} else {
		return self.n
	}
}

func (self *EntryVec) At(i int) StackMapEntry {
	return self.Entries()[i]
}

// Entries returns the recorded entries. The returned slice aliases the
// accumulator and must not be modified.
func (self *EntryVec) Entries() []StackMapEntry {
	if self.ext != nil {
		return self.ext
	} else {
		return self.buf[:self.n]
	}
}

// Spilled reports whether the entries have outgrown the inline storage.
func (self *EntryVec) Spilled() bool {
	return self.ext != nil
}
