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
	"strings"

	"fortio.org/safecast"

	"github.com/cloudwego/stackmap/frame"
	"github.com/cloudwego/stackmap/internal/bitset"
	"github.com/cloudwego/stackmap/ir"
)

type _TypedOffsets struct {
	ty  ir.Type
	set *bitset.Bitmap
}

// StackMap describes where every GC-managed value lives in the frame at one
// safepoint, as a set of absolute frame offsets per value type.
//
// A StackMap is never modified once built, so it may be shared by any number
// of readers without synchronization.
type StackMap struct {
	by []_TypedOffsets
}

// Build coalesces the entries of one safepoint into a StackMap, resolving every
// entry against the frozen offset table tab.
//
// A missing slot results in a SlotError, an offset that does not fit in the
// frame offset width results in an OverflowError. No map is returned on error.
func Build(entries []ir.StackMapEntry, tab frame.Table) (*StackMap, error) {
	var err error
	var off int
	var ret StackMap

	/* resolve and insert every entry */
	for _, e := range entries {
		if off, err = resolve(e, tab); err != nil {
			return nil, err
		}

		/* the number of distinct types is almost always 1, a linear scan is fine */
		idx := -1
		for i := range ret.by {
			if ret.by[i].ty == e.Ty {
				idx = i
				break
			}
		}

		/* first time seeing this type */
		if idx < 0 {
			idx = len(ret.by)
			ret.by = append(ret.by, _TypedOffsets{ty: e.Ty, set: bitset.WithCapacity(off + 1)})
		}

		/* duplicated offsets collapse */
		ret.by[idx].set.Insert(off)
	}

	/* all done */
	return &ret, nil
}

func resolve(e ir.StackMapEntry, tab frame.Table) (int, error) {
	base, ok := tab.Offset(e.Slot)
	if !ok {
		return 0, SlotError{Slot: e.Slot, Entry: e}
	}

	/* add in 64 bits, then narrow to the frame offset width */
	off, err := safecast.Conv[uint32](uint64(base) + uint64(e.Offset))
	if err != nil {
		return 0, OverflowError{Base: base, Entry: e}
	}

	/* must also be representable as a native int */
	ret, err := safecast.Conv[int](off)
	if err != nil {
		return 0, OverflowError{Base: base, Entry: e}
	}
	return ret, nil
}

// Len returns the number of distinct value types in the map.
func (self *StackMap) Len() int {
	return len(self.by)
}

// Types returns the value types in the order they were first seen.
func (self *StackMap) Types() []ir.Type {
	ret := make([]ir.Type, len(self.by))
	for i, v := range self.by {
		ret[i] = v.ty
	}
	return ret
}

func (self *StackMap) find(ty ir.Type) *bitset.Bitmap {
	for _, v := range self.by {
		if v.ty == ty {
			return v.set
		}
	}
	return nil
}

// Offsets returns the frame offsets holding values of type ty, ascending.
func (self *StackMap) Offsets(ty ir.Type) []uint32 {
	if set := self.find(ty); set == nil {
		return nil
	} else {
		return toOffsets(set)
	}
}

// Each calls fn for every (type, offsets) pair in first-seen type order,
// until fn returns false. The offsets slice is a fresh copy.
func (self *StackMap) Each(fn func(ty ir.Type, offsets []uint32) bool) {
	for _, v := range self.by {
		if !fn(v.ty, toOffsets(v.set)) {
			return
		}
	}
}

// Contains tests whether a value of type ty lives at frame offset off.
func (self *StackMap) Contains(ty ir.Type, off uint32) bool {
	if set := self.find(ty); set == nil {
		return false
	} else if i, err := safecast.Conv[int](off); err != nil {
		return false
	} else {
		return set.Contains(i)
	}
}

// Count returns the total number of roots described by the map.
func (self *StackMap) Count() int {
	n := 0
	for _, v := range self.by {
		n += v.set.Len()
	}
	return n
}

// Roots calls fn with the address of every root in a frame based at base,
// type by type in first-seen order, offsets ascending, until fn returns false.
func (self *StackMap) Roots(base uintptr, fn func(ty ir.Type, addr uintptr) bool) {
	for _, v := range self.by {
		ok := true
		v.set.Each(func(i int) bool {
			ok = fn(v.ty, base+uintptr(i))
			return ok
		})

		/* stop when asked to */
		if !ok {
			return
		}
	}
}

// Equal reports whether both maps describe the same roots in the same type
// order.
func (self *StackMap) Equal(other *StackMap) bool {
	if len(self.by) != len(other.by) {
		return false
	}
	for i, v := range self.by {
		if v.ty != other.by[i].ty || !v.set.Equal(other.by[i].set) {
			return false
		}
	}
	return true
}

func (self *StackMap) String() string {
	ss := make([]string, 0, len(self.by))
	for _, v := range self.by {
		ss = append(ss, fmt.Sprintf("%s: %s", v.ty, v.set))
	}
	return fmt.Sprintf("StackMap {%s}", strings.Join(ss, ", "))
}

func toOffsets(set *bitset.Bitmap) []uint32 {
	ret := make([]uint32, 0, set.Len())
	set.Each(func(i int) bool {
		ret = append(ret, uint32(i))
		return true
	})
	return ret
}
