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

	"fortio.org/safecast"

	"github.com/cloudwego/stackmap/ir"
)

const (
	HeaderSize     = 16 // saved frame pointer and return address
	StackAlignment = 16
)

// Layout assigns every stack slot of fn an aligned base offset, in slot
// creation order, right after the frame header. The returned table is frozen.
// It also returns the total frame size, rounded up to StackAlignment.
func Layout(fn *ir.Function) (*Offsets, uint32, error) {
	pos := uint64(HeaderSize)
	ret := NewOffsets(len(fn.Slots))

	/* place every slot */
	for i, ss := range fn.Slots {
		pos = alignUp(pos, uint64(ss.Align))
		off, err := safecast.Conv[uint32](pos)

		/* the slot base must be addressable */
		if err != nil {
			return nil, 0, fmt.Errorf("frame: %s of %s at offset %d: %w", ir.StackSlot(i), fn.Name, pos, err)
		}

		/* assign the offset */
		ret.Set(ir.StackSlot(i), off)
		pos += uint64(ss.Size)
	}

	/* the frame itself must fit as well */
	size, err := safecast.Conv[uint32](alignUp(pos, StackAlignment))
	if err != nil {
		return nil, 0, fmt.Errorf("frame: frame of %s is too large: %w", fn.Name, err)
	}

	/* freeze before anyone reads it */
	ret.Freeze()
	return ret, size, nil
}

func alignUp(v uint64, align uint64) uint64 {
	return (v + align - 1) &^ (align - 1)
}
