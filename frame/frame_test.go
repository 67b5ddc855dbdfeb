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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/stackmap/ir"
)

func TestOffsets_SetFreeze(t *testing.T) {
	tab := NewOffsets(1)
	tab.Set(0, 16)
	tab.Set(3, 40)
	assert.Equal(t, 4, tab.Len())

	off, ok := tab.Offset(3)
	require.True(t, ok)
	assert.Equal(t, uint32(40), off)

	_, ok = tab.Offset(1)
	assert.False(t, ok)
	_, ok = tab.Offset(100)
	assert.False(t, ok)
	assert.Equal(t, "{ss0: 16, ss3: 40}", tab.String())

	tab.Freeze()
	assert.True(t, tab.Frozen())
	assert.Panics(t, func() { tab.Set(0, 0) })
}

func TestLayout_Aligned(t *testing.T) {
	fn := ir.NewFunction("f")
	s0 := fn.CreateStackSlot(4, 4)
	s1 := fn.CreateStackSlot(16, 8)
	s2 := fn.CreateStackSlot(1, 1)
	tab, size, err := Layout(fn)
	require.NoError(t, err)
	require.True(t, tab.Frozen())

	for slot, want := range map[ir.StackSlot]uint32{s0: 16, s1: 24, s2: 40} {
		off, ok := tab.Offset(slot)
		require.True(t, ok)
		assert.Equal(t, want, off, slot.String())
	}
	assert.Equal(t, uint32(48), size)
}

func TestLayout_TooLarge(t *testing.T) {
	fn := ir.NewFunction("huge")
	fn.CreateStackSlot(math.MaxUint32, 8)
	fn.CreateStackSlot(8, 8)
	_, _, err := Layout(fn)
	require.Error(t, err)
}
