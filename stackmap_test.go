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
	"errors"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudwego/stackmap/frame"
	"github.com/cloudwego/stackmap/ir"
)

const (
	Ref ir.Type = iota + 1
	I31
	ExternRef
)

func offsets(m map[ir.StackSlot]uint32) *frame.Offsets {
	tab := frame.NewOffsets(len(m))
	for k, v := range m {
		tab.Set(k, v)
	}
	tab.Freeze()
	return tab
}

func TestBuild_Empty(t *testing.T) {
	sm, err := Build(nil, offsets(nil))
	require.NoError(t, err)
	assert.Equal(t, 0, sm.Len())
	assert.Equal(t, 0, sm.Count())
	assert.Empty(t, sm.Types())
	assert.False(t, sm.Contains(Ref, 0))
	assert.Equal(t, "StackMap {}", sm.String())
}

func TestBuild_SingleType(t *testing.T) {
	sm, err := Build([]ir.StackMapEntry{
		{Ty: Ref, Slot: 0, Offset: 0},
		{Ty: Ref, Slot: 0, Offset: 8},
		{Ty: Ref, Slot: 1, Offset: 0},
	}, offsets(map[ir.StackSlot]uint32{0: 16, 1: 40}))
	require.NoError(t, err)
	require.Equal(t, 1, sm.Len())
	assert.Equal(t, []ir.Type{Ref}, sm.Types())
	assert.Equal(t, []uint32{16, 24, 40}, sm.Offsets(Ref))
	assert.Equal(t, 3, sm.Count())
	assert.Equal(t, "StackMap {t1: {16, 24, 40}}", sm.String())
}

func TestBuild_SameOffsetDifferentTypes(t *testing.T) {
	sm, err := Build([]ir.StackMapEntry{
		{Ty: Ref, Slot: 0, Offset: 0},
		{Ty: I31, Slot: 0, Offset: 0},
	}, offsets(map[ir.StackSlot]uint32{0: 0}))
	require.NoError(t, err)
	require.Equal(t, 2, sm.Len())
	assert.Equal(t, []ir.Type{Ref, I31}, sm.Types())
	assert.Equal(t, []uint32{0}, sm.Offsets(Ref))
	assert.Equal(t, []uint32{0}, sm.Offsets(I31))
	assert.True(t, sm.Contains(Ref, 0))
	assert.True(t, sm.Contains(I31, 0))
	assert.False(t, sm.Contains(ExternRef, 0))
	assert.Equal(t, 2, sm.Count())
}

func TestBuild_Duplicates(t *testing.T) {
	e := ir.StackMapEntry{Ty: Ref, Slot: 2, Offset: 4}
	sm, err := Build([]ir.StackMapEntry{e, e, e}, offsets(map[ir.StackSlot]uint32{2: 32}))
	require.NoError(t, err)
	assert.Equal(t, []uint32{36}, sm.Offsets(Ref))
	assert.Equal(t, 1, sm.Count())
}

func TestBuild_FirstSeenTypeOrder(t *testing.T) {
	tab := offsets(map[ir.StackSlot]uint32{0: 16, 1: 64})
	sm, err := Build([]ir.StackMapEntry{
		{Ty: I31, Slot: 1, Offset: 0},
		{Ty: Ref, Slot: 0, Offset: 0},
		{Ty: I31, Slot: 0, Offset: 8},
		{Ty: ExternRef, Slot: 1, Offset: 8},
		{Ty: Ref, Slot: 1, Offset: 16},
	}, tab)
	require.NoError(t, err)
	assert.Equal(t, []ir.Type{I31, Ref, ExternRef}, sm.Types())

	var seen []ir.Type
	sm.Each(func(ty ir.Type, offs []uint32) bool {
		seen = append(seen, ty)
		return len(seen) < 2
	})
	assert.Equal(t, []ir.Type{I31, Ref}, seen)
}

func TestBuild_Coverage(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	tab := frame.NewOffsets(8)
	for i := 0; i < 8; i++ {
		tab.Set(ir.StackSlot(i), uint32(16+i*64))
	}
	tab.Freeze()

	/* random entries over a few types */
	entries := make([]ir.StackMapEntry, 200)
	for i := range entries {
		entries[i] = ir.StackMapEntry{
			Ty:     ir.Type(rnd.Intn(3) + 1),
			Slot:   ir.StackSlot(rnd.Intn(8)),
			Offset: uint32(rnd.Intn(8) * 8),
		}
	}

	/* every entry must be found in the map */
	sm, err := Build(entries, tab)
	require.NoError(t, err)
	uniq := make(map[ir.StackMapEntry]struct{})
	for _, e := range entries {
		base, _ := tab.Offset(e.Slot)
		require.True(t, sm.Contains(e.Ty, base+e.Offset), e.String())
		uniq[ir.StackMapEntry{Ty: e.Ty, Offset: base + e.Offset}] = struct{}{}
	}
	assert.Equal(t, len(uniq), sm.Count())

	/* permuting the entries keeps the per-type sets */
	perm := append([]ir.StackMapEntry(nil), entries...)
	rnd.Shuffle(len(perm), func(i int, j int) { perm[i], perm[j] = perm[j], perm[i] })
	sp, err := Build(perm, tab)
	require.NoError(t, err)
	require.Equal(t, sm.Len(), sp.Len())
	for _, ty := range sm.Types() {
		assert.Equal(t, sm.Offsets(ty), sp.Offsets(ty))
	}
}

func TestBuild_SlotNotFound(t *testing.T) {
	sm, err := Build([]ir.StackMapEntry{
		{Ty: Ref, Slot: 0, Offset: 0},
		{Ty: Ref, Slot: 7, Offset: 0},
	}, offsets(map[ir.StackSlot]uint32{0: 16}))
	require.Nil(t, sm)
	var se SlotError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ir.StackSlot(7), se.Slot)
	println(err.Error())
}

func TestBuild_Overflow(t *testing.T) {
	sm, err := Build([]ir.StackMapEntry{
		{Ty: Ref, Slot: 0, Offset: 1},
	}, offsets(map[ir.StackSlot]uint32{0: math.MaxUint32}))
	require.Nil(t, sm)
	var oe OverflowError
	require.True(t, errors.As(err, &oe))
	assert.Equal(t, uint32(math.MaxUint32), oe.Base)
	println(err.Error())
}

func TestStackMap_Roots(t *testing.T) {
	sm, err := Build([]ir.StackMapEntry{
		{Ty: Ref, Slot: 1, Offset: 0},
		{Ty: I31, Slot: 0, Offset: 0},
		{Ty: Ref, Slot: 0, Offset: 8},
	}, offsets(map[ir.StackSlot]uint32{0: 16, 1: 40}))
	require.NoError(t, err)

	type root struct {
		ty   ir.Type
		addr uintptr
	}

	var roots []root
	sm.Roots(0x1000, func(ty ir.Type, addr uintptr) bool {
		roots = append(roots, root{ty, addr})
		return true
	})
	assert.Equal(t, []root{{Ref, 0x1018}, {Ref, 0x1028}, {I31, 0x1010}}, roots)

	n := 0
	sm.Roots(0x1000, func(ir.Type, uintptr) bool { n++; return false })
	assert.Equal(t, 1, n)
}

func TestStackMap_Equal(t *testing.T) {
	tab := offsets(map[ir.StackSlot]uint32{0: 16})
	a, _ := Build([]ir.StackMapEntry{{Ty: Ref, Slot: 0}, {Ty: I31, Slot: 0, Offset: 8}}, tab)
	b, _ := Build([]ir.StackMapEntry{{Ty: Ref, Slot: 0}, {Ty: Ref, Slot: 0}, {Ty: I31, Slot: 0, Offset: 8}}, tab)
	c, _ := Build([]ir.StackMapEntry{{Ty: I31, Slot: 0, Offset: 8}, {Ty: Ref, Slot: 0}}, tab)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	spew.Config.DisableMethods = true
	spew.Dump(a)
	spew.Config.DisableMethods = false
}

func TestStackMap_ConcurrentReaders(t *testing.T) {
	sm, err := Build([]ir.StackMapEntry{
		{Ty: Ref, Slot: 0, Offset: 0},
		{Ty: Ref, Slot: 0, Offset: 8},
		{Ty: I31, Slot: 1, Offset: 0},
	}, offsets(map[ir.StackSlot]uint32{0: 16, 1: 40}))
	require.NoError(t, err)

	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				assert.True(t, sm.Contains(Ref, 24))
				assert.Equal(t, 3, sm.Count())
				assert.Equal(t, []uint32{40}, sm.Offsets(I31))
			}
		}()
	}
	wg.Wait()
}
