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


package bitset

import (
	"fmt"
	"math/bits"
	"strings"
)

const (
	_WordBits = 64
)

// Bitmap is a growable set of non-negative integers, one bit per member.
type Bitmap struct {
	n int
	w []uint64
}

// WithCapacity creates an empty Bitmap able to hold [0, n) without growing.
func WithCapacity(n int) *Bitmap {
	if n < 0 {
		panic("bitset: negative capacity")
	}
	return &Bitmap{w: make([]uint64, (n+_WordBits-1)/_WordBits)}
}

func (self *Bitmap) grow(i int) {
	if nw := i/_WordBits + 1; nw > len(self.w) {
		self.w = append(self.w, make([]uint64, nw-len(self.w))...)
	}
}

// Insert adds i to the set, returns false if it is already a member.
func (self *Bitmap) Insert(i int) bool {
	if i < 0 {
		panic(fmt.Sprintf("bitset: invalid bit position %d", i))
	}

	/* check for existing members */
	self.grow(i)
	w, m := i/_WordBits, uint64(1)<<(i%_WordBits)

	/* set the bit if not already set */
	if self.w[w]&m != 0 {
		return false
	} else {
		self.w[w] |= m
		self.n++
		return true
	}
}

// Contains tests whether i is a member of the set.
func (self *Bitmap) Contains(i int) bool {
	if i < 0 || i/_WordBits >= len(self.w) {
		return false
	} else {
		return self.w[i/_WordBits]&(uint64(1)<<(i%_WordBits)) != 0
	}
}

// Len returns the number of members.
func (self *Bitmap) Len() int {
	return self.n
}

// Max returns the largest member, ok is false when the set is empty.
func (self *Bitmap) Max() (int, bool) {
	for i := len(self.w) - 1; i >= 0; i-- {
		if v := self.w[i]; v != 0 {
			return i*_WordBits + _WordBits - 1 - bits.LeadingZeros64(v), true
		}
	}
	return 0, false
}

// Each calls fn with every member in ascending order, until fn returns false.
func (self *Bitmap) Each(fn func(i int) bool) {
	for i, v := range self.w {
		for v != 0 {
			b := bits.TrailingZeros64(v)
			v &= v - 1

			/* stop when asked to */
			if !fn(i*_WordBits + b) {
				return
			}
		}
	}
}

// Slice returns all members in ascending order.
func (self *Bitmap) Slice() []int {
	ret := make([]int, 0, self.n)
	self.Each(func(i int) bool {
		ret = append(ret, i)
		return true
	})
	return ret
}

// Equal reports whether both sets have the same members.
func (self *Bitmap) Equal(other *Bitmap) bool {
	if self.n != other.n {
		return false
	}

	/* trailing zero words do not count */
	a, b := self.w, other.w
	if len(a) < len(b) {
		a, b = b, a
	}

	/* compare word by word */
	for i, v := range a {
		if i < len(b) {
			if v != b[i] {
				return false
			}
		} else if v != 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the set.
func (self *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		n: self.n,
		w: append([]uint64(nil), self.w...),
	}
}

func (self *Bitmap) String() string {
	ss := make([]string, 0, self.n)
	self.Each(func(i int) bool {
		ss = append(ss, fmt.Sprint(i))
		return true
	})
	return fmt.Sprintf("{%s}", strings.Join(ss, ", "))
}
