/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package xatomic carries the one piece of the channel core's state that
// benefits from a typed, lock-free box: a generic atomic Value[T], used by
// the channel state machine (spec.md §3 "single atomic compare-and-set").
package xatomic

import "sync/atomic"

// Value is a typed wrapper over sync/atomic.Value. Unlike the teacher's
// atomic.Value[T] this carries no default-load/default-store machinery —
// the channel core never needs it, it only ever needs CompareAndSwap and
// Load/Store on small enums and pointers.
type Value[T any] struct {
	v atomic.Value
}

type box[T any] struct {
	val T
}

// Load returns the current value, or the zero value of T if nothing was
// ever stored.
func (o *Value[T]) Load() (val T) {
	if b, ok := o.v.Load().(box[T]); ok {
		return b.val
	}
	return val
}

// Store sets the current value unconditionally.
func (o *Value[T]) Store(val T) {
	o.v.Store(box[T]{val: val})
}

// CompareAndSwap atomically compares the current value with old (by the
// underlying atomic.Value's equality, i.e. the boxed struct must be
// comparable) and stores new only if they match.
func (o *Value[T]) CompareAndSwap(old, new T) bool {
	return o.v.CompareAndSwap(box[T]{val: old}, box[T]{val: new})
}
