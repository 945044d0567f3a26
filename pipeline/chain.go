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

package pipeline

import (
	"reflect"
	"sync"

	"github.com/nabbar/channelcore/chlog"
)

type typedEntry struct {
	typ reflect.Type
	fn  Callback
}

type chain struct {
	mu  sync.Mutex
	lst []*typedEntry
	log chlog.FuncLog
}

func newChain() *chain {
	return &chain{}
}

func (c *chain) logger() chlog.Logger {
	if c.log != nil {
		if l := c.log(); l != nil {
			return l
		}
	}
	return chlog.Default()
}

func (c *chain) AddFirst(t reflect.Type, fn Callback) Handle {
	e := &typedEntry{typ: t, fn: fn}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lst = append([]*typedEntry{e}, c.lst...)

	return Handle{e: e}
}

func (c *chain) AddLast(t reflect.Type, fn Callback) Handle {
	e := &typedEntry{typ: t, fn: fn}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lst = append(c.lst, e)

	return Handle{e: e}
}

func (c *chain) AddBefore(ref Handle, t reflect.Type, fn Callback) (Handle, error) {
	e := &typedEntry{typ: t, fn: fn}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(ref)
	if idx < 0 {
		return Handle{}, errRefNotFound()
	}

	c.lst = append(c.lst, nil)
	copy(c.lst[idx+1:], c.lst[idx:])
	c.lst[idx] = e

	return Handle{e: e}, nil
}

func (c *chain) AddAfter(ref Handle, t reflect.Type, fn Callback) (Handle, error) {
	e := &typedEntry{typ: t, fn: fn}

	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(ref)
	if idx < 0 {
		return Handle{}, errRefNotFound()
	}

	pos := idx + 1
	c.lst = append(c.lst, nil)
	copy(c.lst[pos+1:], c.lst[pos:])
	c.lst[pos] = e

	return Handle{e: e}, nil
}

func (c *chain) Remove(h Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := c.indexOf(h)
	if idx < 0 {
		return nil
	}
	c.lst = append(c.lst[:idx], c.lst[idx+1:]...)
	return nil
}

// indexOf returns the position of h's entry. Caller holds c.mu.
func (c *chain) indexOf(h Handle) int {
	e, _ := h.e.(*typedEntry)
	if e == nil {
		return -1
	}
	for i, x := range c.lst {
		if x == e {
			return i
		}
	}
	return -1
}

func (c *chain) snapshot() []*typedEntry {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := make([]*typedEntry, len(c.lst))
	copy(s, c.lst)
	return s
}

func (c *chain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lst)
}

// Dispatch walks a snapshot taken under the lock, never holding it while a
// handler runs, so a handler is free to mutate this same chain.
func (c *chain) Dispatch(ch Endpoint, payload any) any {
	cur := payload

	for _, e := range c.snapshot() {
		if cur == nil {
			break
		}
		curType := reflect.TypeOf(cur)
		if e.typ != nil && curType != nil && !curType.AssignableTo(e.typ) {
			continue
		}
		cur = c.invoke(e, ch, cur)
	}

	return cur
}

// invoke runs one handler, recovering a panic so one misbehaving entry
// never strands the handlers behind it (spec.md §4.3 error policy). On
// panic the payload reverts to what was handed to the faulting handler.
func (c *chain) invoke(e *typedEntry, ch Endpoint, payload any) (result any) {
	result = payload

	defer func() {
		if r := recover(); r != nil {
			c.logger().Error("pipeline handler panicked", chlog.F("recover", r))
			result = payload
		}
	}()

	result = e.fn(ch, payload)
	return
}
