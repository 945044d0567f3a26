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
	"sync"

	"github.com/nabbar/channelcore/chlog"
)

type lifecycleEntry struct {
	fn LifecycleCallback
}

type lifecycle struct {
	mu  sync.Mutex
	lst []*lifecycleEntry
}

func newLifecycle() *lifecycle {
	return &lifecycle{}
}

func (l *lifecycle) AddFirst(fn LifecycleCallback) Handle {
	e := &lifecycleEntry{fn: fn}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lst = append([]*lifecycleEntry{e}, l.lst...)

	return Handle{e: e}
}

func (l *lifecycle) AddLast(fn LifecycleCallback) Handle {
	e := &lifecycleEntry{fn: fn}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.lst = append(l.lst, e)

	return Handle{e: e}
}

func (l *lifecycle) AddBefore(ref Handle, fn LifecycleCallback) (Handle, error) {
	e := &lifecycleEntry{fn: fn}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(ref)
	if idx < 0 {
		return Handle{}, errRefNotFound()
	}

	l.lst = append(l.lst, nil)
	copy(l.lst[idx+1:], l.lst[idx:])
	l.lst[idx] = e

	return Handle{e: e}, nil
}

func (l *lifecycle) AddAfter(ref Handle, fn LifecycleCallback) (Handle, error) {
	e := &lifecycleEntry{fn: fn}

	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(ref)
	if idx < 0 {
		return Handle{}, errRefNotFound()
	}

	pos := idx + 1
	l.lst = append(l.lst, nil)
	copy(l.lst[pos+1:], l.lst[pos:])
	l.lst[pos] = e

	return Handle{e: e}, nil
}

func (l *lifecycle) Remove(h Handle) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := l.indexOf(h)
	if idx < 0 {
		return nil
	}
	l.lst = append(l.lst[:idx], l.lst[idx+1:]...)
	return nil
}

func (l *lifecycle) indexOf(h Handle) int {
	e, _ := h.e.(*lifecycleEntry)
	if e == nil {
		return -1
	}
	for i, x := range l.lst {
		if x == e {
			return i
		}
	}
	return -1
}

func (l *lifecycle) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lst)
}

func (l *lifecycle) snapshot() []*lifecycleEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	s := make([]*lifecycleEntry, len(l.lst))
	copy(s, l.lst)
	return s
}

// Dispatch invokes every entry unconditionally, in order; unlike Chain
// there is no payload and so no type filter.
func (l *lifecycle) Dispatch(ch Endpoint) {
	for _, e := range l.snapshot() {
		l.invoke(e, ch)
	}
}

func (l *lifecycle) invoke(e *lifecycleEntry, ch Endpoint) {
	defer func() {
		if r := recover(); r != nil {
			chlog.Default().Error("pipeline lifecycle handler panicked", chlog.F("recover", r))
		}
	}()
	e.fn(ch)
}
