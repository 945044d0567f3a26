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

package promise

import (
	"sync"
	"time"
)

type promise[T any] struct {
	mu   sync.Mutex
	done chan struct{}

	settled bool
	outcome Outcome[T]

	cb func(Outcome[T])
}

func (p *promise[T]) Fulfill(value T) {
	p.settle(Outcome[T]{Value: value})
}

func (p *promise[T]) Reject(err error) {
	p.settle(Outcome[T]{Err: err})
}

func (p *promise[T]) settle(o Outcome[T]) {
	p.mu.Lock()

	if p.settled {
		p.mu.Unlock()
		return
	}
	p.settled = true
	p.outcome = o
	cb := p.cb
	close(p.done)

	p.mu.Unlock()

	if cb != nil {
		cb(o)
	}
}

func (p *promise[T]) OnFulfill(fn func(Outcome[T])) {
	p.mu.Lock()

	if p.settled {
		o := p.outcome
		p.mu.Unlock()
		fn(o)
		return
	}
	p.cb = fn

	p.mu.Unlock()
}

func (p *promise[T]) Wait() Outcome[T] {
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outcome
}

func (p *promise[T]) WaitForValue(timeout time.Duration) (value T, ok bool) {
	t := time.NewTimer(timeout)
	defer t.Stop()

	select {
	case <-p.done:
		p.mu.Lock()
		o := p.outcome
		p.mu.Unlock()
		if o.Err != nil {
			return value, false
		}
		return o.Value, true
	case <-t.C:
		return value, false
	}
}

func (p *promise[T]) IsFulfilled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}
