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

package pool

import (
	"sync"
	"sync/atomic"

	"github.com/nabbar/channelcore/chlog"
)

type pool struct {
	mu        sync.Mutex
	free      []*chunk
	total     int
	chunkSize int
	trim      float64
	minIdeal  int
	log       chlog.FuncLog

	hits   atomic.Int64
	misses atomic.Int64
}

func (p *pool) logger() chlog.Logger {
	if p.log == nil {
		return chlog.Noop()
	}
	if l := p.log(); l != nil {
		return l
	}
	return chlog.Noop()
}

// Borrow pops a chunk off the free list, or allocates a new one and
// increments total when the free list is empty (spec.md §4.1).
func (p *pool) Borrow() Chunk {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.free)
	if n > 0 {
		c := p.free[n-1]
		p.free = p.free[:n-1]
		c.pooled = false
		p.hits.Add(1)
		return c
	}

	p.total++
	p.misses.Add(1)
	return &chunk{b: make([]byte, p.chunkSize), from: p}
}

// Return releases c back to the pool, applying the trim-hysteresis rule:
// a chunk re-enters the free list when the resulting availability ratio
// exceeds TrimPercentile, or the pool is still below MinIdealFree;
// otherwise it is evicted and total decreases (spec.md §4.1).
func (p *pool) Return(c Chunk) error {
	if c == nil {
		return usageErr("Return called with a nil chunk")
	}

	ck, ok := c.(*chunk)
	if !ok || ck.from != p {
		return usageErr("Return called with a chunk not issued by this pool")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if ck.pooled {
		return usageErr("Return called twice on the same chunk")
	}

	availability := float64(len(p.free)+1) / float64(p.total)
	if availability > p.trim || p.total <= p.minIdeal {
		ck.pooled = true
		p.free = append(p.free, ck)
		return nil
	}

	p.total--
	p.logger().Debug("evicting pooled chunk", chlog.F("total", p.total), chlog.F("free", len(p.free)))
	return nil
}

func (p *pool) Free() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

func (p *pool) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

func (p *pool) ChunkSize() int {
	return p.chunkSize
}

func (p *pool) Hits() int64 {
	return p.hits.Load()
}

func (p *pool) Misses() int64 {
	return p.misses.Load()
}
