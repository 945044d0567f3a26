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

// Package pool implements the fixed-size byte-chunk allocator the channel
// core borrows receive/send buffers from: a bounded free-list with trim
// hysteresis so bursty traffic doesn't pin memory high forever, but a
// steady minimum stays ready without re-allocating on every read.
package pool

import "github.com/nabbar/channelcore/chlog"

// Chunk is a fixed-size byte-storage handle lent out by a Pool. Callers
// read/write into Bytes() while they hold it and must call Return exactly
// once when done; returning it more than once, or returning it to a Pool
// that did not issue it, is a usage error (spec.md §4.1).
type Chunk interface {
	// Bytes exposes the full backing array. Its length is the Pool's
	// configured chunk size, regardless of how much of it is in use.
	Bytes() []byte
	// Size is len(Bytes()).
	Size() int
}

// Config parameterizes a Pool.
type Config struct {
	// ChunkSize is the fixed size, in bytes, of every chunk the Pool hands
	// out. Must be > 0.
	ChunkSize int
	// TrimPercentile is the availability ratio ((free+1)/total, computed
	// on Return) above which a returned chunk re-enters the free list; at
	// or below it the chunk is evicted unless MinIdealFree applies.
	// Zero defaults to 0.65 (spec.md §3 "default ~65%").
	TrimPercentile float64
	// MinIdealFree: while Total is at or below this value, Return always
	// keeps the chunk, regardless of TrimPercentile. Zero defaults to 10
	// (spec.md §3).
	MinIdealFree int
	// Log is the optional logger used to report chunk evictions.
	Log chlog.FuncLog
}

// Pool borrows and returns fixed-size Chunks, with a bounded free-list
// subject to trim hysteresis (spec.md §4.1).
type Pool interface {
	// Borrow returns a Chunk ready for use, preferring the free list over
	// allocating a new backing array.
	Borrow() Chunk
	// Return releases a Chunk previously obtained from Borrow. It is a
	// usage error to return a nil Chunk, a Chunk this Pool did not issue,
	// or a Chunk that is already in the free list.
	Return(c Chunk) error

	// Free is the current number of chunks sitting in the free list.
	Free() int
	// Total is the number of chunks currently issued by this Pool, whether
	// borrowed or free.
	Total() int
	// ChunkSize is the fixed size of every Chunk this Pool issues.
	ChunkSize() int

	// Hits is the number of Borrow calls satisfied from the free list.
	Hits() int64
	// Misses is the number of Borrow calls that allocated a new chunk.
	Misses() int64
}

// New builds a Pool per cfg, defaulting TrimPercentile and MinIdealFree
// when left at zero.
func New(cfg Config) Pool {
	if cfg.TrimPercentile <= 0 {
		cfg.TrimPercentile = 0.65
	}
	if cfg.MinIdealFree <= 0 {
		cfg.MinIdealFree = 10
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 4096
	}
	if cfg.Log == nil {
		cfg.Log = func() chlog.Logger { return chlog.Noop() }
	}

	return &pool{
		chunkSize: cfg.ChunkSize,
		trim:      cfg.TrimPercentile,
		minIdeal:  cfg.MinIdealFree,
		log:       cfg.Log,
	}
}
