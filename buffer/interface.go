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

// Package buffer implements ChunkedBuffer: an append-only, non-contiguous
// byte sequence assembled from pool.Chunk spans, with independent read and
// write cursors over the logical stream (spec.md §3, §4.2).
package buffer

import "github.com/nabbar/channelcore/pool"

// Buffer is a gather/scatter byte queue. A receive-path Buffer accumulates
// bytes offered by the channel's I/O loop; a send-path Buffer is built
// ad-hoc by an outgoing pipeline handler lowering a typed message to bytes.
//
// Buffer is single-owner: spec.md §5 requires it never be shared across
// goroutines without external synchronization.
type Buffer interface {
	// Write copies p into newly borrowed chunks appended at the tail,
	// advancing the write cursor. A zero-length write appends nothing.
	Write(p []byte) (n int, err error)

	// Offer transfers ownership of an already-filled chunk — the receive
	// path's no-copy path — appending a span covering c.Bytes()[offset:offset+length].
	Offer(c pool.Chunk, offset, length int) error

	// Read copies up to len(p) bytes starting at the read cursor into p,
	// advancing the cursor by the number of bytes copied. Reads never
	// fail; 0 is returned at end-of-stream (read cursor caught up to the
	// write cursor).
	Read(p []byte) (n int, err error)

	// ReadPos returns the current absolute read-cursor position.
	ReadPos() int64
	// SetReadPos rewinds (or fast-forwards) the read cursor. Rewinding
	// below the oldest span still held (i.e. before the last Flush) fails
	// — those bytes are gone.
	SetReadPos(pos int64) error
	// WritePos returns the current absolute write-cursor position.
	WritePos() int64

	// Len returns the number of unread bytes currently buffered
	// (WritePos - ReadPos).
	Len() int64

	// Flush discards every span fully behind the read cursor, returning
	// their chunks to the pool.
	Flush() error
	// Close flushes to end and releases every remaining span, regardless
	// of how much of it was read.
	Close() error
}

// New creates an empty Buffer borrowing chunks from p.
func New(p pool.Pool) Buffer {
	return &buf{pl: p}
}
