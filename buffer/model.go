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

package buffer

import (
	"sync"

	"github.com/nabbar/channelcore/pool"
)

type buf struct {
	mu sync.Mutex

	pl pool.Pool

	head *span
	tail *span

	writePos   int64
	readPos    int64
	flushedPos int64

	closed bool
}

func (b *buf) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return 0, usageErr("write on a closed buffer")
	}

	for n < len(p) {
		c := b.pl.Borrow()
		bs := c.Bytes()
		m := copy(bs, p[n:])

		b.appendSpan(&span{chunk: c, start: 0, end: m, absStart: b.writePos})
		b.writePos += int64(m)
		n += m
	}

	return n, nil
}

func (b *buf) Offer(c pool.Chunk, offset, length int) error {
	if c == nil {
		return usageErr("offer of a nil chunk")
	}
	if length <= 0 {
		return nil
	}
	if offset < 0 || offset+length > len(c.Bytes()) {
		return usageErr("offer range [%d:%d] out of bounds for chunk of size %d", offset, offset+length, len(c.Bytes()))
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return usageErr("offer on a closed buffer")
	}

	b.appendSpan(&span{chunk: c, start: offset, end: offset + length, absStart: b.writePos})
	b.writePos += int64(length)

	return nil
}

func (b *buf) appendSpan(s *span) {
	if b.tail == nil {
		b.head, b.tail = s, s
		return
	}
	b.tail.next = s
	b.tail = s
}

func (b *buf) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for n < len(p) && b.readPos < b.writePos {
		s, off := b.locate(b.readPos)
		if s == nil {
			break
		}
		bs := s.chunk.Bytes()
		avail := (s.end - off)
		want := len(p) - n
		if want > avail {
			want = avail
		}
		copy(p[n:n+want], bs[off:off+want])
		n += want
		b.readPos += int64(want)
	}

	return n, nil
}

// locate returns the span containing absolute position pos, and the byte
// offset within chunk.Bytes() corresponding to pos.
func (b *buf) locate(pos int64) (*span, int) {
	for s := b.head; s != nil; s = s.next {
		if pos >= s.absStart && pos < s.absStart+s.length() {
			return s, s.start + int(pos-s.absStart)
		}
	}
	return nil, 0
}

func (b *buf) ReadPos() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readPos
}

func (b *buf) SetReadPos(pos int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pos < b.flushedPos || pos > b.writePos {
		return usageErr("read position %d out of bounds [%d:%d]", pos, b.flushedPos, b.writePos)
	}

	b.readPos = pos
	return nil
}

func (b *buf) WritePos() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writePos
}

func (b *buf) Len() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writePos - b.readPos
}

func (b *buf) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.releaseUpTo(b.readPos)
}

// releaseUpTo returns every span fully behind pos to the pool and advances
// flushedPos. Caller holds b.mu.
func (b *buf) releaseUpTo(pos int64) error {
	for b.head != nil && b.head.absStart+b.head.length() <= pos {
		s := b.head
		b.head = s.next
		if b.head == nil {
			b.tail = nil
		}
		if err := b.pl.Return(s.chunk); err != nil {
			return err
		}
		b.flushedPos = s.absStart + s.length()
	}
	return nil
}

func (b *buf) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	b.readPos = b.writePos
	if err := b.releaseUpTo(b.writePos); err != nil {
		return err
	}
	b.flushedPos = b.writePos

	return nil
}
