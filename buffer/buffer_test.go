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
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/channelcore/pool"
)

var _ = Describe("Buffer", func() {
	var p pool.Pool

	BeforeEach(func() {
		p = pool.New(pool.Config{ChunkSize: 4})
	})

	Describe("write, read and rewind (spec.md scenario 2)", func() {
		It("assembles HELLO WORLD across 3 chunk-sized spans and supports rewind", func() {
			b := New(p)

			n, err := b.Write([]byte("HELLO WORLD"))
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(11))
			Expect(spanCount(b)).To(Equal(3))

			out := make([]byte, 5)
			n, err = b.Read(out)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(5))
			Expect(string(out)).To(Equal("HELLO"))

			Expect(b.SetReadPos(0)).ToNot(HaveOccurred())

			out = make([]byte, 11)
			n, err = b.Read(out)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(11))
			Expect(string(out)).To(Equal("HELLO WORLD"))

			Expect(b.Flush()).ToNot(HaveOccurred())
			Expect(spanCount(b)).To(Equal(0))
			Expect(p.Free()).To(Equal(p.Total()))
		})
	})

	Describe("write/read round trip (spec.md §8)", func() {
		It("returns exactly what was written, byte for byte, for arbitrary sizes", func() {
			b := New(p)
			payload := []byte("the quick brown fox jumps over the lazy dog, 1234567890")

			n, err := b.Write(payload)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(len(payload)))

			out := make([]byte, len(payload))
			n, err = b.Read(out)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(len(payload)))
			Expect(out).To(Equal(payload))
		})

		It("reports 0 at end of stream without error", func() {
			b := New(p)
			_, _ = b.Write([]byte("hi"))

			out := make([]byte, 2)
			n, _ := b.Read(out)
			Expect(n).To(Equal(2))

			n, err := b.Read(out)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(0))
		})
	})

	Describe("Offer", func() {
		It("takes ownership of an already-filled chunk without copying", func() {
			b := New(p)
			c := p.Borrow()
			bs := c.Bytes()
			copy(bs, []byte("data"))

			Expect(b.Offer(c, 0, 4)).ToNot(HaveOccurred())
			Expect(b.Len()).To(Equal(int64(4)))

			out := make([]byte, 4)
			n, err := b.Read(out)
			Expect(err).ToNot(HaveOccurred())
			Expect(n).To(Equal(4))
			Expect(string(out)).To(Equal("data"))
		})

		It("rejects an out-of-bounds range", func() {
			b := New(p)
			c := p.Borrow()
			Expect(b.Offer(c, 0, len(c.Bytes())+1)).To(HaveOccurred())
		})
	})

	Describe("rewind bounds", func() {
		It("rejects rewinding before the last flush point", func() {
			b := New(p)
			_, _ = b.Write([]byte("HELLO WORLD"))

			out := make([]byte, 5)
			_, _ = b.Read(out)
			Expect(b.Flush()).ToNot(HaveOccurred())

			Expect(b.SetReadPos(0)).To(HaveOccurred())
		})

		It("rejects seeking past the write cursor", func() {
			b := New(p)
			_, _ = b.Write([]byte("hi"))
			Expect(b.SetReadPos(100)).To(HaveOccurred())
		})
	})

	Describe("Close", func() {
		It("releases every remaining span and rejects further writes", func() {
			b := New(p)
			_, _ = b.Write([]byte("HELLO WORLD"))

			Expect(b.Close()).ToNot(HaveOccurred())
			Expect(p.Free()).To(Equal(p.Total()))

			_, err := b.Write([]byte("x"))
			Expect(err).To(HaveOccurred())
		})
	})
})
