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

package pool_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/channelcore/pool"
)

var _ = Describe("Pool", func() {
	Describe("round-trip", func() {
		It("should honor the minimum ideal free count (spec.md scenario 1)", func() {
			p := pool.New(pool.Config{ChunkSize: 10, TrimPercentile: 0.65, MinIdealFree: 10})

			var first []pool.Chunk
			for i := 0; i < 3; i++ {
				first = append(first, p.Borrow())
			}
			for _, c := range first {
				Expect(p.Return(c)).ToNot(HaveOccurred())
			}
			Expect(p.Free()).To(Equal(3))
			Expect(p.Total()).To(Equal(3))

			var second []pool.Chunk
			for i := 0; i < 11; i++ {
				second = append(second, p.Borrow())
			}
			all := append(first, second...)
			for _, c := range all {
				_ = p.Return(c)
			}

			Expect(p.Free()).To(BeNumerically(">=", 10))
			Expect(p.Free()).To(BeNumerically("<=", 14))
			Expect(p.Total()).To(BeNumerically("<=", 14))
		})
	})

	Describe("usage errors", func() {
		It("rejects returning nil", func() {
			p := pool.New(pool.Config{ChunkSize: 8})
			Expect(p.Return(nil)).To(HaveOccurred())
		})

		It("rejects a chunk from a foreign pool", func() {
			p1 := pool.New(pool.Config{ChunkSize: 8})
			p2 := pool.New(pool.Config{ChunkSize: 8})
			c := p1.Borrow()
			Expect(p2.Return(c)).To(HaveOccurred())
		})

		It("rejects returning the same chunk twice", func() {
			p := pool.New(pool.Config{ChunkSize: 8})
			c := p.Borrow()
			Expect(p.Return(c)).ToNot(HaveOccurred())
			Expect(p.Return(c)).To(HaveOccurred())
		})
	})

	Describe("chunk sizing", func() {
		It("hands out chunks of the configured size", func() {
			p := pool.New(pool.Config{ChunkSize: 64})
			c := p.Borrow()
			Expect(c.Size()).To(Equal(64))
			Expect(len(c.Bytes())).To(Equal(64))
		})
	})

	Describe("hit/miss tracking", func() {
		It("counts a miss on first borrow and a hit once a chunk is returned", func() {
			p := pool.New(pool.Config{ChunkSize: 8, MinIdealFree: 1})

			c := p.Borrow()
			Expect(p.Misses()).To(Equal(int64(1)))
			Expect(p.Hits()).To(Equal(int64(0)))

			Expect(p.Return(c)).ToNot(HaveOccurred())

			_ = p.Borrow()
			Expect(p.Hits()).To(Equal(int64(1)))
			Expect(p.Misses()).To(Equal(int64(1)))
		})
	})
})
