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

package promise_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/channelcore/promise"
)

var _ = Describe("Promise", func() {
	Describe("fulfillment", func() {
		It("settles exactly once, ignoring later Fulfill/Reject calls", func() {
			p := promise.New[int]()

			p.Fulfill(42)
			p.Fulfill(7)
			p.Reject(errors.New("too late"))

			o := p.Wait()
			Expect(o.Err).ToNot(HaveOccurred())
			Expect(o.Value).To(Equal(42))
		})

		It("rejects with an error and a zero value", func() {
			p := promise.New[int]()
			p.Reject(errors.New("boom"))

			o := p.Wait()
			Expect(o.Err).To(HaveOccurred())
			Expect(o.Value).To(Equal(0))
		})
	})

	Describe("OnFulfill", func() {
		It("invokes the callback inline when installed after settlement", func() {
			p := promise.New[string]()
			p.Fulfill("done")

			var got string
			p.OnFulfill(func(o promise.Outcome[string]) {
				got = o.Value
			})

			Expect(got).To(Equal("done"))
		})

		It("invokes the callback once the promise later settles", func() {
			p := promise.New[string]()
			var got string
			p.OnFulfill(func(o promise.Outcome[string]) {
				got = o.Value
			})

			p.Fulfill("later")
			Expect(got).To(Equal("later"))
		})
	})

	Describe("WaitForValue", func() {
		It("returns the value when fulfilled before the deadline", func() {
			p := promise.New[int]()
			go func() {
				time.Sleep(10 * time.Millisecond)
				p.Fulfill(9)
			}()

			v, ok := p.WaitForValue(time.Second)
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(9))
		})

		It("times out without altering the promise's eventual outcome", func() {
			p := promise.New[int]()

			_, ok := p.WaitForValue(20 * time.Millisecond)
			Expect(ok).To(BeFalse())
			Expect(p.IsFulfilled()).To(BeFalse())

			p.Fulfill(5)
			o := p.Wait()
			Expect(o.Value).To(Equal(5))
		})
	})
})
