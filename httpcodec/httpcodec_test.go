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

package httpcodec

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/channelcore/buffer"
	"github.com/nabbar/channelcore/pool"
)

const sampleContent = "<test><val>hello</val></test>"

var _ = Describe("HttpCodec", func() {
	var pl pool.Pool

	BeforeEach(func() {
		pl = pool.New(pool.Config{ChunkSize: 64})
	})

	Describe("request with Content-Length delivered in three partial buffers (spec.md scenario 3)", func() {
		It("reports incomplete on the first two buffers and complete with exact fields on the third", func() {
			wire := "POST / HTTP/1.0\r\nHost: localhost\r\nContent-Length: " +
				itoa(len(sampleContent)) + "\r\n\r\n" + sampleContent

			third := len(wire) / 3
			part1 := wire[:third]
			part2 := wire[third : 2*third]
			part3 := wire[2*third:]

			in := buffer.New(pl)
			st := newParseState(ModeServer, pl)

			_, _ = in.Write([]byte(part1))
			complete, err := st.parse(in, true)
			Expect(err).ToNot(HaveOccurred())
			Expect(complete).To(BeFalse())

			_, _ = in.Write([]byte(part2))
			complete, err = st.parse(in, true)
			Expect(err).ToNot(HaveOccurred())
			Expect(complete).To(BeFalse())

			_, _ = in.Write([]byte(part3))
			complete, err = st.parse(in, true)
			Expect(err).ToNot(HaveOccurred())
			Expect(complete).To(BeTrue())

			Expect(st.payload.Method).To(Equal("POST"))
			Expect(st.payload.Path).To(Equal("/"))
			Expect(st.payload.Version).To(Equal("HTTP/1.0"))
			Expect(st.payload.Headers.Get("Host")).To(Equal("localhost"))
			Expect(st.payload.BodySize).To(Equal(int64(len(sampleContent))))

			body := make([]byte, st.payload.Body.Len())
			_, _ = st.payload.Body.Read(body)
			Expect(string(body)).To(Equal(sampleContent))

			Expect(st.payload.Body.SetReadPos(0)).To(Succeed())
			out := Write(st.payload)
			Expect(string(out)).To(Equal(wire))
		})
	})

	Describe("chunked response delivered across four buffers (spec.md scenario 4)", func() {
		It("returns false three times then true, with the concatenated body", func() {
			in := buffer.New(pl)
			st := newParseState(ModeClient, pl)

			feed := []string{
				"HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n",
				"1\r\n \r\n",
				"5\r\nworld\r\n",
				"0\r\n\r\n",
			}

			var last bool
			var err error
			for i, f := range feed {
				_, _ = in.Write([]byte(f))
				last, err = st.parse(in, true)
				Expect(err).ToNot(HaveOccurred())
				if i < len(feed)-1 {
					Expect(last).To(BeFalse())
				}
			}
			Expect(last).To(BeTrue())

			body := make([]byte, st.payload.Body.Len())
			_, _ = st.payload.Body.Read(body)
			Expect(string(body)).To(Equal("hello world"))

			Expect(st.payload.Body.SetReadPos(0)).To(Succeed())
			out := Write(st.payload)
			Expect(out).To(ContainSubstring("hello world"))
		})
	})

	Describe("header multi-value handling", func() {
		It("comma-splits ordinary headers but keeps Set-Cookie as distinct values", func() {
			wire := "GET / HTTP/1.1\r\nAccept: text/html,application/json\r\n" +
				"Set-Cookie: a=1\r\nSet-Cookie: b=2\r\nContent-Length: 0\r\n\r\n"

			in := buffer.New(pl)
			st := newParseState(ModeServer, pl)
			_, _ = in.Write([]byte(wire))

			complete, err := st.parse(in, true)
			Expect(err).ToNot(HaveOccurred())
			Expect(complete).To(BeTrue())

			Expect(st.payload.Headers.Values("Accept")).To(Equal([]string{"text/html", "application/json"}))
			Expect(st.payload.Headers.Values("Set-Cookie")).To(Equal([]string{"a=1", "b=2"}))
		})
	})
})

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
