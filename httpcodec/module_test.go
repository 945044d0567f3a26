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
	"github.com/nabbar/channelcore/channel"
	"github.com/nabbar/channelcore/pipeline"
	"github.com/nabbar/channelcore/pool"
)

type countingErrorSink struct{ n int }

func (s *countingErrorSink) IncParseError() { s.n++ }

var _ = Describe("module Install", func() {
	It("splices the parser ahead of handlers already registered on incoming", func() {
		pl := pool.New(pool.Config{ChunkSize: 64})
		chain := pipeline.New()
		cc := channel.NewClient(channel.Config{Pool: pl}, chain)

		sawRawBuffer := false
		chain.Incoming().AddLast(bufferType, func(pipeline.Endpoint, any) any {
			sawRawBuffer = true
			return nil
		})

		Expect(New(ModeServer, "http", pl, nil).Install(cc)).To(Succeed())

		in := buffer.New(pl)
		_, _ = in.Write([]byte("GET / HTTP/1.1\r\nHost: x\r\n\r\n"))

		out := chain.Incoming().Dispatch(cc, in)

		Expect(sawRawBuffer).To(BeFalse())
		_, ok := out.(*HttpPayload)
		Expect(ok).To(BeTrue())
	})

	It("counts a malformed frame against the configured ErrorSink", func() {
		pl := pool.New(pool.Config{ChunkSize: 64})
		chain := pipeline.New()
		cc := channel.NewClient(channel.Config{Pool: pl}, chain)

		sink := &countingErrorSink{}
		Expect(New(ModeServer, "http", pl, sink).Install(cc)).To(Succeed())

		in := buffer.New(pl)
		_, _ = in.Write([]byte("NOTAMETHODWITHOUTANYSPACESATALLANDNOVERSIONTOKENXX\r\n\r\n"))

		_ = chain.Incoming().Dispatch(cc, in)

		Expect(sink.n).To(BeNumerically(">=", 1))
	})
})
