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

package channel

import (
	"net"

	"github.com/nabbar/channelcore/pipeline"
	"github.com/nabbar/channelcore/promise"
)

// Module bundles handlers and lifecycle hooks installed onto a channel
// (spec.md GLOSSARY "Module"), e.g. an HttpCodecModule.
type Module interface {
	Name() string
	Install(ch Channel) error
}

// Channel is the public contract shared by ClientChannel and RemoteChannel
// (spec.md §4.4). ListenerChannel has its own interface and does not
// implement Channel.
type Channel interface {
	pipeline.Endpoint

	// Send lowers message through the outgoing pipeline and writes the
	// result to the wire, fulfilling the returned promise with this
	// channel on completion or with an error (state conflict, transport,
	// or write-serialization timeout).
	Send(message any) promise.Promise[Channel]

	// Close initiates a graceful shutdown, fulfilling the returned
	// promise once closed handlers have run and the stream is released.
	Close() promise.Promise[Channel]

	AddModule(m Module) error
	RemoveModule(name string) error

	Pipeline() pipeline.Pipeline

	RemoteAddr() net.Addr
	LocalAddr() net.Addr

	IsActive() bool
}
