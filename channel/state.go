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

// Package channel implements ChannelCore: the socket-backed state machine
// and I/O loop shared by ClientChannel and RemoteChannel, plus the
// ListenerChannel that produces RemoteChannels (spec.md §3 "Channel", §4.4).
package channel

import "github.com/nabbar/channelcore/xatomic"

// ConnState is the client/remote lifecycle: DISCONNECTED -> CONNECTING ->
// CONNECTED -> DISCONNECTING -> DISCONNECTED.
type ConnState uint32

const (
	Disconnected ConnState = iota
	Connecting
	Connected
	Disconnecting
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "DISCONNECTED"
	case Connecting:
		return "CONNECTING"
	case Connected:
		return "CONNECTED"
	case Disconnecting:
		return "DISCONNECTING"
	default:
		return "UNKNOWN"
	}
}

// ListenState is the listener lifecycle: CLOSED -> BINDING -> BOUND ->
// CLOSING -> CLOSED.
type ListenState uint32

const (
	Closed ListenState = iota
	Binding
	Bound
	Closing
)

func (s ListenState) String() string {
	switch s {
	case Closed:
		return "CLOSED"
	case Binding:
		return "BINDING"
	case Bound:
		return "BOUND"
	case Closing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

// connStateBox is the CAS cell backing a client/remote channel's state.
// Every transition is a single compare-and-set from a specific prior
// state; an attempt from a non-matching prior state is a state conflict
// and is never retried (spec.md §3 "ChannelState").
type connStateBox struct {
	v xatomic.Value[ConnState]
}

func newConnStateBox(initial ConnState) *connStateBox {
	b := &connStateBox{}
	b.v.Store(initial)
	return b
}

func (b *connStateBox) Load() ConnState { return b.v.Load() }

func (b *connStateBox) transition(from, to ConnState) bool {
	return b.v.CompareAndSwap(from, to)
}

type listenStateBox struct {
	v xatomic.Value[ListenState]
}

func newListenStateBox(initial ListenState) *listenStateBox {
	b := &listenStateBox{}
	b.v.Store(initial)
	return b
}

func (b *listenStateBox) Load() ListenState { return b.v.Load() }

func (b *listenStateBox) transition(from, to ListenState) bool {
	return b.v.CompareAndSwap(from, to)
}
