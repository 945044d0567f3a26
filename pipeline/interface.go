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

// Package pipeline implements the per-channel handler chains: four ordered
// axes (incoming, outgoing, opened, closed) that a channel dispatches
// through on every receive, send, connect and close (spec.md §3 "Pipeline
// (per channel)", §4.3).
package pipeline

import "reflect"

// Endpoint is the channel a pipeline belongs to, as seen by a handler. The
// pipeline package never calls back into it; it only threads the value
// through so handlers can reach the owning channel (send a reply, close
// itself, read its remote address, ...).
type Endpoint interface{}

// Callback is a typed-axis handler: it receives the current payload and
// returns the payload the rest of the chain should see. Returning a value
// of a different type than it received is how a handler lowers/raises the
// message (e.g. bytes -> HttpRequest); later entries are then filtered
// against the new runtime type.
type Callback func(ch Endpoint, payload any) any

// LifecycleCallback is an opened/closed handler. There is no payload to
// filter on: it is invoked unconditionally, once, with the channel itself.
type LifecycleCallback func(ch Endpoint)

// Handle identifies one installed handler for removal or relative
// insertion (addBefore/addAfter). It is opaque and comparable only via
// ==, matching spec.md's "identity for equality/removal".
type Handle struct {
	e any
}

// Chain is one type-filtered axis (incoming or outgoing).
type Chain interface {
	// AddFirst installs fn ahead of every existing entry. t is the
	// declared payload type the handler accepts.
	AddFirst(t reflect.Type, fn Callback) Handle
	// AddLast installs fn behind every existing entry.
	AddLast(t reflect.Type, fn Callback) Handle
	// AddBefore installs fn immediately ahead of ref. Fails with a usage
	// error if ref is not currently installed.
	AddBefore(ref Handle, t reflect.Type, fn Callback) (Handle, error)
	// AddAfter installs fn immediately behind ref.
	AddAfter(ref Handle, t reflect.Type, fn Callback) (Handle, error)
	// Remove uninstalls the handler identified by h. A no-op, returning
	// no error, if h is not currently installed.
	Remove(h Handle) error

	// Dispatch walks a snapshot of the chain taken under the axis lock,
	// invoking every entry whose declared type is assignable from
	// payload's current runtime type, threading the (possibly replaced)
	// payload through in order.
	Dispatch(ch Endpoint, payload any) any

	// Len reports the number of installed handlers.
	Len() int
}

// Lifecycle is the opened/closed axis: unfiltered, channel-only callbacks.
type Lifecycle interface {
	AddFirst(fn LifecycleCallback) Handle
	AddLast(fn LifecycleCallback) Handle
	AddBefore(ref Handle, fn LifecycleCallback) (Handle, error)
	AddAfter(ref Handle, fn LifecycleCallback) (Handle, error)
	Remove(h Handle) error

	Dispatch(ch Endpoint)

	Len() int
}

// Pipeline bundles the four axes installed on one channel.
type Pipeline interface {
	Incoming() Chain
	Outgoing() Chain
	Opened() Lifecycle
	Closed() Lifecycle

	// Clone returns a new Pipeline with the same handlers installed, in
	// the same order, on every axis. ListenerChannel uses this to seed
	// each accepted RemoteChannel's pipeline from the listener's own
	// (spec.md §4.5): handlers registered on the listener before accept
	// apply to every remote it produces; later listener-side changes do
	// not retroactively affect already-accepted remotes.
	Clone() Pipeline
}

// New creates an empty Pipeline.
func New() Pipeline {
	return &pipe{
		incoming: newChain(),
		outgoing: newChain(),
		opened:   newLifecycle(),
		closed:   newLifecycle(),
	}
}
