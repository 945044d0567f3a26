/*
 * MIT License
 *
 * Copyright (c) 2020 Nicolas JUHEL
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

// Package cherr defines the error kinds shared by every channel-core
// component: state conflicts, transport failures, TLS handshake failures,
// protocol parse errors, programmer usage errors, and bounded-wait timeouts.
package cherr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error into one of the six categories the channel
// core distinguishes. Kind values are intentionally few: callers branch
// on them with a type switch or errors.Is against the Kind sentinels
// below, never against Error message text.
type Kind uint8

const (
	// KindUnknown is the zero value; never returned by this package.
	KindUnknown Kind = iota
	// KindStateConflict: an operation was attempted from an incompatible
	// channel/listener state (e.g. send before CONNECTED).
	KindStateConflict
	// KindTransport: a socket-level read/write/accept/connect failure.
	KindTransport
	// KindHandshake: a TLS negotiation failed.
	KindHandshake
	// KindParse: a protocol module failed to parse a malformed payload.
	KindParse
	// KindUsage: pool misuse or invalid handler wiring — a programmer fault.
	KindUsage
	// KindTimeout: a bounded wait (promise wait, write-token acquire) expired.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindStateConflict:
		return "state-conflict"
	case KindTransport:
		return "transport"
	case KindHandshake:
		return "handshake"
	case KindParse:
		return "parse"
	case KindUsage:
		return "usage"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// sentinel instances, one per Kind, so that errors.Is(err, cherr.StateConflict)
// works without callers constructing a Kind themselves.
var (
	StateConflict = &Error{kind: KindStateConflict, msg: "state conflict"}
	Transport     = &Error{kind: KindTransport, msg: "transport error"}
	Handshake     = &Error{kind: KindHandshake, msg: "handshake error"}
	Parse         = &Error{kind: KindParse, msg: "parse error"}
	Usage         = &Error{kind: KindUsage, msg: "usage error"}
	Timeout       = &Error{kind: KindTimeout, msg: "timeout"}
)

// Error is a lightweight, kind-tagged error with an optional wrapped cause.
// Unlike the teacher's errors package, there is no trace capture, no parent
// chain, no code registry: the channel core only ever needs "what kind of
// failure is this" plus "what caused it".
type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %s", e.kind, e.msg, e.err.Error())
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap exposes the wrapped cause, if any, to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.err
}

// Is reports whether target is the sentinel for this error's Kind, or
// any other *Error sharing the same Kind.
func (e *Error) Is(target error) bool {
	var o *Error
	if errors.As(target, &o) {
		return o.kind == e.kind
	}
	return false
}

// Kind returns the classification of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// New builds a *Error of the given kind with a formatted message and an
// optional wrapped cause (nil is fine).
func New(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...), err: cause}
}

// Wrap attaches kind to an existing error without discarding it.
func Wrap(kind Kind, cause error) *Error {
	if cause == nil {
		return nil
	}
	return &Error{kind: kind, msg: cause.Error(), err: cause}
}
