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

// Package promise implements Promise[T]: a single-assignment future with an
// optional fulfillment callback and a blocking wait that never cancels the
// work it is waiting on (spec.md §3 "Promise<T>", §9 "Promises and blocking
// waits").
package promise

import "time"

// Outcome is what a Promise settles with: either Value or Err is set, never
// both.
type Outcome[T any] struct {
	Value T
	Err   error
}

// Promise is a one-shot future. Fulfillment happens at most once; every
// subsequent Fulfill call is a no-op. Installing OnFulfill after the
// promise already settled invokes fn immediately, inline, with the stored
// outcome.
type Promise[T any] interface {
	// Fulfill settles the promise with (value, nil). A no-op if already
	// fulfilled.
	Fulfill(value T)
	// Reject settles the promise with (zero value, err). A no-op if
	// already fulfilled.
	Reject(err error)

	// OnFulfill installs the single fulfillment callback. At most one
	// callback may be installed; a second call replaces it only if the
	// promise has not yet settled, matching "at most one fulfillment
	// callback".
	OnFulfill(fn func(Outcome[T]))

	// Wait blocks until the promise settles and returns its outcome.
	Wait() Outcome[T]

	// WaitForValue blocks up to timeout for the promise to settle. It
	// does NOT cancel whatever operation the promise represents: on
	// timeout the promise is left exactly as it was, free to settle
	// later. ok is false on timeout, and also when the promise settled
	// with an error (value is then the zero value of T).
	WaitForValue(timeout time.Duration) (value T, ok bool)

	// IsFulfilled reports whether the promise has already settled.
	IsFulfilled() bool
}

// New creates an unfulfilled Promise[T].
func New[T any]() Promise[T] {
	return &promise[T]{done: make(chan struct{})}
}
