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
	"crypto/tls"
	"time"

	"github.com/nabbar/channelcore/chlog"
	"github.com/nabbar/channelcore/pool"
)

// MetricsSink receives transport-level counters that core observes outside
// the pipeline axes: bytes actually written to the wire (after any
// outgoing handler has had a chance to transform or drop the payload) and
// TLS handshake failures. monitor.Metrics implements this.
type MetricsSink interface {
	AddBytesSent(n int)
	IncHandshakeError()
}

// Config carries every piece of library-level configuration a channel
// needs. There is no config file and no CLI surface (spec.md §6): callers
// build this struct directly.
type Config struct {
	// Pool is the BufferPool every channel built with this Config borrows
	// receive/send chunks from. Required.
	Pool pool.Pool

	// NoDelay disables Nagle's algorithm (TCP_NODELAY) when true.
	NoDelay bool
	// TTL is the IP time-to-live for outgoing packets, applied via
	// golang.org/x/net/ipv4; zero leaves the OS default.
	TTL int
	// Backlog is the listen backlog for ListenerChannel's underlying
	// socket; zero leaves the OS default (see listenTCP).
	Backlog int

	// Metrics, if non-nil, receives bytes-sent and handshake-error counts.
	Metrics MetricsSink

	// TLS, if non-nil, upgrades the raw stream after transport connect
	// and before the channel announces CONNECTED (spec.md §4.4 "TLS
	// upgrade"). nil means no TLS.
	TLS *tls.Config

	// WriteTimeout bounds acquisition of the per-channel write
	// serialization token (spec.md §4.4 step 2, default 10s).
	WriteTimeout time.Duration

	// AcceptConcurrency bounds how many accepted connections a listener
	// may be mid-setup (TLS handshake, module install) on at once; zero
	// means unbounded.
	AcceptConcurrency int64

	Log chlog.FuncLog
}

func (c Config) writeTimeout() time.Duration {
	if c.WriteTimeout <= 0 {
		return 10 * time.Second
	}
	return c.WriteTimeout
}

func (c Config) logger() chlog.FuncLog {
	if c.Log != nil {
		return c.Log
	}
	return chlog.Default
}

func (c Config) metrics() MetricsSink {
	return c.Metrics
}
