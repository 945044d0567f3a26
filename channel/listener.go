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
	"context"
	"net"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/nabbar/channelcore/chlog"
	"github.com/nabbar/channelcore/pipeline"
	"github.com/nabbar/channelcore/promise"
)

// RemoteHandler is invoked once per accepted peer, after its pipeline has
// announced opened, so the caller can hold on to the RemoteChannel (track
// it, add per-connection modules, etc).
type RemoteHandler func(rc RemoteChannel)

// ListenerChannel drives CLOSED -> BINDING -> BOUND -> CLOSING and
// produces a RemoteChannel per accepted peer (spec.md §2, §4.5).
type ListenerChannel interface {
	Bind(ctx context.Context, network, address string) promise.Promise[ListenerChannel]
	Close() promise.Promise[ListenerChannel]

	Pipeline() pipeline.Pipeline
	OnAccept(fn RemoteHandler)

	IsActive() bool
	LocalAddr() net.Addr
}

type listenerChannel struct {
	cfg Config
	pl  pipeline.Pipeline

	state *listenStateBox

	mu  sync.Mutex
	ln  net.Listener
	sem *semaphore.Weighted

	onAccept RemoteHandler
}

// NewListener creates an unbound ListenerChannel. Bind must be called
// exactly once.
func NewListener(cfg Config, pl pipeline.Pipeline) ListenerChannel {
	var sem *semaphore.Weighted
	if cfg.AcceptConcurrency > 0 {
		sem = semaphore.NewWeighted(cfg.AcceptConcurrency)
	}

	return &listenerChannel{
		cfg:   cfg,
		pl:    pl,
		state: newListenStateBox(Closed),
		sem:   sem,
	}
}

func (lc *listenerChannel) OnAccept(fn RemoteHandler) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.onAccept = fn
}

func (lc *listenerChannel) Pipeline() pipeline.Pipeline { return lc.pl }

func (lc *listenerChannel) Bind(ctx context.Context, network, address string) promise.Promise[ListenerChannel] {
	p := promise.New[ListenerChannel]()

	if !lc.state.transition(Closed, Binding) {
		p.Reject(errListenState("bind", lc.state.Load()))
		return p
	}

	ln, err := listenTCP(ctx, network, address, lc.cfg.Backlog)
	if err != nil {
		lc.state.v.Store(Closed)
		p.Reject(errTransport(err, "listen %s %s failed", network, address))
		return p
	}

	lc.mu.Lock()
	lc.ln = ln
	lc.mu.Unlock()

	if !lc.state.transition(Binding, Bound) {
		p.Reject(errListenState("bind", lc.state.Load()))
		return p
	}

	go lc.acceptLoop(ctx)

	p.Fulfill(lc)
	return p
}

func (lc *listenerChannel) acceptLoop(ctx context.Context) {
	for lc.state.Load() == Bound {
		conn, err := lc.ln.Accept()
		if err != nil {
			if lc.state.Load() != Bound {
				return
			}
			chlog.Default().Error("listener accept failed", chlog.F("error", err))
			continue
		}

		if lc.sem != nil {
			if err := lc.sem.Acquire(ctx, 1); err != nil {
				_ = conn.Close()
				continue
			}
		}

		go lc.handleAccept(ctx, conn)
	}
}

func (lc *listenerChannel) handleAccept(ctx context.Context, conn net.Conn) {
	if lc.sem != nil {
		defer lc.sem.Release(1)
	}

	applySocketOptions(conn, lc.cfg)

	rc, err := newRemote(ctx, conn, lc.cfg, lc.pl.Clone())
	if err != nil {
		chlog.Default().Error("remote handshake/setup failed", chlog.F("error", err))
		return
	}

	lc.mu.Lock()
	fn := lc.onAccept
	lc.mu.Unlock()

	if fn != nil {
		fn(rc)
	}
}

func (lc *listenerChannel) Close() promise.Promise[ListenerChannel] {
	p := promise.New[ListenerChannel]()

	from := lc.state.Load()
	if !lc.state.transition(from, Closing) {
		p.Reject(errListenState("close", from))
		return p
	}

	lc.mu.Lock()
	ln := lc.ln
	lc.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}

	lc.state.v.Store(Closed)
	p.Fulfill(lc)
	return p
}

func (lc *listenerChannel) IsActive() bool {
	return lc.state.Load() == Bound
}

func (lc *listenerChannel) LocalAddr() net.Addr {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	if lc.ln == nil {
		return nil
	}
	return lc.ln.Addr()
}
