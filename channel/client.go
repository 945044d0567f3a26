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

	"golang.org/x/net/ipv4"

	"github.com/nabbar/channelcore/pipeline"
	"github.com/nabbar/channelcore/promise"
)

// ClientChannel is a Channel that additionally exposes Connect, driving it
// through DISCONNECTED -> CONNECTING -> CONNECTED -> DISCONNECTING
// (spec.md §2 "ClientChannel").
type ClientChannel interface {
	Channel
	Connect(ctx context.Context, network, address string) promise.Promise[Channel]
}

type clientChannel struct {
	*core
	cfg   Config
	pl    pipeline.Pipeline
	state *connStateBox
}

// NewClient creates an unconnected ClientChannel. Connect must be called
// exactly once before Send/Close do anything useful.
func NewClient(cfg Config, pl pipeline.Pipeline) ClientChannel {
	state := newConnStateBox(Disconnected)
	c := newCore(nil, cfg, pl)
	c.state = state

	cc := &clientChannel{core: c, cfg: cfg, pl: pl, state: state}
	c.self = cc
	return cc
}

func (cc *clientChannel) Connect(ctx context.Context, network, address string) promise.Promise[Channel] {
	p := promise.New[Channel]()

	if !cc.state.transition(Disconnected, Connecting) {
		p.Reject(errState("connect", cc.state.Load()))
		return p
	}

	go func() {
		dialer := net.Dialer{}
		conn, err := dialer.DialContext(ctx, network, address)
		if err != nil {
			cc.state.v.Store(Disconnected)
			p.Reject(errTransport(err, "dial %s %s failed", network, address))
			return
		}

		applySocketOptions(conn, cc.cfg)

		cc.core.mu.Lock()
		cc.core.conn = conn
		cc.core.mu.Unlock()

		if err := cc.core.announceConnected(ctx, true); err != nil {
			p.Reject(err)
			return
		}

		p.Fulfill(cc)
	}()

	return p
}

// applySocketOptions applies socket-level options to conn that are valid
// only on a *net.TCPConn. Called both from Connect (dial side) and from
// listener.handleAccept (accept side), since Config is shared by both.
func applySocketOptions(conn net.Conn, cfg Config) {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}
	if cfg.NoDelay {
		_ = tcp.SetNoDelay(true)
	}
	if cfg.TTL > 0 {
		_ = ipv4.NewConn(tcp).SetTTL(cfg.TTL)
	}
}
