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
	"crypto/tls"
	"io"
	"net"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/nabbar/channelcore/buffer"
	"github.com/nabbar/channelcore/chlog"
	"github.com/nabbar/channelcore/pipeline"
	"github.com/nabbar/channelcore/promise"
)

// core is the I/O loop shared by ClientChannel and RemoteChannel (spec.md
// §4.4). A ListenerChannel does not embed core directly: it owns a net
// .Listener and produces a core-backed RemoteChannel per accept.
type core struct {
	mu   sync.Mutex
	conn net.Conn
	cfg  Config
	pl   pipeline.Pipeline

	state *connStateBox

	recv buffer.Buffer
	tok  *semaphore.Weighted

	modMu sync.Mutex
	mods  map[string]Module

	self Channel

	closeOnce sync.Once
	closeProm promise.Promise[Channel]
}

func newCore(conn net.Conn, cfg Config, pl pipeline.Pipeline) *core {
	return &core{
		conn:  conn,
		cfg:   cfg,
		pl:    pl,
		state: newConnStateBox(Disconnected),
		recv:  buffer.New(cfg.Pool),
		tok:   semaphore.NewWeighted(1),
		mods:  make(map[string]Module),
	}
}

func (c *core) logger() chlog.Logger {
	if f := c.cfg.logger(); f != nil {
		if l := f(); l != nil {
			return l
		}
	}
	return chlog.Default()
}

// announceConnected performs the optional TLS upgrade, transitions
// Connecting -> Connected, and fires the opened axis exactly once, before
// any incoming dispatch (spec.md §8 invariant).
func (c *core) announceConnected(ctx context.Context, isClientSide bool) error {
	if c.cfg.TLS != nil {
		if err := c.upgradeTLS(ctx, isClientSide); err != nil {
			if sink := c.cfg.metrics(); sink != nil {
				sink.IncHandshakeError()
			}
			c.failConnect()
			return err
		}
	}

	if !c.state.transition(Connecting, Connected) {
		return errState("announceConnected", c.state.Load())
	}

	c.pl.Opened().Dispatch(c.self)
	c.startReceiveLoop()

	return nil
}

func (c *core) upgradeTLS(ctx context.Context, isClientSide bool) error {
	c.mu.Lock()
	plain := c.conn
	c.mu.Unlock()

	var tlsConn *tls.Conn
	if isClientSide {
		tlsConn = tls.Client(plain, c.cfg.TLS)
	} else {
		tlsConn = tls.Server(plain, c.cfg.TLS)
	}

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		return errHandshake(err)
	}

	c.mu.Lock()
	c.conn = tlsConn
	c.mu.Unlock()

	return nil
}

func (c *core) currentConn() net.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn
}

// startReceiveLoop implements spec.md §4.4 "Receive loop": borrow, async
// read, offer, dispatch incoming, flush, repeat.
func (c *core) startReceiveLoop() {
	go func() {
		for c.state.Load() == Connected {
			chunk := c.cfg.Pool.Borrow()
			bs := chunk.Bytes()

			n, err := c.currentConn().Read(bs)
			if n > 0 {
				if offerErr := c.recv.Offer(chunk, 0, n); offerErr != nil {
					c.logger().Error("receive buffer offer failed", chlog.F("error", offerErr))
					_ = c.cfg.Pool.Return(chunk)
				} else {
					c.pl.Incoming().Dispatch(c.self, c.recv)
					_ = c.recv.Flush()
				}
			} else {
				_ = c.cfg.Pool.Return(chunk)
			}

			if err != nil {
				if err != io.EOF {
					c.logger().Error("receive read failed", chlog.F("error", err))
				}
				c.beginClose()
				return
			}
			if n == 0 {
				c.beginClose()
				return
			}
		}
	}()
}

// Send implements spec.md §4.4 "Send path".
func (c *core) Send(message any) promise.Promise[Channel] {
	p := promise.New[Channel]()

	if c.state.Load() != Connected {
		p.Reject(errState("send", c.state.Load()))
		return p
	}

	go func() {
		out := c.pl.Outgoing().Dispatch(c.self, message)

		switch v := out.(type) {
		case nil:
			c.logger().Debug("outgoing pipeline dropped payload")
			p.Fulfill(c.self)
		case []byte:
			if err := c.writeAll(v); err != nil {
				p.Reject(err)
				return
			}
			p.Fulfill(c.self)
		case buffer.Buffer:
			if err := c.drainBuffer(v); err != nil {
				p.Reject(err)
				return
			}
			p.Fulfill(c.self)
		case io.Reader:
			if err := c.drainReader(v); err != nil {
				p.Reject(err)
				return
			}
			p.Fulfill(c.self)
		default:
			c.logger().Error("outgoing pipeline produced an unwritable payload", chlog.F("type", v))
			p.Fulfill(c.self)
		}
	}()

	return p
}

func (c *core) writeAll(b []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.writeTimeout())
	defer cancel()

	if err := c.tok.Acquire(ctx, 1); err != nil {
		return errTimeout("write-serialization token acquisition timed out")
	}
	defer c.tok.Release(1)

	if _, err := c.currentConn().Write(b); err != nil {
		return errTransport(err, "write failed")
	}

	if sink := c.cfg.metrics(); sink != nil {
		sink.AddBytesSent(len(b))
	}
	return nil
}

// drainBuffer loops a pool-chunk worth at a time until src is drained,
// then closes it, per spec.md §4.4 step 3.
func (c *core) drainBuffer(src buffer.Buffer) error {
	defer func() { _ = src.Close() }()

	tmp := make([]byte, c.cfg.Pool.ChunkSize())
	for {
		n, err := src.Read(tmp)
		if n > 0 {
			if werr := c.writeAll(tmp[:n]); werr != nil {
				return werr
			}
		}
		if err != nil || n == 0 {
			return nil
		}
	}
}

func (c *core) drainReader(src io.Reader) error {
	if closer, ok := src.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	tmp := make([]byte, c.cfg.Pool.ChunkSize())
	for {
		n, err := src.Read(tmp)
		if n > 0 {
			if werr := c.writeAll(tmp[:n]); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errTransport(err, "outgoing stream read failed")
		}
	}
}

// beginClose is invoked internally by the receive loop on EOF or a
// transport error: it folds straight to DISCONNECTED and fires closed,
// without going through a caller-visible Close() promise. If Close already
// moved the channel off CONNECTED, Close's own finishClose fires closed and
// this returns without firing it a second time.
func (c *core) beginClose() {
	if !c.state.transition(Connected, Disconnecting) {
		return
	}
	c.finishClose()
}

// Close implements the caller-visible half of spec.md §4.4 "Close/disconnect".
func (c *core) Close() promise.Promise[Channel] {
	c.closeOnce.Do(func() {
		c.closeProm = promise.New[Channel]()

		if c.state.Load() == Disconnected {
			c.closeProm.Fulfill(c.self)
			return
		}

		c.state.v.Store(Disconnecting)
		go c.finishClose()
	})

	return c.closeProm
}

// failConnect handles a connect-time failure (TLS handshake failure, per
// spec.md §4.4 "TLS handshake failure: ... channel transitions to
// CLOSED/DISCONNECTED"): the channel never reached CONNECTED, so opened
// never fires, but closed still fires exactly once (spec.md scenario 6).
func (c *core) failConnect() {
	conn := c.currentConn()
	if conn != nil {
		_ = conn.Close()
	}

	c.state.v.Store(Disconnected)
	c.pl.Closed().Dispatch(c.self)
}

func (c *core) finishClose() {
	conn := c.currentConn()
	if conn != nil {
		_ = conn.Close()
	}

	_ = c.recv.Close()
	c.state.transition(Disconnecting, Disconnected)

	c.pl.Closed().Dispatch(c.self)

	if c.closeProm != nil {
		c.closeProm.Fulfill(c.self)
	}
}

func (c *core) AddModule(m Module) error {
	c.modMu.Lock()
	defer c.modMu.Unlock()

	if _, exists := c.mods[m.Name()]; exists {
		return errState("addModule: already installed: "+m.Name(), c.state.Load())
	}
	c.mods[m.Name()] = m
	return m.Install(c.self)
}

func (c *core) RemoveModule(name string) error {
	c.modMu.Lock()
	defer c.modMu.Unlock()
	delete(c.mods, name)
	return nil
}

func (c *core) Pipeline() pipeline.Pipeline { return c.pl }

func (c *core) RemoteAddr() net.Addr {
	if conn := c.currentConn(); conn != nil {
		return conn.RemoteAddr()
	}
	return nil
}

func (c *core) LocalAddr() net.Addr {
	if conn := c.currentConn(); conn != nil {
		return conn.LocalAddr()
	}
	return nil
}

func (c *core) IsActive() bool {
	return c.state.Load() == Connected
}
