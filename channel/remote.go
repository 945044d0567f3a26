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

	"github.com/nabbar/channelcore/pipeline"
)

// RemoteChannel is the per-accepted-peer Channel a ListenerChannel
// produces (spec.md §4.5). It is a plain Channel: the remote peer never
// dials out, so it has no Connect method.
type RemoteChannel interface {
	Channel
}

type remoteChannel struct {
	*core
}

// newRemote builds a RemoteChannel from an already-accepted connection and
// a pipeline cloned from the listener's at accept time (spec.md §4.5:
// handlers registered on the listener before accept apply to every remote
// it produces; later listener-side changes do not retroactively affect
// already-accepted remotes).
func newRemote(ctx context.Context, conn net.Conn, cfg Config, pl pipeline.Pipeline) (*remoteChannel, error) {
	c := newCore(conn, cfg, pl)
	c.state.v.Store(Connecting)

	rc := &remoteChannel{core: c}
	c.self = rc

	if err := c.announceConnected(ctx, false); err != nil {
		return nil, err
	}

	return rc, nil
}
