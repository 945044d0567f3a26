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

package httpcodec

import (
	"reflect"
	"sync"

	"github.com/nabbar/channelcore/buffer"
	"github.com/nabbar/channelcore/channel"
	"github.com/nabbar/channelcore/chlog"
	"github.com/nabbar/channelcore/pipeline"
	"github.com/nabbar/channelcore/pool"
)

var bufferType = reflect.TypeOf((*buffer.Buffer)(nil)).Elem()
var payloadType = reflect.TypeOf((*HttpPayload)(nil))

// ErrorSink receives a count of malformed frames this codec gives up on.
// monitor.Metrics implements it so parse failures surface as
// ParseErrors instead of only being logged.
type ErrorSink interface {
	IncParseError()
}

// module is HttpCodecModule (spec.md §2, §4.6): installed on a listener's
// pipeline it is Cloned onto every accepted RemoteChannel, so parser state
// cannot live on the module struct itself — it is keyed per channel
// instance instead (see stateFor).
type module struct {
	name string
	mode Mode
	pl   pool.Pool
	errs ErrorSink

	mu     sync.Mutex
	states map[pipeline.Endpoint]*parseState
}

// New builds an HttpCodecModule for the given Mode under name. pl supplies
// the chunks backing every parsed body's buffer.Buffer, and should be the
// same pool the owning channel's Config was built with. errs is optional
// and may be nil; when set, every frame the parser cannot recover from
// is counted there.
func New(mode Mode, name string, pl pool.Pool, errs ErrorSink) channel.Module {
	return &module{
		name:   name,
		mode:   mode,
		pl:     pl,
		errs:   errs,
		states: make(map[pipeline.Endpoint]*parseState),
	}
}

func (m *module) Name() string { return m.name }

func (m *module) Install(ch channel.Channel) error {
	pl := ch.Pipeline()

	pl.Incoming().AddFirst(bufferType, func(c pipeline.Endpoint, payload any) any {
		buf, ok := payload.(buffer.Buffer)
		if !ok {
			return payload
		}
		return m.handleIncoming(c, buf)
	})

	pl.Outgoing().AddLast(payloadType, func(c pipeline.Endpoint, payload any) any {
		p, ok := payload.(*HttpPayload)
		if !ok {
			return payload
		}
		return Write(p)
	})

	pl.Closed().AddLast(func(c pipeline.Endpoint) {
		m.dropState(c)
	})

	return nil
}

func (m *module) stateFor(ep pipeline.Endpoint) *parseState {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, ok := m.states[ep]
	if !ok {
		st = newParseState(m.mode, m.pl)
		m.states[ep] = st
	}
	return st
}

func (m *module) resetState(ep pipeline.Endpoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[ep] = newParseState(m.mode, m.pl)
}

func (m *module) dropState(ep pipeline.Endpoint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, ep)
}

// handleIncoming feeds buf through this channel's parser. Once a full
// message is parsed it is handed downstream as *HttpPayload and the state
// resets so the next message on a keep-alive connection starts clean;
// otherwise the partially-consumed buffer is passed through unchanged so
// the receive loop's Flush releases what the parser already consumed.
func (m *module) handleIncoming(ep pipeline.Endpoint, buf buffer.Buffer) any {
	st := m.stateFor(ep)

	isActive := true
	if ch, ok := ep.(channel.Channel); ok {
		isActive = ch.IsActive()
	}

	complete, err := st.parse(buf, isActive)
	if err != nil {
		chlog.Default().Error("http parse failed", chlog.F("error", err))
		if m.errs != nil {
			m.errs.IncParseError()
		}
		m.resetState(ep)
		return buf
	}
	if !complete {
		return buf
	}

	payload := st.payload
	m.resetState(ep)
	return payload
}
