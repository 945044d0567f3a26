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

package monitor

import (
	"reflect"

	"github.com/nabbar/channelcore/buffer"
	"github.com/nabbar/channelcore/channel"
	"github.com/nabbar/channelcore/pipeline"
)

var bufferType = reflect.TypeOf((*buffer.Buffer)(nil)).Elem()

type module struct {
	name string
	m    *Metrics
}

// NewModule wraps m as a channel.Module: it counts opens/closes on the
// lifecycle axes and bytes seen on the incoming axis. It never consumes
// or replaces a payload, so it composes with any other installed module
// regardless of install order.
func NewModule(name string, m *Metrics) channel.Module {
	return &module{name: name, m: m}
}

func (n *module) Name() string { return n.name }

func (n *module) Install(ch channel.Channel) error {
	pl := ch.Pipeline()

	pl.Opened().AddLast(func(pipeline.Endpoint) {
		n.m.ChannelsOpened.Inc()
	})
	pl.Closed().AddLast(func(pipeline.Endpoint) {
		n.m.ChannelsClosed.Inc()
	})
	pl.Incoming().AddLast(bufferType, func(c pipeline.Endpoint, payload any) any {
		if b, ok := payload.(buffer.Buffer); ok {
			n.m.BytesReceived.Add(float64(b.Len()))
		}
		return payload
	})

	return nil
}
