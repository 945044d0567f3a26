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

package monitor_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	dto "github.com/prometheus/client_model/go"

	"github.com/nabbar/channelcore/channel"
	"github.com/nabbar/channelcore/monitor"
	"github.com/nabbar/channelcore/pipeline"
	"github.com/nabbar/channelcore/pool"
)

func counterValue(c interface{ Write(*dto.Metric) error }) float64 {
	var m dto.Metric
	Expect(c.Write(&m)).To(Succeed())
	return m.GetCounter().GetValue()
}

var _ = Describe("Metrics module", func() {
	It("counts opened and closed channels via the lifecycle axes", func() {
		m := monitor.New("channelcore_test")
		mod := monitor.NewModule("metrics", m)

		pl := pipeline.New()
		pl2 := pipeline.New()
		plPool := pool.New(pool.Config{ChunkSize: 64})

		cc := channel.NewClient(channel.Config{Pool: plPool}, pl)
		Expect(mod.Install(cc)).To(Succeed())

		lc := channel.NewListener(channel.Config{Pool: plPool}, pl2)
		bindOut := lc.Bind(context.Background(), "tcp", "127.0.0.1:0").Wait()
		Expect(bindOut.Err).ToNot(HaveOccurred())

		connProm := cc.Connect(context.Background(), "tcp", lc.LocalAddr().String())
		Expect(connProm.Wait().Err).ToNot(HaveOccurred())
		Expect(counterValue(m.ChannelsOpened)).To(Equal(1.0))

		closeOut := cc.Close().Wait()
		Expect(closeOut.Err).ToNot(HaveOccurred())
		Expect(counterValue(m.ChannelsClosed)).To(Equal(1.0))
	})

	It("reports a Monitor snapshot backed by the same counters", func() {
		m := monitor.New("channelcore_test_snapshot")
		plPool := pool.New(pool.Config{ChunkSize: 64})

		m.ChannelsOpened.Inc()
		m.BytesSent.Add(3)

		snap := m.Monitor(plPool)
		Expect(snap.ChannelsOpened).To(Equal(uint64(1)))
		Expect(snap.BytesSent).To(Equal(uint64(3)))
		Expect(snap.PoolHitRate).To(Equal(0.0))

		_ = plPool.Borrow()
		snap = m.Monitor(plPool)
		Expect(snap.PoolHitRate).To(Equal(0.0))
	})

	It("implements channel.MetricsSink for bytes-sent and handshake errors", func() {
		m := monitor.New("channelcore_test_sink")

		var sink channel.MetricsSink = m
		sink.AddBytesSent(5)
		sink.IncHandshakeError()

		Expect(counterValue(m.BytesSent)).To(Equal(5.0))
		Expect(counterValue(m.HandshakeErrors)).To(Equal(1.0))
	})
})
