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

// Package monitor exposes channelcore's Prometheus metrics: per-channel
// open/close/byte counters observed through a channel.Module, plus a pool
// gauge collector sampled on scrape (SPEC_FULL.md §11 DOMAIN STACK).
package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/nabbar/channelcore/pool"
)

// Metrics bundles every collector this package registers. Build one with
// New and register it on whichever prometheus.Registerer the process
// already exposes.
type Metrics struct {
	ChannelsOpened  prometheus.Counter
	ChannelsClosed  prometheus.Counter
	BytesReceived   prometheus.Counter
	BytesSent       prometheus.Counter
	ParseErrors     prometheus.Counter
	HandshakeErrors prometheus.Counter
}

// New builds a Metrics bundle with the given namespace prefixing every
// metric name.
func New(namespace string) *Metrics {
	return &Metrics{
		ChannelsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channels_opened_total",
			Help:      "Channels that reached CONNECTED at least once.",
		}),
		ChannelsClosed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "channels_closed_total",
			Help:      "Channels that reached DISCONNECTED.",
		}),
		BytesReceived: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_received_total",
			Help:      "Bytes read off the wire across every channel.",
		}),
		BytesSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_sent_total",
			Help:      "Bytes written to the wire across every channel.",
		}),
		ParseErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_errors_total",
			Help:      "Codec parse failures (malformed frames).",
		}),
		HandshakeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tls_handshake_errors_total",
			Help:      "TLS upgrades that failed during Connect or accept.",
		}),
	}
}

// MustRegister registers every collector in m on reg, panicking on a
// duplicate registration (mirrors prometheus.MustRegister's contract).
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		m.ChannelsOpened,
		m.ChannelsClosed,
		m.BytesReceived,
		m.BytesSent,
		m.ParseErrors,
		m.HandshakeErrors,
	)
}

// AddBytesSent implements channel.MetricsSink.
func (m *Metrics) AddBytesSent(n int) {
	m.BytesSent.Add(float64(n))
}

// IncHandshakeError implements channel.MetricsSink.
func (m *Metrics) IncHandshakeError() {
	m.HandshakeErrors.Inc()
}

// IncParseError implements httpcodec.ErrorSink.
func (m *Metrics) IncParseError() {
	m.ParseErrors.Inc()
}

// Snapshot is a point-in-time read of every counter Metrics tracks, plus
// the pool's own hit rate, for callers that want a pull-model view instead
// of scraping Prometheus (SPEC_FULL.md §12 "Monitor/metrics surface").
type Snapshot struct {
	ChannelsOpened  uint64
	ChannelsClosed  uint64
	BytesReceived   uint64
	BytesSent       uint64
	ParseErrors     uint64
	HandshakeErrors uint64

	// PoolHitRate is Hits / (Hits + Misses) on pl, or 0 if pl has never
	// been borrowed from.
	PoolHitRate float64
}

// Monitor takes a Snapshot of m's counters and pl's borrow hit rate. pl is
// the same pool.Pool the owning channel's Config was built with; pass nil
// to leave PoolHitRate at 0.
func (m *Metrics) Monitor(pl pool.Pool) Snapshot {
	s := Snapshot{
		ChannelsOpened:  counterValue(m.ChannelsOpened),
		ChannelsClosed:  counterValue(m.ChannelsClosed),
		BytesReceived:   counterValue(m.BytesReceived),
		BytesSent:       counterValue(m.BytesSent),
		ParseErrors:     counterValue(m.ParseErrors),
		HandshakeErrors: counterValue(m.HandshakeErrors),
	}

	if pl != nil {
		hits, misses := pl.Hits(), pl.Misses()
		if total := hits + misses; total > 0 {
			s.PoolHitRate = float64(hits) / float64(total)
		}
	}

	return s
}

func counterValue(c prometheus.Counter) uint64 {
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		return 0
	}
	return uint64(m.GetCounter().GetValue())
}

// PoolCollector is a prometheus.Collector sampling a pool.Pool's free/total
// chunk counts on every scrape, rather than tracking them as counters.
type PoolCollector struct {
	pl        pool.Pool
	free      *prometheus.Desc
	total     *prometheus.Desc
	chunkSize *prometheus.Desc
}

// NewPoolCollector wraps pl for registration on a prometheus.Registerer.
func NewPoolCollector(namespace string, pl pool.Pool) *PoolCollector {
	return &PoolCollector{
		pl:        pl,
		free:      prometheus.NewDesc(namespace+"_pool_free_chunks", "Chunks currently idle in the pool's free list.", nil, nil),
		total:     prometheus.NewDesc(namespace+"_pool_total_chunks", "Chunks currently issued by the pool.", nil, nil),
		chunkSize: prometheus.NewDesc(namespace+"_pool_chunk_size_bytes", "Configured size of one chunk.", nil, nil),
	}
}

func (c *PoolCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.free
	ch <- c.total
	ch <- c.chunkSize
}

func (c *PoolCollector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.free, prometheus.GaugeValue, float64(c.pl.Free()))
	ch <- prometheus.MustNewConstMetric(c.total, prometheus.GaugeValue, float64(c.pl.Total()))
	ch <- prometheus.MustNewConstMetric(c.chunkSize, prometheus.GaugeValue, float64(c.pl.ChunkSize()))
}
