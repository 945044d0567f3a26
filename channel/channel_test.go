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

package channel_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"reflect"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/channelcore/buffer"
	"github.com/nabbar/channelcore/channel"
	"github.com/nabbar/channelcore/pipeline"
	"github.com/nabbar/channelcore/pool"
)

var bufferType = reflect.TypeOf((*buffer.Buffer)(nil)).Elem()

type fakeMetrics struct {
	mu              sync.Mutex
	bytesSent       int
	handshakeErrors int
}

func (f *fakeMetrics) AddBytesSent(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bytesSent += n
}

func (f *fakeMetrics) IncHandshakeError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handshakeErrors++
}

func (f *fakeMetrics) snapshot() (bytesSent, handshakeErrors int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bytesSent, f.handshakeErrors
}

func selfSignedCert() tls.Certificate {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	Expect(err).ToNot(HaveOccurred())

	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		IsCA:         true,
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	Expect(err).ToNot(HaveOccurred())

	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key}
}

var _ = Describe("Channel", func() {
	var pl pool.Pool

	BeforeEach(func() {
		pl = pool.New(pool.Config{ChunkSize: 256})
	})

	Describe("echo server round trip (spec.md scenario 5)", func() {
		It("delivers the exact bytes sent back to the client's incoming pipeline", func() {
			lpl := pipeline.New()
			lpl.Incoming().AddLast(bufferType, func(ch pipeline.Endpoint, payload any) any {
				rc := ch.(channel.Channel)
				b := payload.(buffer.Buffer)

				// The incoming buffer is the channel's single, long-lived
				// receive buffer (spec.md §5 "ChunkedBuffer instances are
				// single-owner"): echo its bytes via a fresh, ephemeral
				// outgoing buffer rather than handing send the receive
				// buffer itself.
				out := buffer.New(pl)
				tmp := make([]byte, b.Len())
				_, _ = b.Read(tmp)
				_, _ = out.Write(tmp)

				rc.Send(out).Wait()
				return payload
			})

			lc := channel.NewListener(channel.Config{Pool: pl, NoDelay: true, TTL: 64}, lpl)
			bindOut := lc.Bind(context.Background(), "tcp", "127.0.0.1:0").Wait()
			Expect(bindOut.Err).ToNot(HaveOccurred())

			addr := lc.LocalAddr().String()

			received := make(chan string, 1)
			cpl := pipeline.New()
			cpl.Incoming().AddLast(bufferType, func(ch pipeline.Endpoint, payload any) any {
				b := payload.(buffer.Buffer)
				out := make([]byte, b.Len())
				_, _ = b.Read(out)
				received <- string(out)
				return payload
			})

			metrics := &fakeMetrics{}
			cc := channel.NewClient(channel.Config{Pool: pl, NoDelay: true, TTL: 64, Metrics: metrics}, cpl)
			connProm := cc.Connect(context.Background(), "tcp", addr)
			o := connProm.Wait()
			Expect(o.Err).ToNot(HaveOccurred())

			sendProm := cc.Send([]byte("a test!"))
			sOut := sendProm.Wait()
			Expect(sOut.Err).ToNot(HaveOccurred())

			Eventually(received, 5*time.Second).Should(Receive(Equal("a test!")))

			bytesSent, _ := metrics.snapshot()
			Expect(bytesSent).To(Equal(len("a test!")))
		})
	})

	Describe("listener accepts with a configured backlog and applies socket options to accepted peers", func() {
		It("binds with a custom backlog and the accepted side round-trips with NoDelay/TTL applied", func() {
			lpl := pipeline.New()
			lpl.Incoming().AddLast(bufferType, func(ch pipeline.Endpoint, payload any) any {
				rc := ch.(channel.Channel)
				b := payload.(buffer.Buffer)
				out := buffer.New(pl)
				tmp := make([]byte, b.Len())
				_, _ = b.Read(tmp)
				_, _ = out.Write(tmp)
				rc.Send(out).Wait()
				return payload
			})

			lc := channel.NewListener(channel.Config{Pool: pl, Backlog: 16, NoDelay: true, TTL: 32}, lpl)
			bindOut := lc.Bind(context.Background(), "tcp", "127.0.0.1:0").Wait()
			Expect(bindOut.Err).ToNot(HaveOccurred())

			received := make(chan string, 1)
			cpl := pipeline.New()
			cpl.Incoming().AddLast(bufferType, func(ch pipeline.Endpoint, payload any) any {
				b := payload.(buffer.Buffer)
				out := make([]byte, b.Len())
				_, _ = b.Read(out)
				received <- string(out)
				return payload
			})

			cc := channel.NewClient(channel.Config{Pool: pl}, cpl)
			connProm := cc.Connect(context.Background(), "tcp", lc.LocalAddr().String())
			Expect(connProm.Wait().Err).ToNot(HaveOccurred())

			Expect(cc.Send([]byte("backlog ok")).Wait().Err).ToNot(HaveOccurred())
			Eventually(received, 5*time.Second).Should(Receive(Equal("backlog ok")))
		})
	})

	Describe("TLS handshake failure closes the channel (spec.md scenario 6)", func() {
		It("fulfills Connect's promise with an error and leaves the client DISCONNECTED", func() {
			cert := selfSignedCert()

			lpl := pipeline.New()
			lc := channel.NewListener(channel.Config{
				Pool: pl,
				TLS:  &tls.Config{Certificates: []tls.Certificate{cert}},
			}, lpl)

			bindProm := lc.Bind(context.Background(), "tcp", "127.0.0.1:0")
			o := bindProm.Wait()
			Expect(o.Err).ToNot(HaveOccurred())
			addr := lc.LocalAddr().String()

			closedCh := make(chan struct{}, 1)
			cpl := pipeline.New()
			cpl.Closed().AddLast(func(ch pipeline.Endpoint) { closedCh <- struct{}{} })

			metrics := &fakeMetrics{}
			cc := channel.NewClient(channel.Config{
				Pool:    pl,
				Metrics: metrics,
				TLS: &tls.Config{
					InsecureSkipVerify: true,
					VerifyPeerCertificate: func(_ [][]byte, _ [][]*x509.Certificate) error {
						return errRejectAllCerts
					},
				},
			}, cpl)

			connProm := cc.Connect(context.Background(), "tcp", addr)
			co := connProm.Wait()
			Expect(co.Err).To(HaveOccurred())

			Eventually(closedCh, 2*time.Second).Should(Receive())

			_, handshakeErrors := metrics.snapshot()
			Expect(handshakeErrors).To(Equal(1))
		})
	})
})

var errRejectAllCerts = rejectAllCertsErr{}

type rejectAllCertsErr struct{}

func (rejectAllCertsErr) Error() string { return "test configured to reject all certificates" }
