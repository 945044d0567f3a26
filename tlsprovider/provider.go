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

// Package tlsprovider builds a *tls.Config for channel.Config.TLS whose
// certificate reloads from disk on change, so a long-lived listener never
// needs a restart to roll a renewed certificate (SPEC_FULL.md §12
// SUPPLEMENTED FEATURES).
package tlsprovider

import (
	"crypto/tls"
	"fmt"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/nabbar/channelcore/chlog"
)

// Provider watches a certificate/key pair on disk and hands back the
// current one via GetCertificate, so a *tls.Config built from Config
// never goes stale.
type Provider struct {
	certFile string
	keyFile  string
	log      chlog.FuncLog

	mu   sync.RWMutex
	cert *tls.Certificate

	watcher *fsnotify.Watcher
	closeOnce sync.Once
}

// New loads certFile/keyFile once and starts watching both for changes.
func New(certFile, keyFile string, log chlog.FuncLog) (*Provider, error) {
	if log == nil {
		log = chlog.Default
	}

	p := &Provider{certFile: certFile, keyFile: keyFile, log: log}
	if err := p.reload(); err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("tlsprovider: starting watcher: %w", err)
	}
	if err := w.Add(certFile); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("tlsprovider: watching %s: %w", certFile, err)
	}
	if err := w.Add(keyFile); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("tlsprovider: watching %s: %w", keyFile, err)
	}
	p.watcher = w

	go p.watch()

	return p, nil
}

func (p *Provider) reload() error {
	cert, err := tls.LoadX509KeyPair(p.certFile, p.keyFile)
	if err != nil {
		return fmt.Errorf("tlsprovider: loading key pair: %w", err)
	}

	p.mu.Lock()
	p.cert = &cert
	p.mu.Unlock()
	return nil
}

func (p *Provider) watch() {
	for {
		select {
		case ev, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := p.reload(); err != nil {
				p.log().Error("tlsprovider: certificate reload failed", chlog.F("error", err))
				continue
			}
			p.log().Info("tlsprovider: certificate reloaded")
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			p.log().Error("tlsprovider: watcher error", chlog.F("error", err))
		}
	}
}

// GetCertificate is a *tls.Config.GetCertificate callback returning the
// currently loaded certificate regardless of the requested SNI name.
func (p *Provider) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cert, nil
}

// Config builds a *tls.Config backed by this Provider.
func (p *Provider) Config() *tls.Config {
	return &tls.Config{GetCertificate: p.GetCertificate}
}

// Close stops the filesystem watcher.
func (p *Provider) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if p.watcher != nil {
			err = p.watcher.Close()
		}
	})
	return err
}
