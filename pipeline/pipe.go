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

package pipeline

type pipe struct {
	incoming *chain
	outgoing *chain
	opened   *lifecycle
	closed   *lifecycle
}

func (p *pipe) Incoming() Chain { return p.incoming }
func (p *pipe) Outgoing() Chain { return p.outgoing }
func (p *pipe) Opened() Lifecycle { return p.opened }
func (p *pipe) Closed() Lifecycle { return p.closed }

func (p *pipe) Clone() Pipeline {
	return &pipe{
		incoming: cloneChain(p.incoming),
		outgoing: cloneChain(p.outgoing),
		opened:   cloneLifecycle(p.opened),
		closed:   cloneLifecycle(p.closed),
	}
}

func cloneChain(src *chain) *chain {
	dst := newChain()
	for _, e := range src.snapshot() {
		dst.lst = append(dst.lst, &typedEntry{typ: e.typ, fn: e.fn})
	}
	return dst
}

func cloneLifecycle(src *lifecycle) *lifecycle {
	dst := newLifecycle()
	for _, e := range src.snapshot() {
		dst.lst = append(dst.lst, &lifecycleEntry{fn: e.fn})
	}
	return dst
}
