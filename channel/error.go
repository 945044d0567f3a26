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

import "github.com/nabbar/channelcore/cherr"

func errState(op string, from ConnState) error {
	return cherr.New(cherr.KindStateConflict, nil, "%s: illegal from state %s", op, from)
}

func errListenState(op string, from ListenState) error {
	return cherr.New(cherr.KindStateConflict, nil, "%s: illegal from state %s", op, from)
}

func errTransport(cause error, format string, args ...any) error {
	return cherr.New(cherr.KindTransport, cause, format, args...)
}

func errHandshake(cause error) error {
	return cherr.New(cherr.KindHandshake, cause, "tls handshake failed")
}

func errTimeout(format string, args ...any) error {
	return cherr.New(cherr.KindTimeout, nil, format, args...)
}
