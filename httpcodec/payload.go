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

// Package httpcodec implements HttpCodecModule: a channel.Module that
// installs an HTTP/1.x request/response parser on the incoming axis and a
// writer on the outgoing axis (spec.md §2, §4.6).
package httpcodec

import "github.com/nabbar/channelcore/buffer"

// Mode fixes, at install time, which half of the request/response pair an
// HttpCodecModule parses versus writes.
type Mode uint8

const (
	// ModeServer parses requests in, serializes responses out.
	ModeServer Mode = iota
	// ModeClient parses responses in, serializes requests out.
	ModeClient
)

// HttpPayload is shared by HttpRequest and HttpResponse shapes (spec.md
// §3 "HttpPayload"): which command-line fields are meaningful is decided
// by IsRequest.
type HttpPayload struct {
	IsRequest bool

	// Request command line.
	Method  string
	Path    string
	Version string

	// Response command line. Version is shared with the request shape.
	StatusCode int
	Reason     string

	Headers *Headers

	Chunked bool

	Body     buffer.Buffer
	BodySize int64
}

// NewRequest builds an empty HttpPayload shaped as a request, ready to
// have headers added and a body written before Send.
func NewRequest(method, path, version string, body buffer.Buffer) *HttpPayload {
	return &HttpPayload{
		IsRequest: true,
		Method:    method,
		Path:      path,
		Version:   version,
		Headers:   NewHeaders(),
		Body:      body,
	}
}

// NewResponse builds an empty HttpPayload shaped as a response.
func NewResponse(version string, statusCode int, reason string, body buffer.Buffer) *HttpPayload {
	return &HttpPayload{
		IsRequest:  false,
		Version:    version,
		StatusCode: statusCode,
		Reason:     reason,
		Headers:    NewHeaders(),
		Body:       body,
	}
}
