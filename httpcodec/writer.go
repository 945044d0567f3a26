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
	"fmt"
	"strconv"
	"strings"
)

// Write serializes p into the HTTP/1.x wire format (spec.md §4.6 "writer").
// A chunked payload is re-emitted as a single chunk frame followed by the
// zero-length terminator: scenario 4 asks for "the concatenation as one
// body", not byte-identical original framing.
func Write(p *HttpPayload) []byte {
	var sb strings.Builder

	if p.IsRequest {
		sb.WriteString(p.Method)
		sb.WriteByte(' ')
		sb.WriteString(p.Path)
		sb.WriteByte(' ')
		sb.WriteString(p.Version)
	} else {
		sb.WriteString(p.Version)
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(p.StatusCode))
		sb.WriteByte(' ')
		sb.WriteString(p.Reason)
	}
	sb.WriteString("\r\n")

	if p.Headers != nil {
		for _, name := range p.Headers.Names() {
			values := p.Headers.Values(name)
			if noCommaSplit[strings.ToLower(name)] {
				for _, v := range values {
					sb.WriteString(name)
					sb.WriteString(": ")
					sb.WriteString(v)
					sb.WriteString("\r\n")
				}
				continue
			}
			sb.WriteString(name)
			sb.WriteString(": ")
			sb.WriteString(strings.Join(values, ","))
			sb.WriteString("\r\n")
		}
	}
	sb.WriteString("\r\n")

	out := []byte(sb.String())

	if p.Body == nil {
		return out
	}

	body := make([]byte, p.Body.Len())
	_, _ = p.Body.Read(body)

	if p.Chunked && len(body) > 0 {
		out = append(out, []byte(fmt.Sprintf("%x\r\n", len(body)))...)
		out = append(out, body...)
		out = append(out, []byte("\r\n0\r\n\r\n")...)
		return out
	}
	if p.Chunked {
		out = append(out, []byte("0\r\n\r\n")...)
		return out
	}

	out = append(out, body...)
	return out
}
