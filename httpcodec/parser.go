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
	"strconv"
	"strings"

	"github.com/nabbar/channelcore/buffer"
	"github.com/nabbar/channelcore/pool"
)

type phase uint8

const (
	phaseCommandLine phase = iota
	phaseHeaders
	phaseBody
	phaseDone
)

type bodyStrategy uint8

const (
	bodyNone bodyStrategy = iota
	bodyChunked
	bodyContentLength
	bodyUntilClose
	bodyUnknown
)

const (
	chunkNeedLength     int64 = -1
	chunkAwaitTrailer   int64 = -2
)

// parseState is the per-channel incremental HTTP parser (spec.md §4.6
// "Incoming parser state machine"). One instance lives for exactly one
// request/response; the module resets it after a successful parse so the
// next message on a keep-alive connection starts clean.
type parseState struct {
	mode  Mode
	phase phase
	pl    pool.Pool

	payload *HttpPayload

	strategy      bodyStrategy
	contentLength int64
	chunkState    int64
}

func newParseState(mode Mode, pl pool.Pool) *parseState {
	p := &HttpPayload{
		IsRequest: mode == ModeServer,
		Headers:   NewHeaders(),
		Body:      buffer.New(pl),
	}
	return &parseState{mode: mode, pl: pl, payload: p}
}

// parse advances the state machine as far as currently buffered data
// allows. It returns (true, nil) once the full message has been parsed,
// (false, nil) if more bytes are needed (buf's read cursor is left
// exactly where a subsequent call should resume from), or a non-nil error
// on malformed input.
func (st *parseState) parse(buf buffer.Buffer, isActive bool) (bool, error) {
	for {
		switch st.phase {
		case phaseCommandLine:
			line, ok := readLine(buf)
			if !ok {
				return false, nil
			}
			if err := st.parseCommandLine(string(line)); err != nil {
				return false, err
			}
			st.phase = phaseHeaders

		case phaseHeaders:
			line, ok := readLine(buf)
			if !ok {
				return false, nil
			}
			if len(line) == 0 {
				st.phase = phaseBody
				st.determineBodyStrategy()
				continue
			}
			if err := st.parseHeaderLine(string(line)); err != nil {
				return false, err
			}

		case phaseBody:
			done, err := st.readBody(buf, isActive)
			if err != nil {
				return false, err
			}
			if !done {
				return false, nil
			}
			st.phase = phaseDone
			return true, nil

		case phaseDone:
			return true, nil
		}
	}
}

func (st *parseState) parseCommandLine(line string) error {
	parts := strings.SplitN(line, " ", 3)
	if st.payload.IsRequest {
		if len(parts) < 3 {
			return parseErr("malformed request line: %q", line)
		}
		st.payload.Method = parts[0]
		st.payload.Path = parts[1]
		st.payload.Version = parts[2]
		return nil
	}

	if len(parts) < 2 {
		return parseErr("malformed status line: %q", line)
	}
	code, err := strconv.Atoi(parts[1])
	if err != nil {
		return parseErr("malformed status code in %q", line)
	}
	st.payload.Version = parts[0]
	st.payload.StatusCode = code
	if len(parts) == 3 {
		st.payload.Reason = parts[2]
	}
	return nil
}

func (st *parseState) parseHeaderLine(line string) error {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return parseErr("malformed header line: %q", line)
	}

	name := strings.TrimSpace(line[:idx])
	value := strings.TrimSpace(line[idx+1:])

	if noCommaSplit[strings.ToLower(name)] {
		st.payload.Headers.Add(name, value)
		return nil
	}

	for _, part := range strings.Split(value, ",") {
		st.payload.Headers.Add(name, strings.TrimSpace(part))
	}
	return nil
}

// determineBodyStrategy implements spec.md §4.6 "Body handling priority":
// chunked wins over Content-Length (Open Question, resolved conservatively
// to keep the source's behavior and document it), then Content-Length,
// then connection-close, then an unterminable unknown-length body.
func (st *parseState) determineBodyStrategy() {
	if te := st.payload.Headers.Get("Transfer-Encoding"); strings.Contains(strings.ToLower(te), "chunked") {
		st.strategy = bodyChunked
		st.payload.Chunked = true
		st.chunkState = chunkNeedLength
		return
	}

	if cl := st.payload.Headers.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			st.strategy = bodyContentLength
			st.contentLength = n
			return
		}
	}

	st.strategy = bodyUnknown
}

func (st *parseState) readBody(buf buffer.Buffer, isActive bool) (bool, error) {
	switch st.strategy {
	case bodyChunked:
		return st.readChunkedBody(buf)
	case bodyContentLength:
		return st.readContentLengthBody(buf)
	case bodyUnknown:
		if !isActive {
			st.strategy = bodyUntilClose
			return st.readUntilCloseBody(buf)
		}
		return false, nil
	case bodyUntilClose:
		return st.readUntilCloseBody(buf)
	default:
		return true, nil
	}
}

func (st *parseState) readContentLengthBody(buf buffer.Buffer) (bool, error) {
	remaining := st.contentLength - st.payload.BodySize
	if remaining <= 0 {
		return true, nil
	}

	avail := buf.Len()
	if avail <= 0 {
		return false, nil
	}
	if avail > remaining {
		avail = remaining
	}

	tmp := make([]byte, avail)
	n, _ := buf.Read(tmp)
	_, _ = st.payload.Body.Write(tmp[:n])
	st.payload.BodySize += int64(n)

	return st.payload.BodySize >= st.contentLength, nil
}

func (st *parseState) readUntilCloseBody(buf buffer.Buffer) (bool, error) {
	avail := buf.Len()
	if avail > 0 {
		tmp := make([]byte, avail)
		n, _ := buf.Read(tmp)
		_, _ = st.payload.Body.Write(tmp[:n])
		st.payload.BodySize += int64(n)
	}
	return true, nil
}

// readChunkedBody implements hex-length-framed chunked transfer decoding.
// When data runs out mid frame, nothing of the frame's payload is
// consumed: an incomplete length line is rewound by readLine, and once the
// length line is read the length is kept in chunkState with the cursor at
// the payload start, so a later call with more bytes resumes there.
func (st *parseState) readChunkedBody(buf buffer.Buffer) (bool, error) {
	for {
		switch {
		case st.chunkState == chunkAwaitTrailer:
			line, ok := readLine(buf)
			if !ok {
				return false, nil
			}
			if len(line) == 0 {
				return true, nil
			}
			// trailer header line: discarded, keep awaiting the terminator

		case st.chunkState == chunkNeedLength:
			start := buf.ReadPos()
			line, ok := readLine(buf)
			if !ok {
				return false, nil
			}
			lenStr := strings.TrimSpace(string(line))
			if idx := strings.IndexByte(lenStr, ';'); idx >= 0 {
				lenStr = lenStr[:idx]
			}
			n, err := strconv.ParseInt(lenStr, 16, 64)
			if err != nil {
				_ = buf.SetReadPos(start)
				return false, parseErr("invalid chunk length %q", lenStr)
			}
			if n == 0 {
				st.chunkState = chunkAwaitTrailer
				continue
			}
			st.chunkState = n

		default:
			n := int(st.chunkState)
			start := buf.ReadPos()
			if buf.Len() < int64(n+2) {
				return false, nil
			}
			data := make([]byte, n)
			_, _ = buf.Read(data)
			crlf := make([]byte, 2)
			_, _ = buf.Read(crlf)
			if crlf[0] != '\r' || crlf[1] != '\n' {
				_ = buf.SetReadPos(start)
				return false, parseErr("chunk of length %d missing trailing CRLF", n)
			}
			_, _ = st.payload.Body.Write(data)
			st.payload.BodySize += int64(n)
			st.chunkState = chunkNeedLength
		}
	}
}

// readLine consumes up to and including the next CRLF, returning the
// line without it. If no CRLF is currently buffered it restores the read
// cursor to exactly where it was and reports ok=false, so the next call
// (after more bytes arrive) retries the whole line from scratch — this is
// the idempotent/cursor-safe contract spec.md §8 requires of an
// incomplete parse.
func readLine(buf buffer.Buffer) ([]byte, bool) {
	start := buf.ReadPos()

	var out []byte
	one := make([]byte, 1)
	for {
		n, _ := buf.Read(one)
		if n == 0 {
			_ = buf.SetReadPos(start)
			return nil, false
		}
		out = append(out, one[0])
		if l := len(out); l >= 2 && out[l-2] == '\r' && out[l-1] == '\n' {
			return out[:l-2], true
		}
	}
}
