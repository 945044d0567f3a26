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

import "strings"

// noCommaSplit is the per-header opt-out set resolving spec.md's open
// question on multi-value comma splitting: the HTTP grammar exempts a
// handful of headers (Set-Cookie foremost, whose expires-date commonly
// contains a comma) from the generic "split/join on comma" rule.
var noCommaSplit = map[string]bool{
	"set-cookie": true,
}

// Headers is a case-insensitive, multi-value, insertion-ordered header map
// (spec.md §3 "HttpPayload"). The first casing seen for a given name is
// what Names/Get/emission use afterward.
type Headers struct {
	order []string
	vals  map[string][]string
}

// NewHeaders creates an empty Headers map.
func NewHeaders() *Headers {
	return &Headers{vals: make(map[string][]string)}
}

// Add appends value under name, preserving insertion order both across
// distinct names and across repeated values for the same name.
func (h *Headers) Add(name, value string) {
	key := strings.ToLower(name)
	if _, exists := h.vals[key]; !exists {
		h.order = append(h.order, name)
	}
	h.vals[key] = append(h.vals[key], value)
}

// Values returns every value appended under name, in insertion order.
func (h *Headers) Values(name string) []string {
	return h.vals[strings.ToLower(name)]
}

// Get returns every value under name comma-joined, or "" if absent.
func (h *Headers) Get(name string) string {
	return strings.Join(h.Values(name), ",")
}

// Names returns every distinct header name in first-seen order, in the
// casing it was first written with.
func (h *Headers) Names() []string {
	return h.order
}
