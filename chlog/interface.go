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

// Package chlog is the pluggable logging sink used across the channel
// core: pool eviction, pipeline handler panics, channel I/O failures,
// and codec parse failures all go through a Logger rather than directly
// to stdout, so embedding applications can redirect or silence it.
package chlog

// Field is a single structured key/value attached to a log line.
type Field struct {
	Key   string
	Value any
}

// F is shorthand for building a Field.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logger is the minimal levelled-logging surface every channel-core
// subsystem depends on. It deliberately does not expose logrus types so
// that swapping the backend never touches call sites.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// SetLevel changes the minimal level this Logger emits.
	SetLevel(lvl Level)
}

// FuncLog returns a Logger instance; used for dependency injection so a
// component can accept "how to obtain a logger" rather than a logger
// itself, matching the teacher's FuncLog factory-function convention.
type FuncLog func() Logger

// Default is the fallback channel, pipeline and tlsprovider use when they
// are given no FuncLog (pool falls back to Noop instead): a console logger
// at InfoLevel.
func Default() Logger {
	return defaultOnce()
}
