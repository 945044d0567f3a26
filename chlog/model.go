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

package chlog

import (
	"sync"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	"github.com/sirupsen/logrus"
)

// console is the default Logger implementation: a logrus.Logger writing
// to a colorable stderr, the way logger/hookstderr wires logrus in the
// teacher repo.
type console struct {
	l *logrus.Logger
}

// New builds a Logger backed by logrus, writing level-colorized lines to
// stderr through go-colorable (so colors survive on Windows consoles too).
func New(lvl Level) Logger {
	l := logrus.New()
	l.SetOutput(colorable.NewColorableStderr())
	l.SetLevel(lvl.logrus())
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return &console{l: l}
}

var (
	defMu  sync.Mutex
	defLog Logger
)

func defaultOnce() Logger {
	defMu.Lock()
	defer defMu.Unlock()
	if defLog == nil {
		defLog = New(InfoLevel)
	}
	return defLog
}

func toFields(fields []Field) logrus.Fields {
	if len(fields) == 0 {
		return nil
	}
	f := make(logrus.Fields, len(fields))
	for _, fl := range fields {
		f[fl.Key] = fl.Value
	}
	return f
}

func (c *console) Debug(msg string, fields ...Field) {
	c.l.WithFields(toFields(fields)).Debug(colorize(DebugLevel, msg))
}

func (c *console) Info(msg string, fields ...Field) {
	c.l.WithFields(toFields(fields)).Info(colorize(InfoLevel, msg))
}

func (c *console) Warn(msg string, fields ...Field) {
	c.l.WithFields(toFields(fields)).Warn(colorize(WarnLevel, msg))
}

func (c *console) Error(msg string, fields ...Field) {
	c.l.WithFields(toFields(fields)).Error(colorize(ErrorLevel, msg))
}

func (c *console) SetLevel(lvl Level) {
	c.l.SetLevel(lvl.logrus())
}

// colorize tags the message prefix with a level color; logrus' own
// TextFormatter colors the level name, this additionally tints the
// message body for WARN/ERROR so it stands out in a busy console.
func colorize(lvl Level, msg string) string {
	switch lvl {
	case ErrorLevel:
		return color.RedString(msg)
	case WarnLevel:
		return color.YellowString(msg)
	default:
		return msg
	}
}

// Noop returns a Logger that discards everything; pool.New uses it as the
// fallback when its Config carries no Log.
func Noop() Logger {
	return noop{}
}

type noop struct{}

func (noop) Debug(string, ...Field) {}
func (noop) Info(string, ...Field)  {}
func (noop) Warn(string, ...Field)  {}
func (noop) Error(string, ...Field) {}
func (noop) SetLevel(Level)         {}
