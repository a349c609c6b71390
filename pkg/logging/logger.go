// Package logging provides a leveled, prefix-chaining logger used throughout
// the catalog core. It is designed so that a nil *Logger is always safe to
// call methods on (it simply discards output), which lets components accept
// an optional logger without forcing every caller to construct one.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/assetgrid/catalog/pkg/assetcat"
)

// writer is an io.Writer that splits its input stream into lines and forwards
// each complete line to a callback.
type writer struct {
	// callback is the logging callback.
	callback func(string)
	// buffer is any incomplete line fragment left over from a previous write.
	buffer []byte
}

// trimCarriageReturn trims a single trailing carriage return, if present.
func trimCarriageReturn(buffer []byte) []byte {
	if len(buffer) > 0 && buffer[len(buffer)-1] == '\r' {
		return buffer[:len(buffer)-1]
	}
	return buffer
}

// Write implements io.Writer.Write.
func (w *writer) Write(buffer []byte) (int, error) {
	w.buffer = append(w.buffer, buffer...)

	var processed int
	remaining := w.buffer
	for {
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}
		w.callback(string(trimCarriageReturn(remaining[:index])))
		processed += index + 1
		remaining = remaining[index+1:]
	}

	if processed > 0 {
		leftover := len(w.buffer) - processed
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}
		w.buffer = w.buffer[:leftover]
	}

	return len(buffer), nil
}

// Logger is the main logger type. A nil *Logger is valid and logs nothing,
// so components can accept an optional logger without special-casing it. It
// is safe for concurrent use.
type Logger struct {
	// level is the maximum level that this logger (and its subloggers) will
	// emit.
	level Level
	// prefix is the dotted sublogger path, e.g. "catalog.fsprovider".
	prefix string
	// target is the underlying standard logger that performs formatting and
	// writes to the configured destination.
	target *log.Logger
}

// RootLogger is the root logger from which all other loggers in the process
// derive, writing to standard error at LevelInfo.
var RootLogger = NewLogger(LevelInfo, os.Stderr)

// NewLogger creates a new root logger at the specified level, writing to the
// specified destination.
func NewLogger(level Level, destination io.Writer) *Logger {
	return &Logger{
		level:  level,
		target: log.New(destination, "", log.LstdFlags),
	}
}

// Sublogger creates a new sublogger with the specified name, inheriting the
// parent's level and destination.
func (l *Logger) Sublogger(name string) *Logger {
	if l == nil {
		return nil
	}
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}
	return &Logger{
		level:  l.level,
		prefix: prefix,
		target: l.target,
	}
}

// Level returns the logger's configured level.
func (l *Logger) Level() Level {
	if l == nil {
		return LevelDisabled
	}
	return l.level
}

// SetLevel changes the logger's configured level. It affects only this
// logger, not subloggers already derived from it via Sublogger, and is
// meant for one-time startup configuration (e.g. from a CLI flag) rather
// than concurrent runtime adjustment.
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.level = level
}

// line formats a single log line, adding the sublogger prefix if present.
func (l *Logger) line(format string, v ...interface{}) string {
	text := fmt.Sprintf(format, v...)
	if l.prefix != "" {
		return fmt.Sprintf("[%s] %s", l.prefix, text)
	}
	return text
}

func (l *Logger) emit(level Level, calldepth int, format string, v ...interface{}) {
	if l == nil || l.level < level {
		return
	}
	text := l.line(format, v...)
	switch level {
	case LevelWarn:
		text = color.YellowString(text)
	case LevelError:
		text = color.RedString(text)
	}
	l.target.Output(calldepth, text)
}

// Error logs a formatted error-level message.
func (l *Logger) Error(v ...interface{}) {
	l.emit(LevelError, 3, "%s", fmt.Sprint(v...))
}

// Errorf logs a formatted error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.emit(LevelError, 3, format, v...)
}

// Warn logs a formatted warning-level message.
func (l *Logger) Warn(v ...interface{}) {
	l.emit(LevelWarn, 3, "%s", fmt.Sprint(v...))
}

// Warnf logs a formatted warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.emit(LevelWarn, 3, format, v...)
}

// Info logs a formatted info-level message.
func (l *Logger) Info(v ...interface{}) {
	l.emit(LevelInfo, 3, "%s", fmt.Sprint(v...))
}

// Infof logs a formatted info-level message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.emit(LevelInfo, 3, format, v...)
}

// Debug logs a formatted debug-level message, but only if debugging is
// enabled (via assetcat.DebugEnabled) and the logger's level allows it.
func (l *Logger) Debug(v ...interface{}) {
	if !assetcat.DebugEnabled {
		return
	}
	l.emit(LevelDebug, 3, "%s", fmt.Sprint(v...))
}

// Debugf logs a formatted debug-level message, subject to the same gating as
// Debug.
func (l *Logger) Debugf(format string, v ...interface{}) {
	if !assetcat.DebugEnabled {
		return
	}
	l.emit(LevelDebug, 3, format, v...)
}

// Writer returns an io.Writer that logs each line written to it at info
// level.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return io.Discard
	}
	return &writer{callback: func(s string) { l.Info(s) }}
}
