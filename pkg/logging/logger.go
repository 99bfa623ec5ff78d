package logging

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

func init() {
	// Discard anything written through the standard library's global logger.
	log.SetOutput(ioutil.Discard)
}

// writer is an io.Writer that splits its input stream into lines and writes
// those lines to an underlying logger.
type writer struct {
	// callback is the logging callback.
	callback func(string)
	// buffer is any incomplete line fragment left over from a previous write.
	buffer []byte
}

// trimCarriageReturn trims any single trailing carriage return from the end of
// a byte slice.
func trimCarriageReturn(buffer []byte) []byte {
	if len(buffer) > 0 && buffer[len(buffer)-1] == '\r' {
		return buffer[:len(buffer)-1]
	}
	return buffer
}

// Write implements io.Writer.Write.
func (w *writer) Write(buffer []byte) (int, error) {
	// Append the data to our internal buffer.
	w.buffer = append(w.buffer, buffer...)

	// Process all lines in the buffer, tracking the number of bytes that we
	// process.
	var processed int
	remaining := w.buffer
	for {
		// Find the index of the next newline character.
		index := bytes.IndexByte(remaining, '\n')
		if index == -1 {
			break
		}

		// Process the line.
		w.callback(string(trimCarriageReturn(remaining[:index])))

		// Update the number of bytes that we've processed.
		processed += index + 1

		// Update the remaining slice.
		remaining = remaining[index+1:]
	}

	// If we managed to process bytes, then truncate our internal buffer.
	if processed > 0 {
		// Compute the number of leftover bytes.
		leftover := len(w.buffer) - processed

		// If there are leftover bytes, then shift them to the front of the
		// buffer.
		if leftover > 0 {
			copy(w.buffer[:leftover], w.buffer[processed:])
		}

		// Truncate the buffer.
		w.buffer = w.buffer[:leftover]
	}

	// Done.
	return len(buffer), nil
}

// Logger is the main logger type. It has the novel property that it still
// functions if nil, but it doesn't log anything. It writes each line directly
// to its own output writer (not through the log package); a Logger with no
// output writer discards its lines. It is safe for concurrent use.
type Logger struct {
	// prefix is any prefix specified for the logger.
	prefix string
	// level is the most verbose level that is emitted; messages at more
	// verbose (higher) levels are suppressed.
	level Level
	// output is the destination for formatted log lines.
	output io.Writer
}

// RootLogger is the root logger from which all other loggers derive. It
// writes at LevelInfo to standard error by default; NewRootLogger can be used
// to override this for a given command invocation.
var RootLogger = &Logger{level: LevelInfo, output: os.Stderr}

// NewRootLogger creates a root logger writing at the specified level to the
// specified destination.
func NewRootLogger(level Level, destination io.Writer) *Logger {
	return &Logger{level: level, output: destination}
}

// NewRunLogger creates a root logger tagged with a fresh run identifier,
// suitable for correlating the log output of a single status or plan
// invocation across the several directories it may visit.
func NewRunLogger(level Level, destination io.Writer) *Logger {
	return &Logger{
		prefix: uuid.New().String()[:8],
		level:  level,
		output: destination,
	}
}

// Sublogger creates a new sublogger with the specified name.
func (l *Logger) Sublogger(name string) *Logger {
	// If the logger is nil, then the sublogger will be as well.
	if l == nil {
		return nil
	}

	// Compute the new prefix.
	prefix := name
	if l.prefix != "" {
		prefix = l.prefix + "." + name
	}

	// Create the new logger.
	return &Logger{
		prefix: prefix,
		level:  l.level,
		output: l.output,
	}
}

// emit is the internal logging method.
func (l *Logger) emit(level Level, line string) {
	if l == nil || level > l.level {
		return
	}
	if l.prefix != "" {
		line = fmt.Sprintf("[%s] %s", l.prefix, line)
	}
	destination := l.output
	if destination == nil {
		destination = ioutil.Discard
	}
	fmt.Fprintln(destination, line)
}

// Info logs information with semantics equivalent to fmt.Print, gated on
// LevelInfo.
func (l *Logger) Info(v ...interface{}) {
	l.emit(LevelInfo, fmt.Sprint(v...))
}

// Infof logs information with semantics equivalent to fmt.Printf, gated on
// LevelInfo.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.emit(LevelInfo, fmt.Sprintf(format, v...))
}

// Writer returns an io.Writer that writes lines at LevelInfo.
func (l *Logger) Writer() io.Writer {
	if l == nil {
		return ioutil.Discard
	}
	return &writer{callback: func(s string) { l.Info(s) }}
}

// Debug logs information with semantics equivalent to fmt.Print, gated on
// LevelDebug.
func (l *Logger) Debug(v ...interface{}) {
	l.emit(LevelDebug, fmt.Sprint(v...))
}

// Debugf logs information with semantics equivalent to fmt.Printf, gated on
// LevelDebug.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.emit(LevelDebug, fmt.Sprintf(format, v...))
}

// DebugWriter returns an io.Writer that writes lines at LevelDebug.
func (l *Logger) DebugWriter() io.Writer {
	if l == nil {
		return ioutil.Discard
	}
	return &writer{callback: func(s string) { l.Debug(s) }}
}

// Warn logs error information with a warning prefix and yellow color, gated
// on LevelWarn.
func (l *Logger) Warn(err error) {
	l.emit(LevelWarn, color.YellowString("Warning: %v", err))
}

// Warnf logs a formatted warning message, gated on LevelWarn.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.emit(LevelWarn, color.YellowString("Warning: "+format, v...))
}

// Error logs error information with an error prefix and red color, gated on
// LevelError.
func (l *Logger) Error(err error) {
	l.emit(LevelError, color.RedString("Error: %v", err))
}
