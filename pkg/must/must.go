// Package must provides log-and-swallow helpers for cleanup paths where an
// error can't usefully propagate to the caller (closing a file during an
// error unwind, removing a stale temporary file). Each helper takes the
// logger it should report failures through rather than assuming a global
// one.
package must

import (
	"fmt"
	"io"
	"os"

	"github.com/treeward/treeward/pkg/logging"
)

// Fprint writes a to w, warning through logger if the write fails or is
// incomplete.
func Fprint(w io.Writer, logger *logging.Logger, a ...interface{}) {
	s := fmt.Sprint(a...)
	n, err := fmt.Fprint(w, s)
	if err != nil {
		logger.Warnf("Unable to Fprint '%s': %s", s, err.Error())
		return
	}
	if n < len(s) {
		logger.Warnf("Unable to Fprint all of '%s'; printed only %d of %d bytes", s, n, len(s))
	}
}

// Close closes c, warning through logger if the close fails.
func Close(c io.Closer, logger *logging.Logger) {
	if err := c.Close(); err != nil {
		logger.Warnf("Unable to close: %s", err.Error())
	}
}

// WriteString writes s to ws, warning through logger if the write fails or
// is incomplete.
func WriteString(ws interface {
	WriteString(string) (int, error)
}, s string, logger *logging.Logger) {
	n, err := ws.WriteString(s)
	if err != nil {
		logger.Warnf("Unable to write string '%s': %s", s, err.Error())
		return
	}
	if n < len(s) {
		logger.Warnf("Unable to write all of string '%s'; only wrote %d of %d bytes", s, n, len(s))
	}
}

// OSRemove removes the file at name, warning through logger if the removal
// fails. Used to clean up a stale atomic-write temporary file after a
// failure partway through WriteFileAtomic.
func OSRemove(name string, logger *logging.Logger) {
	if err := os.Remove(name); err != nil {
		logger.Warnf("Unable to remove '%s': %s", name, err.Error())
	}
}
