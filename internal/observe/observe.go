// ABOUTME: Structured logging setup shared by the CLI, stores and MCP server.
// ABOUTME: Wraps bolt with console or JSON output and a quiet default level.
package observe

import (
	"io"
	"os"

	"github.com/felixgeelhaar/bolt/v3"
)

// Observer owns the process logger.
type Observer struct {
	log *bolt.Logger
}

// New creates an Observer writing to out. format is "json" or "console".
// When verbose is false only warnings and errors are emitted.
func New(out io.Writer, format string, verbose bool) *Observer {
	if out == nil {
		out = os.Stderr
	}
	var l *bolt.Logger
	if format == "json" {
		l = bolt.New(bolt.NewJSONHandler(out))
	} else {
		l = bolt.New(bolt.NewConsoleHandler(out))
	}
	if !verbose {
		l.SetLevel(bolt.WARN)
	}
	return &Observer{log: l}
}

// Log returns the underlying logger.
func (o *Observer) Log() *bolt.Logger {
	return o.log
}

// Discard returns a logger that drops everything.
func Discard() *bolt.Logger {
	return bolt.New(bolt.NewJSONHandler(io.Discard))
}

// OrDiscard returns l, or a discarding logger when l is nil.
func OrDiscard(l *bolt.Logger) *bolt.Logger {
	if l == nil {
		return Discard()
	}
	return l
}
