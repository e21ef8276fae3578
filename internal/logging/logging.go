// Package logging builds the charmbracelet logger shared by commands and the pipeline.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const DefaultLevel = "info"

// New returns a logger writing to w with timestamps. w defaults to os.Stderr.
func New(w io.Writer, level string) (*log.Logger, error) {
	if w == nil {
		w = os.Stderr
	}
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	parsed, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logger := log.NewWithOptions(w, log.Options{ReportTimestamp: true, Prefix: "hrsync"})
	logger.SetLevel(parsed)
	return logger, nil
}

// Discard returns a logger that drops every record.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
