// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
)

// New returns a leveled logger writing to w, or stderr when w is nil. level is
// one of debug, info, warn, error; empty means info. format "json" switches to
// JSON lines, anything else is human readable text.
func New(level, format string, w io.Writer) (*clog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl := clog.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := clog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
		if err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
		lvl = parsed
	}

	formatter := clog.TextFormatter
	if strings.EqualFold(format, "json") {
		formatter = clog.JSONFormatter
	}

	return clog.NewWithOptions(w, clog.Options{
		Level:           lvl,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "sessionauth",
		Formatter:       formatter,
	}), nil
}
