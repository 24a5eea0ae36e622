package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Levels accepted by --log-level, in increasing severity.
var Levels = []string{"DEBUG", "INFO", "WARNING", "ERROR", "CRITICAL"}

// ParseLevel maps a --log-level value to a logger level. Matching is
// case-insensitive; WARN is accepted as a spelling of WARNING.
func ParseLevel(s string) (log.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return log.DebugLevel, nil
	case "INFO":
		return log.InfoLevel, nil
	case "WARN", "WARNING":
		return log.WarnLevel, nil
	case "ERROR":
		return log.ErrorLevel, nil
	case "CRITICAL":
		return log.FatalLevel, nil
	}
	return log.InfoLevel, fmt.Errorf("invalid log level %q (valid: %s)", s, strings.Join(Levels, " "))
}

// Setup configures the process-wide logger. With a non-empty path the log is
// written to that file, truncating any previous contents. The returned
// function closes the file sink; it is a no-op for stderr logging.
func Setup(level log.Level, path string) (func() error, error) {
	var w io.Writer = os.Stderr
	closer := func() error { return nil }

	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", path, err)
		}
		w = f
		closer = f.Close
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: false,
		Level:           level,
	})
	log.SetDefault(logger)

	return closer, nil
}
