package log

import (
	"io"
	"log/slog"

	cblog "github.com/charmbracelet/log"
)

// SetupPrettyLogger installs a charmbracelet/log handler as the default slog
// logger and returns it so callers can adjust the level.
func SetupPrettyLogger(writerForLogger io.Writer) *cblog.Logger {
	logHandler := cblog.NewWithOptions(
		writerForLogger,
		cblog.Options{
			Level:           cblog.WarnLevel,
			ReportTimestamp: false,
			ReportCaller:    false,
			Prefix:          "branchtag",
		},
	)
	slog.SetDefault(slog.New(logHandler))

	return logHandler
}

// Level picks the log level for the debug and verbose switches.
func Level(debug, verbose bool) cblog.Level {
	switch {
	case debug:
		return cblog.DebugLevel
	case verbose:
		return cblog.InfoLevel
	default:
		return cblog.WarnLevel
	}
}
