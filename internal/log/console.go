package log

import (
	"log"
	"os"

	"charm.land/lipgloss/v2"

	"github.com/yaklabco/branchtag/pkg/ui"
)

// SimpleConsoleLogger is an unstructured logger designed for emitting simple
// messages to the console in `-v`/`--verbose` mode. It writes to stderr:
// git shows a hook's output to the user as-is.
//
//nolint:gochecknoglobals // This is unchanged in the course of the process lifecycle.
var SimpleConsoleLogger = log.New(os.Stderr, lipgloss.NewStyle().Foreground(ui.GetFangScheme().Flag).Render("[BRANCHTAG] "), 0)
