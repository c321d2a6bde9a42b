package log

import (
	"bytes"
	"log/slog"
	"testing"

	cblog "github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cblog.DebugLevel, Level(true, true))
	assert.Equal(t, cblog.InfoLevel, Level(false, true))
	assert.Equal(t, cblog.WarnLevel, Level(false, false))
}

func TestSetupPrettyLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	handler := SetupPrettyLogger(&buf)

	slog.Info("hidden at warn level")
	assert.Empty(t, buf.String())

	handler.SetLevel(cblog.InfoLevel)
	slog.Info("visible", slog.String(Branch, "feature/ABC-1"))
	assert.Contains(t, buf.String(), "visible")
	assert.Contains(t, buf.String(), "feature/ABC-1")
}
