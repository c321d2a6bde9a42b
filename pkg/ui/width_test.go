package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTermWidth(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	assert.Equal(t, 120, TermWidth(&buf, "120"))
	assert.Equal(t, fallbackTermWidth, TermWidth(&buf, ""))
	assert.Equal(t, fallbackTermWidth, TermWidth(&buf, "wide"))
	assert.Equal(t, fallbackTermWidth, TermWidth(&buf, "-3"))
}

func TestWrap(t *testing.T) {
	t.Parallel()

	text := "Add a rather long commit message subject that needs wrapping"
	wrapped := Wrap(text, 30)
	for _, line := range strings.Split(wrapped, "\n") {
		assert.LessOrEqual(t, len(line), 30, "line %q", line)
	}
	assert.Equal(t, text, strings.Join(strings.Fields(wrapped), " "))

	// Narrow widths are clamped to the floor.
	assert.Equal(t, Wrap(text, termWidthFloor), Wrap(text, 5))
}
