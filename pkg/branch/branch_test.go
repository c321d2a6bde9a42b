package branch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractor_Default(t *testing.T) {
	t.Parallel()

	tests := []struct {
		branch    string
		wantToken string
		wantOK    bool
	}{
		{"feature/ABC-123-add-x", "ABC-123", true},
		{"feature/ABC-123", "ABC-123", true},
		{"bugfix/PROJ2-7_fix-crash", "PROJ2-7", true},
		{"ABC-9", "ABC-9", true},
		{"ABC-9-description", "ABC-9", true},
		{"users/alice/OPS-42-rotate-keys", "OPS-42", true},
		{"main", "", false},
		{"master", "", false},
		{"feature/x", "", false},
		{"feature/abc-123-lowercase", "", false},
		{"feature/ABC-", "", false},
		{"feature/ABC123", "", false},
		{"", "", false},
		{"   ", "", false},
		{"HEAD", "", false},
		{"feature/ABC-123\nevil", "", false},
	}

	extractor := Default()
	for _, tt := range tests {
		t.Run(tt.branch, func(t *testing.T) {
			t.Parallel()
			got, ok := extractor.Extract(tt.branch)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantToken, got)
		})
	}
}

func TestExtractor_CustomPattern(t *testing.T) {
	t.Parallel()

	extractor, err := NewExtractor(`^issue-(?P<token>\d+)`)
	require.NoError(t, err)

	token, ok := extractor.Extract("issue-1234-refactor")
	assert.True(t, ok)
	assert.Equal(t, "1234", token)

	_, ok = extractor.Extract("feature/ABC-1")
	assert.False(t, ok)
}

func TestExtractor_SkipGlobs(t *testing.T) {
	t.Parallel()

	extractor, err := NewExtractor("", "release/*", "dependabot/**")
	require.NoError(t, err)

	_, ok := extractor.Extract("release/ABC-1-cut")
	assert.False(t, ok)

	_, ok = extractor.Extract("dependabot/go_modules/ABC-1")
	assert.False(t, ok)

	token, ok := extractor.Extract("release/1/ABC-1")
	assert.True(t, ok, "single star must not cross a separator")
	assert.Equal(t, "ABC-1", token)
}

func TestNewExtractor_Errors(t *testing.T) {
	t.Parallel()

	_, err := NewExtractor(`^(unclosed`)
	require.Error(t, err)

	_, err = NewExtractor(`^feature/([A-Z]+-\d+)`)
	require.ErrorIs(t, err, ErrNoTokenGroup)

	_, err = NewExtractor("", "[unclosed")
	require.Error(t, err)
}

func TestMustExtractor_Panics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustExtractor(`(`) })
}
