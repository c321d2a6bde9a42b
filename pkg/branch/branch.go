// Package branch extracts identifying tokens, such as ticket IDs, from branch
// names.
package branch

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
)

// TokenGroup is the name of the capture group that holds the token.
const TokenGroup = "token"

// DefaultPattern matches names like "feature/ABC-123-add-x" and "ABC-9".
// Any number of "<type>/" segments may precede the token, and the token may
// be followed by a separator and a free-form description.
const DefaultPattern = `^(?:[A-Za-z0-9._-]+/)*(?P<token>[A-Z][A-Z0-9]*-[0-9]+)(?:[-_/.].*)?$`

// ErrNoTokenGroup is returned when a pattern lacks a named token group.
var ErrNoTokenGroup = errors.New("branch pattern has no (?P<token>...) group")

// Extractor derives a token from a branch name.
type Extractor struct {
	pattern    *regexp.Regexp
	tokenIndex int
	skip       []glob.Glob
}

// NewExtractor compiles pattern and the optional skip globs. An empty pattern
// selects DefaultPattern. Skip globs use '/' as the separator, so "release/*"
// does not match "release/1/hotfix" but "release/**" does.
func NewExtractor(pattern string, skipGlobs ...string) (*Extractor, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling branch pattern: %w", err)
	}

	idx := re.SubexpIndex(TokenGroup)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoTokenGroup, pattern)
	}

	skip := make([]glob.Glob, 0, len(skipGlobs))
	for _, g := range skipGlobs {
		compiled, err := glob.Compile(g, '/')
		if err != nil {
			return nil, fmt.Errorf("compiling skip glob %q: %w", g, err)
		}
		skip = append(skip, compiled)
	}

	return &Extractor{pattern: re, tokenIndex: idx, skip: skip}, nil
}

// MustExtractor is like NewExtractor but panics on error.
func MustExtractor(pattern string, skipGlobs ...string) *Extractor {
	e, err := NewExtractor(pattern, skipGlobs...)
	if err != nil {
		panic(err)
	}
	return e
}

// Default returns an Extractor using DefaultPattern and no skip globs.
func Default() *Extractor {
	return MustExtractor(DefaultPattern)
}

// Extract returns the token in name and true, or "" and false when the name
// does not follow the convention, is skipped, or is empty.
func (e *Extractor) Extract(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" || e.Skipped(name) {
		return "", false
	}

	m := e.pattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}

	token := m[e.tokenIndex]
	if strings.TrimSpace(token) == "" || strings.ContainsAny(token, "\r\n") {
		return "", false
	}
	return token, true
}

// Skipped reports whether name matches one of the skip globs.
func (e *Extractor) Skipped(name string) bool {
	for _, g := range e.skip {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// Pattern returns the source of the compiled pattern.
func (e *Extractor) Pattern() string {
	return e.pattern.String()
}
