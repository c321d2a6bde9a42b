// Package message composes the final commit message from a branch token, the
// author's message and a format template.
package message

import (
	"strings"

	"github.com/yaklabco/branchtag/pkg/format"
)

// Scissors is the line git uses in verbose commit templates; everything from
// it onward is discarded by git.
const Scissors = "------------------------ >8 ------------------------"

// DefaultCommentChar is git's default core.commentChar.
const DefaultCommentChar = "#"

// DefaultSkipPrefixes are subjects that must not be rewritten: autosquash
// matches fixup/squash/amend subjects exactly, and git generates the merge
// and revert subjects.
func DefaultSkipPrefixes() []string {
	return []string{
		"fixup! ", "squash! ", "amend! ",
		"Merge branch ", "Merge branches ", "Merge remote-tracking branch ",
		"Merge tag ", "Merge commit ", "Merge pull request ",
		`Revert "`,
	}
}

type options struct {
	commentChar  string
	skipPrefixes []string
}

// Option configures Compose.
type Option func(*options)

// WithCommentChar sets the character that starts comment lines. An empty value
// disables comment handling.
func WithCommentChar(c string) Option {
	return func(o *options) {
		o.commentChar = c
	}
}

// WithSkipPrefixes replaces the default list of subject prefixes that leave a
// message untouched.
func WithSkipPrefixes(prefixes ...string) Option {
	return func(o *options) {
		o.skipPrefixes = prefixes
	}
}

// Compose returns the message git should record. An empty token means no
// token was found, and raw is returned unchanged. Compose is idempotent:
// composing its own output again with the same token and template returns
// that output unchanged.
func Compose(token, raw string, tmpl format.Template, opts ...Option) string {
	o := options{
		commentChar:  DefaultCommentChar,
		skipPrefixes: DefaultSkipPrefixes(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	if token == "" {
		return raw
	}

	header, content, trailer := Split(raw, o.commentChar)
	if strings.TrimSpace(content) == "" {
		return raw
	}
	for _, p := range o.skipPrefixes {
		if p != "" && strings.HasPrefix(content, p) {
			return raw
		}
	}

	prefix, suffix, found := tmpl.Affixes(token)
	// Split trims trailing whitespace from content, so compare against a
	// trimmed suffix. A template line starting with the comment character
	// leaves part of the tag in the header or trailer.
	suffix = strings.TrimRight(suffix, " \t\r\n")
	for _, s := range []string{content, header + content, strings.TrimRight(raw, " \t\r\n")} {
		if hasAffixes(s, prefix, suffix) {
			return raw
		}
	}

	var composed string
	if found {
		composed = tmpl.Render(token, content)
	} else {
		// No {message} placeholder: keep the author's text after the
		// rendered template.
		composed = prefix + " " + content
	}
	return header + composed + trailer
}

// Split separates a commit message file into three parts, with
// header+content+trailer always equal to raw:
//
//   - header: comment and blank lines above the first written line, such as
//     the text of a commit.template
//   - content: the author's text, from the first written line to the last
//   - trailer: trailing comment and blank lines and the scissors section
//
// When no line outside comments is written, a first line starting with the
// comment character is content: git keeps it when the message is given with
// -m. A message starting with a blank line, as git's editor template does,
// has no content.
func Split(raw, commentChar string) (header, content, trailer string) {
	if commentChar == "" {
		end := len(strings.TrimRight(raw, " \t\r\n"))
		return "", raw[:end], raw[end:]
	}

	end := len(raw)
	start := -1
	for offset := 0; offset < len(raw); {
		line := raw[offset:]
		next := len(raw)
		if i := strings.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
			next = offset + i + 1
		}
		// Everything from the first scissors line on is git's.
		if isScissors(line, commentChar) {
			end = offset
			break
		}
		if start < 0 && strings.TrimSpace(line) != "" && !strings.HasPrefix(line, commentChar) {
			start = offset
		}
		offset = next
	}

	if start < 0 {
		first, _, _ := strings.Cut(raw[:end], "\n")
		if strings.TrimSpace(first) == "" {
			return "", "", raw
		}
		start = 0
	}

	// Trim trailing comment and blank lines, never past the first line of
	// content.
	for {
		trimmed := strings.TrimRight(raw[:end], " \t\r\n")
		lineStart := strings.LastIndexByte(trimmed, '\n') + 1
		if lineStart <= start || !strings.HasPrefix(trimmed[lineStart:], commentChar) {
			end = len(trimmed)
			break
		}
		end = lineStart
	}

	return raw[:start], raw[start:end], raw[end:]
}

func hasAffixes(s, prefix, suffix string) bool {
	return strings.HasPrefix(s, prefix) && strings.HasSuffix(s, suffix) &&
		len(s) >= len(prefix)+len(suffix)
}

func isScissors(line, commentChar string) bool {
	rest, ok := strings.CutPrefix(line, commentChar)
	if !ok {
		return false
	}
	return strings.TrimSpace(rest) == Scissors
}
