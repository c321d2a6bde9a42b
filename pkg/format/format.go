// Package format resolves the commit message template and renders it.
//
// Templates use two named placeholders:
//
//	{token}    the identifier extracted from the branch name
//	{message}  the author's original message
//
// Use {{ and }} for literal braces. Any other {name} sequence is kept as-is,
// and so is every {message} after the first.
package format

import (
	"errors"
	"strings"
)

// EnvVar is the environment variable that overrides the active template.
const EnvVar = "COMMIT_MESSAGE_FORMAT"

// Placeholder names.
const (
	TokenPlaceholder   = "{token}"
	MessagePlaceholder = "{message}"
)

// DefaultTemplate is used when neither the environment nor the configuration
// supply a template.
const DefaultTemplate = "[" + TokenPlaceholder + "] " + MessagePlaceholder

// ErrMissingMessage is reported by Validate when a template has no
// {message} placeholder.
var ErrMissingMessage = errors.New("template has no " + MessagePlaceholder + " placeholder")

// ErrRepeatedMessage is reported by Validate when a template has more than
// one {message} placeholder.
var ErrRepeatedMessage = errors.New("template has more than one " + MessagePlaceholder +
	" placeholder; only the first is replaced")

// Template is a commit message format string.
type Template string

// Source identifies where a resolved template came from.
type Source string

// Template sources.
const (
	SourceEnv     Source = "env"
	SourceConfig  Source = "config"
	SourceBuiltin Source = "builtin"
)

// Resolution is the outcome of Resolve.
type Resolution struct {
	Template Template
	Source   Source
}

// LookupFunc looks up an environment variable. It has the signature of
// os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// MapLookup adapts a map of environment variables to a LookupFunc.
func MapLookup(env map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

// Resolve returns the active template: the value of EnvVar if it is set and
// non-empty, otherwise fallback, otherwise DefaultTemplate.
func Resolve(lookup LookupFunc, fallback string) Resolution {
	if lookup != nil {
		if v, ok := lookup(EnvVar); ok && v != "" {
			return Resolution{Template: Template(v), Source: SourceEnv}
		}
	}
	if fallback != "" {
		return Resolution{Template: Template(fallback), Source: SourceConfig}
	}
	return Resolution{Template: DefaultTemplate, Source: SourceBuiltin}
}

// Validate reports configuration problems with the template.
func (t Template) Validate() error {
	_, after, found := t.split()
	if !found {
		return ErrMissingMessage
	}
	if _, _, again := Template(after).split(); again {
		return ErrRepeatedMessage
	}
	return nil
}

// HasMessage reports whether the template contains a {message} placeholder.
func (t Template) HasMessage() bool {
	_, _, found := t.split()
	return found
}

// Render substitutes token and message into the template.
func (t Template) Render(token, message string) string {
	return render(string(t), token, message, true)
}

// Affixes renders the parts of the template before and after the first
// {message} placeholder. found is false when there is no such placeholder,
// in which case prefix holds the whole rendered template.
func (t Template) Affixes(token string) (prefix, suffix string, found bool) {
	before, after, found := t.split()
	if !found {
		return render(string(t), token, "", false), "", false
	}
	return render(before, token, "", false), render(after, token, "", false), true
}

// split cuts the raw template around the first unescaped {message}.
func (t Template) split() (before, after string, found bool) {
	s := string(t)
	for i := 0; i < len(s); i++ {
		switch {
		case strings.HasPrefix(s[i:], "{{"), strings.HasPrefix(s[i:], "}}"):
			i++
		case strings.HasPrefix(s[i:], MessagePlaceholder):
			return s[:i], s[i+len(MessagePlaceholder):], true
		}
	}
	return s, "", false
}

// render substitutes token everywhere and message at its first placeholder
// when withMessage is set.
func render(s, token, message string, withMessage bool) string {
	var b strings.Builder
	b.Grow(len(s) + len(token) + len(message))
	for i := 0; i < len(s); {
		rest := s[i:]
		switch {
		case strings.HasPrefix(rest, "{{"):
			b.WriteByte('{')
			i += 2
		case strings.HasPrefix(rest, "}}"):
			b.WriteByte('}')
			i += 2
		case strings.HasPrefix(rest, TokenPlaceholder):
			b.WriteString(token)
			i += len(TokenPlaceholder)
		case withMessage && strings.HasPrefix(rest, MessagePlaceholder):
			b.WriteString(message)
			i += len(MessagePlaceholder)
			withMessage = false
		default:
			b.WriteByte(s[i])
			i++
		}
	}
	return b.String()
}
