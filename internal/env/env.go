// Package env snapshots the process environment once so the rest of the
// program reads configuration from an explicit value instead of os.Getenv.
package env

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// Snapshot is an immutable view of environment variables.
type Snapshot map[string]string

// Capture returns a snapshot of the current process environment.
func Capture() Snapshot {
	return ToMap(os.Environ())
}

const keyValueParts = 2 // Number of parts in a key=value pair.

// ToMap parses KEY=VALUE assignments. Entries without '=' are dropped.
func ToMap(assignments []string) Snapshot {
	return lo.FromPairs(lo.FilterMap(assignments, func(item string, _ int) (lo.Entry[string, string], bool) {
		parts := strings.SplitN(item, "=", keyValueParts)
		if len(parts) != keyValueParts {
			return lo.Entry[string, string]{}, false
		}

		return lo.Entry[string, string]{Key: parts[0], Value: parts[1]}, true
	}))
}

// Assignments renders the snapshot as sorted KEY=VALUE pairs, the form
// exec.Cmd.Env expects.
func (s Snapshot) Assignments() []string {
	out := lo.MapToSlice(s, func(k, v string) string {
		return k + "=" + v
	})
	sort.Strings(out)
	return out
}

// Lookup has the signature of os.LookupEnv.
func (s Snapshot) Lookup(key string) (string, bool) {
	v, ok := s[key]
	return v, ok
}

// Get returns the value of key, or "" when unset.
func (s Snapshot) Get(key string) string {
	return s[key]
}

// ErrInvalidBool is returned when a string cannot be parsed as a boolean.
var ErrInvalidBool = errors.New("invalid boolean value")

// ParseBool interprets a string as a boolean.
// It trims leading and trailing whitespace, then lowercases the value
// before matching.
//
// Accepted values (case-insensitive, after trimming):
//   - "true", "yes", "1"  -> true
//   - "false", "no", "0"  -> false
//   - "" (empty)          -> false, nil error
//   - any other non-empty -> false, ErrInvalidBool
func ParseBool(value string) (bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return false, nil
	}

	switch strings.ToLower(value) {
	case "true", "yes", "1":
		return true, nil
	case "false", "no", "0":
		return false, nil
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidBool, value)
	}
}

// FailsafeBool parses key from the snapshot, returning defaultValue when the
// variable is unset, empty or not a boolean.
func (s Snapshot) FailsafeBool(key string, defaultValue bool) bool {
	v, ok := s[key]
	if !ok || v == "" {
		return defaultValue
	}

	b, err := ParseBool(v)
	if err != nil {
		return defaultValue
	}

	return b
}
