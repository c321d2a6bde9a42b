package config

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/gobwas/glob"
	"github.com/samber/lo"

	"github.com/yaklabco/branchtag/pkg/branch"
	"github.com/yaklabco/branchtag/pkg/format"
)

//nolint:gochecknoglobals // package-level lookup table for branch source validation
var validBranchSources = []string{BranchSourceAuto, BranchSourceGoGit, BranchSourceGit}

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Field   string
	Message string
}

func (w ValidationWarning) String() string {
	return fmt.Sprintf("config warning: %s: %s", w.Field, w.Message)
}

// ValidationResults holds the results of configuration validation.
type ValidationResults struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// HasErrors returns true if there are validation errors.
func (r ValidationResults) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are validation warnings.
func (r ValidationResults) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorMessage returns a combined error message for all validation errors.
func (r ValidationResults) ErrorMessage() string {
	if !r.HasErrors() {
		return ""
	}
	return strings.Join(lo.Map(r.Errors, func(e ValidationError, _ int) string {
		return e.Error()
	}), "; ")
}

// WriteWarnings writes all warnings to the given writer.
func (r ValidationResults) WriteWarnings(w io.Writer) {
	for _, warn := range r.Warnings {
		_, _ = fmt.Fprintln(w, warn.String())
	}
}

// Validate checks the configuration for errors and warnings.
// Values that would make the hook misbehave are errors; a template that
// would drop nothing but looks unintended is a warning.
func (c *Config) Validate() ValidationResults {
	var result ValidationResults

	if c.BranchPattern != "" {
		if _, err := branch.NewExtractor(c.BranchPattern); err != nil {
			msg := err.Error()
			if errors.Is(err, branch.ErrNoTokenGroup) {
				msg = "pattern must contain a (?P<token>...) group"
			}
			result.Errors = append(result.Errors, ValidationError{Field: "branch_pattern", Message: msg})
		}
	}

	for i, g := range c.SkipBranches {
		if _, err := glob.Compile(g, '/'); err != nil {
			result.Errors = append(result.Errors, ValidationError{
				Field:   fmt.Sprintf("skip_branches[%d]", i),
				Message: fmt.Sprintf("invalid glob %q: %v", g, err),
			})
		}
	}

	if c.Format != "" {
		if err := format.Template(c.Format).Validate(); err != nil {
			msg := err.Error()
			if errors.Is(err, format.ErrMissingMessage) {
				msg += "; the message will follow the rendered template"
			}
			result.Warnings = append(result.Warnings, ValidationWarning{Field: "format", Message: msg})
		}
	}

	if utf8.RuneCountInString(c.CommentChar) > 1 {
		result.Errors = append(result.Errors, ValidationError{
			Field:   "comment_char",
			Message: fmt.Sprintf("must be a single character, got %q", c.CommentChar),
		})
	}

	if c.BranchSource != "" && !lo.Contains(validBranchSources, c.BranchSource) {
		result.Errors = append(result.Errors, ValidationError{
			Field: "branch_source",
			Message: fmt.Sprintf("invalid source %q, must be one of: %s",
				c.BranchSource, strings.Join(validBranchSources, ", ")),
		})
	}

	return result
}
