// Package version reports the build version of the branchtag binary.
package version

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"charm.land/lipgloss/v2"

	"github.com/yaklabco/branchtag/pkg/ui"
)

// Build metadata, set by goreleaser:
//
//	-ldflags "-X github.com/yaklabco/branchtag/cmd/branchtag/version.Version=v1.2.3"
//
// Left empty (or "dev"), the values are taken from Go build info.
var (
	Version   = "dev" //nolint:gochecknoglobals // Populated by goreleaser ldflags.
	Commit    = ""    //nolint:gochecknoglobals // Populated by goreleaser ldflags.
	BuildDate = ""    //nolint:gochecknoglobals // Populated by goreleaser ldflags.
)

// Info is the version of a build.
type Info struct {
	// Version is a release tag, a VCS revision or "dev".
	Version string

	// Commit is the VCS revision, if known.
	Commit string

	// Built is the build or commit time; zero if unknown.
	Built time.Time

	// BuiltRaw is the unparseable build time string, if any.
	BuiltRaw string
}

// Read combines the ldflags values with the build info embedded by the Go
// toolchain. Ldflags win; `go install module@version` builds report the module
// version; source builds report the VCS revision, suffixed "-dirty" when the
// tree was modified.
func Read(_ context.Context) Info {
	settings := map[string]string{}
	mainVersion := ""
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		mainVersion = strings.TrimSpace(bi.Main.Version)
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
	}

	info := Info{
		Version: strings.TrimSpace(Version),
		Commit:  strings.TrimSpace(Commit),
	}

	if info.Version == "" || info.Version == "dev" {
		switch {
		case mainVersion != "" && mainVersion != "(devel)":
			info.Version = mainVersion
		case settings["vcs.revision"] != "":
			info.Version = settings["vcs.revision"]
			if settings["vcs.modified"] == "true" {
				info.Version += "-dirty"
			}
		default:
			info.Version = "dev"
		}
	}

	if info.Commit == "" {
		info.Commit = settings["vcs.revision"]
	}

	built := strings.TrimSpace(BuildDate)
	if built == "" {
		built = settings["vcs.time"]
	}
	if built != "" {
		if t, ok := parseTime(built); ok {
			info.Built = t
		} else {
			info.BuiltRaw = built
		}
	}

	return info
}

func parseTime(v string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parts returns the version, commit and time fields that are known.
func (i Info) parts() (version, commit, built string) {
	version = i.Version
	// A revision used as the version is not repeated.
	if i.Commit != "" && !strings.HasPrefix(i.Version, i.Commit) {
		commit = i.Commit
	}
	switch {
	case !i.Built.IsZero():
		built = i.Built.In(time.Local).Format(time.RFC3339)
	case i.BuiltRaw != "":
		built = i.BuiltRaw
	}
	return version, commit, built
}

// String renders the version as "version-commit-time", omitting unknown parts.
func (i Info) String() string {
	version, commit, built := i.parts()
	return join([]string{version, commit, built}, "-")
}

// Colorized renders the version line with fang's help colors.
func (i Info) Colorized() string {
	cs := ui.GetFangScheme()
	version, commit, built := i.parts()

	return join([]string{
		styled(lipgloss.NewStyle().Foreground(cs.QuotedString), version),
		styled(lipgloss.NewStyle().Foreground(cs.Program), commit),
		styled(lipgloss.NewStyle().Foreground(cs.Flag), built),
	}, lipgloss.NewStyle().Foreground(cs.Base).Render("-"))
}

func styled(style lipgloss.Style, s string) string {
	if s == "" {
		return ""
	}
	return style.Render(s)
}

func join(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
