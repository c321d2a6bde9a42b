package hooks

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/template"

	"github.com/yaklabco/branchtag/internal/log"
)

// CommitMsgHook is the git hook branchtag installs.
const CommitMsgHook = "commit-msg"

// Marker is the comment used to identify branchtag-managed hooks.
const Marker = "# Installed by branchtag: DO NOT EDIT BY HAND"

// markerNeedle is matched loosely so older marker wordings are still recognised.
const markerNeedle = "Installed by branchtag"

// ErrForeignHook is returned when a hook file exists that branchtag did not write.
var ErrForeignHook = errors.New("hook exists and was not installed by branchtag")

// ScriptParams configures hook script generation.
type ScriptParams struct {
	// HookName is the name of the Git hook.
	HookName string

	// Binary is the branchtag executable the script runs: a name looked up
	// on PATH or an absolute path.
	Binary string
}

// hookScriptTemplate follows POSIX sh conventions for maximum portability.
// A missing binary must not block commits, so the script then exits 0.
const hookScriptTemplate = `#!/bin/sh
# Installed by branchtag: DO NOT EDIT BY HAND

if [ "${BRANCHTAG_HOOKS-}" = "0" ]; then
  exit 0
fi
[ "${BRANCHTAG_HOOKS-}" = "debug" ] && set -x

if command -v {{shquote .Binary}} >/dev/null 2>&1; then
  exec {{shquote .Binary}} {{.HookName}} "$@"
else
  echo "branchtag: {{.Binary}} not found; skipping {{.HookName}} hook." >&2
  exit 0
fi
`

//nolint:gochecknoglobals // template is parsed once at init
var scriptTmpl = template.Must(template.New("hook").Funcs(template.FuncMap{
	"shquote": shellQuote,
}).Parse(hookScriptTemplate))

// shellQuote single-quotes s for sh unless it is a plain word.
func shellQuote(s string) string {
	if s != "" && strings.Trim(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_./") == "" {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// GenerateScript returns the POSIX shell script content for a hook.
// Panics if template execution fails (indicates a programming error).
func GenerateScript(params ScriptParams) string {
	if params.Binary == "" {
		params.Binary = "branchtag"
	}
	if params.HookName == "" {
		params.HookName = CommitMsgHook
	}

	var buf bytes.Buffer
	if err := scriptTmpl.Execute(&buf, params); err != nil {
		panic("hooks: template execution failed: " + err.Error())
	}
	return buf.String()
}

// IsManaged checks if a hook file was installed by branchtag.
// It looks for the marker in the first few lines of the file.
func IsManaged(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for lineCount := 0; scanner.Scan() && lineCount < 5; lineCount++ {
		if strings.Contains(scanner.Text(), markerNeedle) {
			return true, nil
		}
	}

	return false, scanner.Err()
}

// execPerm is the permission mode for executable scripts.
const execPerm = 0o755

// WriteHookScript writes a hook script to the specified path with
// executable permissions.
func WriteHookScript(path string, params ScriptParams) error {
	slog.Debug("writing hook script",
		slog.String(log.Path, path),
		slog.String(log.Hook, params.HookName))

	// #nosec G306 -- hooks must be executable
	if err := os.WriteFile(path, []byte(GenerateScript(params)), execPerm); err != nil {
		return err
	}
	// WriteFile leaves the mode of an existing file alone.
	return os.Chmod(path, execPerm)
}

// RemoveHookScript removes a hook script if it was installed by branchtag.
// Returns true if the file was removed, false if it wasn't managed or didn't exist.
func RemoveHookScript(path string) (bool, error) {
	managed, err := IsManaged(path)
	if err != nil {
		return false, err
	}
	if !managed {
		slog.Debug("skipping removal of unmanaged hook", slog.String(log.Path, path))
		return false, nil
	}

	if err := os.Remove(path); err != nil {
		return false, err
	}
	return true, nil
}

// InstallResult describes what Install did.
type InstallResult struct {
	Path        string
	Overwrote   bool
	WasManaged  bool
	CustomHooks bool
}

// Install writes the commit-msg hook into repo. An existing hook that
// branchtag did not write is only replaced when force is set.
func Install(repo *GitRepo, params ScriptParams, force bool) (InstallResult, error) {
	if params.HookName == "" {
		params.HookName = CommitMsgHook
	}
	path := repo.HookPath(params.HookName)
	result := InstallResult{Path: path, CustomHooks: repo.HasCustomHooksPath()}

	if err := repo.EnsureHooksDir(); err != nil {
		return result, fmt.Errorf("creating hooks directory: %w", err)
	}

	managed, err := IsManaged(path)
	if err != nil {
		return result, fmt.Errorf("inspecting %s: %w", path, err)
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if exists && !managed && !force {
		return result, fmt.Errorf("%w: %s (use --force to replace it)", ErrForeignHook, path)
	}

	result.Overwrote = exists
	result.WasManaged = managed

	if err := WriteHookScript(path, params); err != nil {
		return result, fmt.Errorf("writing %s: %w", path, err)
	}
	return result, nil
}
