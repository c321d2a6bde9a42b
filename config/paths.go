// Package config provides XDG-compliant configuration management for branchtag.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the application name used in configuration paths.
const AppName = "branchtag"

// ConfigFileName is the name of the user configuration file (without extension).
const ConfigFileName = "config"

// ProjectConfigFileName is the name of the per-repository configuration file
// (without extension), looked up in the repository root.
const ProjectConfigFileName = ".branchtag"

const osWindows = "windows"

// XDGPaths holds the resolved XDG base directory paths for the current platform.
type XDGPaths struct {
	ConfigHome string // User configuration directory
}

// ResolveXDGPaths returns the XDG base directory paths for the current platform.
func ResolveXDGPaths() XDGPaths {
	return XDGPaths{ConfigHome: resolveConfigHome()}
}

// ConfigDir returns the application-specific configuration directory.
func (p XDGPaths) ConfigDir() string {
	return filepath.Join(p.ConfigHome, AppName)
}

// ConfigFilePath returns the full path to the user configuration file.
func (p XDGPaths) ConfigFilePath() string {
	return filepath.Join(p.ConfigDir(), ConfigFileName+".yaml")
}

// ProjectConfigPath returns the path of the project configuration file in dir.
func ProjectConfigPath(dir string) string {
	return filepath.Join(dir, ProjectConfigFileName+".yaml")
}

// resolveConfigHome returns the XDG_CONFIG_HOME equivalent for the current platform.
func resolveConfigHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}

	home := userHomeDir()

	if runtime.GOOS == osWindows {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return appData
		}
		return filepath.Join(home, "AppData", "Roaming")
	}
	// ~/.config on Linux and macOS alike, like most CLI tools.
	return filepath.Join(home, ".config")
}

// userHomeDir returns the user's home directory.
func userHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if home := os.Getenv("USERPROFILE"); home != "" {
		return home
	}
	if drive := os.Getenv("HOMEDRIVE"); drive != "" {
		if path := os.Getenv("HOMEPATH"); path != "" {
			return filepath.Join(drive, path)
		}
	}
	return ""
}
