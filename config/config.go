package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/yaklabco/branchtag/internal/env"
	"github.com/yaklabco/branchtag/pkg/branch"
	"github.com/yaklabco/branchtag/pkg/message"
)

// Config holds all branchtag configuration values.
type Config struct {
	// Format is the commit message template used when COMMIT_MESSAGE_FORMAT
	// is not set. Empty selects the built-in template.
	Format string `mapstructure:"format"`

	// BranchPattern is a regular expression with a (?P<token>...) group.
	// Empty selects the built-in grammar.
	BranchPattern string `mapstructure:"branch_pattern"`

	// SkipBranches are glob patterns of branches that never get a token.
	SkipBranches []string `mapstructure:"skip_branches"`

	// SkipPrefixes are message subjects that are never rewritten.
	SkipPrefixes []string `mapstructure:"skip_prefixes"`

	// CommentChar starts comment lines in the message file. Empty follows
	// git's core.commentChar, falling back to '#'.
	CommentChar string `mapstructure:"comment_char"`

	// BranchSource selects how the current branch is found: auto, gogit or git.
	BranchSource string `mapstructure:"branch_source"`

	// Verbose enables informational output.
	Verbose bool `mapstructure:"verbose"`

	// Debug enables debug messages.
	Debug bool `mapstructure:"debug"`

	// configFile is the path to the config file that was loaded (if any).
	configFile string
}

// ConfigFile returns the path to the configuration file that was loaded,
// or an empty string if no file was loaded.
func (c *Config) ConfigFile() string {
	return c.configFile
}

// Extractor builds the branch token extractor described by the configuration.
func (c *Config) Extractor() (*branch.Extractor, error) {
	return branch.NewExtractor(c.BranchPattern, c.SkipBranches...) //nolint:wrapcheck // already wrapped
}

// ComposeOptions returns the message composition options for the configuration.
func (c *Config) ComposeOptions() []message.Option {
	opts := []message.Option{message.WithSkipPrefixes(c.SkipPrefixes...)}
	if c.CommentChar != "" {
		opts = append(opts, message.WithCommentChar(c.CommentChar))
	}
	return opts
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectDir is the directory to search for project-level config,
	// normally the repository root. If empty, the working directory is used.
	ProjectDir string

	// Stderr is where warnings are written.
	// If nil, os.Stderr is used.
	Stderr io.Writer

	// SkipProjectConfig skips loading project-level configuration.
	SkipProjectConfig bool

	// SkipUserConfig skips loading user-level configuration.
	SkipUserConfig bool

	// SkipEnv skips reading environment variables.
	SkipEnv bool

	// Env is the environment to read overrides from.
	// If nil, the process environment is captured.
	Env env.Snapshot
}

// Load reads configuration from all sources and returns a Config struct.
// Configuration is loaded in the following order (later sources override earlier):
//  1. Defaults
//  2. User config file (~/.config/branchtag/config.yaml)
//  3. Project config file (<repo>/.branchtag.yaml)
//  4. Environment variables (BRANCHTAG_*)
//
// If opts is nil, default options are used.
func Load(opts *LoadOptions) (*Config, error) {
	if opts == nil {
		opts = &LoadOptions{}
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	viperInstance := viper.New()
	setDefaults(viperInstance)
	viperInstance.SetConfigType("yaml")

	var configFileUsed string

	if !opts.SkipUserConfig {
		paths := ResolveXDGPaths()
		viperInstance.SetConfigName(ConfigFileName)
		viperInstance.AddConfigPath(paths.ConfigDir())

		if err := viperInstance.ReadInConfig(); err != nil {
			var configFileNotFoundError viper.ConfigFileNotFoundError
			if !errors.As(err, &configFileNotFoundError) {
				return nil, fmt.Errorf("failed to read user config file: %w", err)
			}
		} else {
			configFileUsed = viperInstance.ConfigFileUsed()
		}
	}

	if !opts.SkipProjectConfig {
		projectDir := opts.ProjectDir
		if projectDir == "" {
			var err error
			projectDir, err = os.Getwd()
			if err != nil {
				return nil, fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		projectConfigPath := ProjectConfigPath(projectDir)
		if _, err := os.Stat(projectConfigPath); err == nil {
			viperInstance.SetConfigFile(projectConfigPath)
			if err := viperInstance.MergeInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read project config file: %w", err)
			}
			configFileUsed = projectConfigPath
		}
	}

	var cfg Config
	if err := viperInstance.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if !opts.SkipEnv {
		environment := opts.Env
		if environment == nil {
			environment = env.Capture()
		}
		applyEnvironmentOverrides(&cfg, environment)
	}

	cfg.configFile = configFileUsed

	result := cfg.Validate()
	if result.HasWarnings() {
		result.WriteWarnings(opts.Stderr)
	}
	if result.HasErrors() {
		return nil, errors.New(result.ErrorMessage())
	}

	return &cfg, nil
}

// Environment variables that override configuration values.
const (
	EnvFormat        = "BRANCHTAG_FORMAT"
	EnvBranchPattern = "BRANCHTAG_BRANCH_PATTERN"
	EnvBranchSource  = "BRANCHTAG_BRANCH_SOURCE"
	EnvVerbose       = "BRANCHTAG_VERBOSE"
	EnvDebug         = "BRANCHTAG_DEBUG"
)

// applyEnvironmentOverrides applies environment variable overrides to the config.
// Environment variables take precedence over config file values.
func applyEnvironmentOverrides(cfg *Config, environment env.Snapshot) {
	if v := environment.Get(EnvFormat); v != "" {
		cfg.Format = v
	}
	if v := environment.Get(EnvBranchPattern); v != "" {
		cfg.BranchPattern = v
	}
	if v := environment.Get(EnvBranchSource); v != "" {
		cfg.BranchSource = strings.ToLower(v)
	}
	cfg.Verbose = environment.FailsafeBool(EnvVerbose, cfg.Verbose)
	cfg.Debug = environment.FailsafeBool(EnvDebug, cfg.Debug)
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Format:        DefaultFormat,
		BranchPattern: DefaultBranchPattern,
		SkipBranches:  []string{},
		SkipPrefixes:  message.DefaultSkipPrefixes(),
		CommentChar:   DefaultCommentChar,
		BranchSource:  DefaultBranchSource,
		Verbose:       DefaultVerbose,
		Debug:         DefaultDebug,
	}
}

// WriteDefaultConfig writes a default configuration file to the user's config directory.
func WriteDefaultConfig() (string, error) {
	paths := ResolveXDGPaths()
	return writeDefaultConfigTo(paths.ConfigDir(), paths.ConfigFilePath())
}

func writeDefaultConfigTo(configDir, configPath string) (string, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	if err := os.WriteFile(configPath, []byte(defaultConfigYAML()), 0o600); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}

// defaultConfigYAML returns the default configuration as YAML.
func defaultConfigYAML() string {
	return `# branchtag configuration
#
# The same keys may be placed in .branchtag.yaml at a repository root.

# Commit message template. Placeholders: {token}, {message}.
# COMMIT_MESSAGE_FORMAT overrides this value.
# format: "[{token}] {message}"

# Regular expression with a (?P<token>...) group, matched against the branch name.
# branch_pattern: '^(?:[A-Za-z0-9._-]+/)*(?P<token>[A-Z][A-Z0-9]*-[0-9]+)(?:[-_/.].*)?$'

# Branches that never get a token (glob patterns, '/' separated).
skip_branches: []

# Message subjects that are never rewritten.
skip_prefixes:
  - "fixup! "
  - "squash! "
  - "amend! "
  - "Merge branch "
  - "Merge branches "
  - "Merge remote-tracking branch "
  - "Merge tag "
  - "Merge commit "
  - "Merge pull request "
  - 'Revert "'

# Character that starts comment lines. Unset follows git's core.commentChar.
# comment_char: "#"

# How to find the current branch: auto, gogit or git.
branch_source: auto

verbose: false
debug: false
`
}
