package config

import (
	"github.com/spf13/viper"

	"github.com/yaklabco/branchtag/pkg/message"
)

// Branch sources.
const (
	BranchSourceAuto  = "auto"
	BranchSourceGoGit = "gogit"
	BranchSourceGit   = "git"
)

// Default configuration values.
const (
	// DefaultFormat is empty so the built-in template applies.
	DefaultFormat = ""

	// DefaultBranchPattern is empty so the built-in branch grammar applies.
	DefaultBranchPattern = ""

	// DefaultCommentChar is empty so git's core.commentChar applies.
	DefaultCommentChar = ""

	// DefaultBranchSource tries go-git first, then the git CLI.
	DefaultBranchSource = BranchSourceAuto

	// DefaultVerbose is the default verbose setting.
	DefaultVerbose = false

	// DefaultDebug is the default debug setting.
	DefaultDebug = false
)

// setDefaults configures default values in the viper instance.
func setDefaults(viperInstance *viper.Viper) {
	viperInstance.SetDefault("format", DefaultFormat)
	viperInstance.SetDefault("branch_pattern", DefaultBranchPattern)
	viperInstance.SetDefault("skip_branches", []string{})
	viperInstance.SetDefault("skip_prefixes", message.DefaultSkipPrefixes())
	viperInstance.SetDefault("comment_char", DefaultCommentChar)
	viperInstance.SetDefault("branch_source", DefaultBranchSource)
	viperInstance.SetDefault("verbose", DefaultVerbose)
	viperInstance.SetDefault("debug", DefaultDebug)
}
