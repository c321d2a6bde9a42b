package log

// Attribute keys for structured log records.
const (
	Branch     = "branch"
	ConfigFile = "config_file"
	Dir        = "dir"
	Error      = "error"
	Hook       = "hook"
	Path       = "path"
	Source     = "source"
	Template   = "template"
	Token      = "token"
)
