package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# Brainfile configuration file
# Values can be overridden by environment variables (BRAINFILE_*) or CLI flags

# Board file (relative to project root)
board_file = "brainfile.md"

# JSON schema override (empty uses the embedded schema)
schema_file = ""

# Column that receives new tasks
default_column = "todo"

# Discovery
recursive = true
include_hidden = false
max_depth = 10
# exclude_dirs = ["node_modules", ".git", "vendor"]

# Linting
strict = false
auto_fix = false

# Per-command timeout for contract validation (seconds, 0 for none)
validation_timeout_seconds = 0

# Logging
log_level = "warn"
log_format = "text"
log_timestamps = false
log_caller = false
`
}
