// Package config handles configuration loading and defaults.
package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
}

// Default values.
const (
	DefaultBoardFile  = "brainfile.md"
	DefaultTaskColumn = "todo"
	DefaultMaxDepth   = 10
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
)

// Config holds the full configuration for brainfile.
type Config struct {
	// Paths
	BoardFile  string `toml:"board_file"`
	SchemaFile string `toml:"schema_file"` // empty means the embedded schema

	// Board behaviour
	DefaultColumn string `toml:"default_column"`

	// Discovery
	Recursive     bool     `toml:"recursive"`
	IncludeHidden bool     `toml:"include_hidden"`
	MaxDepth      int      `toml:"max_depth"`
	ExcludeDirs   []string `toml:"exclude_dirs"` // empty means the built-in exclude list

	// Linting
	Strict  bool `toml:"strict"`
	AutoFix bool `toml:"auto_fix"`

	// Contract validation
	ValidationTimeoutSeconds int `toml:"validation_timeout_seconds"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}
