package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/brainfile-go/internal/utils"
)

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	loadFromEnvHelper(cfg, nil, "")
}

// loadFromEnvWithSources loads environment variables and updates source tracking.
func loadFromEnvWithSources(cfg *Config, sources map[string]ConfigSource) {
	loadFromEnvHelper(cfg, sources, SourceEnv)
}

// loadFromEnvHelper is the shared implementation for env loading.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnvHelper(cfg *Config, sources map[string]ConfigSource, source ConfigSource) {
	mark := func(field string) {
		if sources != nil {
			sources[field] = source
		}
	}

	if v := os.Getenv("BRAINFILE_BOARD"); v != "" {
		cfg.BoardFile = v
		mark("board_file")
	}
	if v := os.Getenv("BRAINFILE_SCHEMA"); v != "" {
		cfg.SchemaFile = v
		mark("schema_file")
	}
	if v := os.Getenv("BRAINFILE_COLUMN"); v != "" {
		cfg.DefaultColumn = v
		mark("default_column")
	}
	if v := os.Getenv("BRAINFILE_RECURSIVE"); v != "" {
		cfg.Recursive = boolFromString(v)
		mark("recursive")
	}
	if v := os.Getenv("BRAINFILE_INCLUDE_HIDDEN"); v != "" {
		cfg.IncludeHidden = boolFromString(v)
		mark("include_hidden")
	}
	if v := os.Getenv("BRAINFILE_MAX_DEPTH"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.MaxDepth = i
			mark("max_depth")
		}
	}
	if v := os.Getenv("BRAINFILE_EXCLUDE_DIRS"); v != "" {
		cfg.ExcludeDirs = utils.SplitAndTrim(v, ",")
		mark("exclude_dirs")
	}
	if v := os.Getenv("BRAINFILE_STRICT"); v != "" {
		cfg.Strict = boolFromString(v)
		mark("strict")
	}
	if v := os.Getenv("BRAINFILE_AUTO_FIX"); v != "" {
		cfg.AutoFix = boolFromString(v)
		mark("auto_fix")
	}
	if v := os.Getenv("BRAINFILE_VALIDATION_TIMEOUT"); v != "" {
		var i int
		if _, err := fmt.Sscanf(v, "%d", &i); err == nil {
			cfg.ValidationTimeoutSeconds = i
			mark("validation_timeout_seconds")
		}
	}

	// Logging configuration
	if v := os.Getenv("BRAINFILE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
		mark("log_level")
	}
	if v := os.Getenv("BRAINFILE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
		mark("log_format")
	}
	if v := os.Getenv("BRAINFILE_LOG_TIMESTAMPS"); v != "" {
		cfg.LogTimestamps = boolFromString(v)
		mark("log_timestamps")
	}
	if v := os.Getenv("BRAINFILE_LOG_CALLER"); v != "" {
		cfg.LogCaller = boolFromString(v)
		mark("log_caller")
	}
}

// boolFromString parses a boolean from a string.
func boolFromString(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "1" || s == "true" || s == "yes" || s == "on"
}
