package config

import (
	"flag"
	"strings"

	"github.com/nibzard/brainfile-go/internal/utils"
)

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	return parseFlagsHelper(cfg, fs, args, nil, "")
}

// parseFlagsWithSources parses CLI flags and updates source tracking.
func parseFlagsWithSources(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	return parseFlagsHelper(cfg, fs, args, sources, SourceFlag)
}

// parseFlagsHelper is the shared implementation for flag parsing.
// If sources is non-nil, it tracks the source of each value.
func parseFlagsHelper(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource, source ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("brainfile", flag.ContinueOnError)
	}

	var (
		boardFile         = fs.String("board", cfg.BoardFile, "Path to board file")
		schemaFile        = fs.String("schema", cfg.SchemaFile, "Path to schema file (empty for embedded)")
		defaultColumn     = fs.String("column", cfg.DefaultColumn, "Default column for new tasks")
		recursive         = fs.Bool("recursive", cfg.Recursive, "Discover boards in subdirectories")
		includeHidden     = fs.Bool("include-hidden", cfg.IncludeHidden, "Include hidden board files in discovery")
		maxDepth          = fs.Int("max-depth", cfg.MaxDepth, "Maximum discovery depth")
		excludeDirs       = fs.String("exclude-dirs", strings.Join(cfg.ExcludeDirs, ","), "Comma-separated directories to skip during discovery")
		strict            = fs.Bool("strict", cfg.Strict, "Treat lint warnings as errors")
		autoFix           = fs.Bool("fix", cfg.AutoFix, "Auto-fix fixable lint issues")
		validationTimeout = fs.Int("validation-timeout", cfg.ValidationTimeoutSeconds, "Per-command validation timeout (seconds, 0 for none)")
		logLevel          = fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
		logFormat         = fs.String("log-format", cfg.LogFormat, "Log format (text, json)")
		logTimestamps     = fs.Bool("log-timestamps", cfg.LogTimestamps, "Show timestamps in logs")
		logCaller         = fs.Bool("log-caller", cfg.LogCaller, "Show caller location in logs")
	)

	if err := fs.Parse(args); err != nil {
		return err
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"board":              "board_file",
		"schema":             "schema_file",
		"column":             "default_column",
		"recursive":          "recursive",
		"include-hidden":     "include_hidden",
		"max-depth":          "max_depth",
		"exclude-dirs":       "exclude_dirs",
		"strict":             "strict",
		"fix":                "auto_fix",
		"validation-timeout": "validation_timeout_seconds",
		"log-level":          "log_level",
		"log-format":         "log_format",
		"log-timestamps":     "log_timestamps",
		"log-caller":         "log_caller",
	}

	// Only flags the caller actually passed override earlier layers.
	flagSet := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		flagSet[f.Name] = true
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = source
		}
	})

	if flagSet["board"] {
		cfg.BoardFile = *boardFile
	}
	if flagSet["schema"] {
		cfg.SchemaFile = *schemaFile
	}
	if flagSet["column"] {
		cfg.DefaultColumn = *defaultColumn
	}
	if flagSet["recursive"] {
		cfg.Recursive = *recursive
	}
	if flagSet["include-hidden"] {
		cfg.IncludeHidden = *includeHidden
	}
	if flagSet["max-depth"] {
		cfg.MaxDepth = *maxDepth
	}
	if flagSet["exclude-dirs"] {
		cfg.ExcludeDirs = utils.SplitAndTrim(*excludeDirs, ",")
	}
	if flagSet["strict"] {
		cfg.Strict = *strict
	}
	if flagSet["fix"] {
		cfg.AutoFix = *autoFix
	}
	if flagSet["validation-timeout"] {
		cfg.ValidationTimeoutSeconds = *validationTimeout
	}
	if flagSet["log-level"] {
		cfg.LogLevel = *logLevel
	}
	if flagSet["log-format"] {
		cfg.LogFormat = *logFormat
	}
	if flagSet["log-timestamps"] {
		cfg.LogTimestamps = *logTimestamps
	}
	if flagSet["log-caller"] {
		cfg.LogCaller = *logCaller
	}

	return nil
}
