package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.config/brainfile/config.toml or OS-specific dir)
// 3. Project config file (.brainfile/config.toml or brainfile.toml)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFile(cfg, userConfigFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFile(cfg, projectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnv(cfg)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return cfg, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	cfg := &Config{}

	// 1. Set defaults (all fields start with default source)
	setDefaults(cfg)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
	}

	// 4. Override from environment
	loadFromEnvWithSources(cfg, sources)

	// 5. Parse CLI flags (they override everything)
	if err := parseFlagsWithSources(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{
		Config:  cfg,
		Sources: sources,
	}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"board_file",
		"schema_file",
		"default_column",
		"recursive",
		"include_hidden",
		"max_depth",
		"exclude_dirs",
		"strict",
		"auto_fix",
		"validation_timeout_seconds",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadConfigFileWithSources loads TOML config and updates source tracking.
// Only keys actually present in the file override earlier layers.
func loadConfigFileWithSources(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	tempCfg := &Config{}
	md, err := toml.DecodeFile(path, tempCfg)
	if err != nil {
		return err
	}

	if md.IsDefined("board_file") {
		setSource(&cfg.BoardFile, tempCfg.BoardFile, sources, "board_file", source)
	}
	if md.IsDefined("schema_file") {
		setSource(&cfg.SchemaFile, tempCfg.SchemaFile, sources, "schema_file", source)
	}
	if md.IsDefined("default_column") {
		setSource(&cfg.DefaultColumn, tempCfg.DefaultColumn, sources, "default_column", source)
	}
	if md.IsDefined("recursive") {
		setSource(&cfg.Recursive, tempCfg.Recursive, sources, "recursive", source)
	}
	if md.IsDefined("include_hidden") {
		setSource(&cfg.IncludeHidden, tempCfg.IncludeHidden, sources, "include_hidden", source)
	}
	if md.IsDefined("max_depth") {
		setSource(&cfg.MaxDepth, tempCfg.MaxDepth, sources, "max_depth", source)
	}
	if md.IsDefined("exclude_dirs") {
		setSource(&cfg.ExcludeDirs, tempCfg.ExcludeDirs, sources, "exclude_dirs", source)
	}
	if md.IsDefined("strict") {
		setSource(&cfg.Strict, tempCfg.Strict, sources, "strict", source)
	}
	if md.IsDefined("auto_fix") {
		setSource(&cfg.AutoFix, tempCfg.AutoFix, sources, "auto_fix", source)
	}
	if md.IsDefined("validation_timeout_seconds") {
		setSource(&cfg.ValidationTimeoutSeconds, tempCfg.ValidationTimeoutSeconds, sources, "validation_timeout_seconds", source)
	}
	if md.IsDefined("log_level") {
		setSource(&cfg.LogLevel, tempCfg.LogLevel, sources, "log_level", source)
	}
	if md.IsDefined("log_format") {
		setSource(&cfg.LogFormat, tempCfg.LogFormat, sources, "log_format", source)
	}
	if md.IsDefined("log_timestamps") {
		setSource(&cfg.LogTimestamps, tempCfg.LogTimestamps, sources, "log_timestamps", source)
	}
	if md.IsDefined("log_caller") {
		setSource(&cfg.LogCaller, tempCfg.LogCaller, sources, "log_caller", source)
	}

	return nil
}

// setSource is a helper for loadConfigFileWithSources.
func setSource[T any](field *T, value T, sources map[string]ConfigSource, name string, source ConfigSource) {
	*field = value
	sources[name] = source
}

// finalizeConfig computes derived values and validates paths.
func finalizeConfig(cfg *Config) error {
	// Expand ~ in paths
	cfg.BoardFile = expandPath(cfg.BoardFile)
	cfg.SchemaFile = expandPath(cfg.SchemaFile)

	// Determine project root
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	// Make paths absolute if they're relative
	if !filepath.IsAbs(cfg.BoardFile) {
		cfg.BoardFile = filepath.Join(cfg.ProjectRoot, cfg.BoardFile)
	}
	if cfg.SchemaFile != "" && !filepath.IsAbs(cfg.SchemaFile) {
		cfg.SchemaFile = filepath.Join(cfg.ProjectRoot, cfg.SchemaFile)
	}

	return nil
}

// expandPath expands home directory and environment variables in paths.
// It supports ~/ or ~\ prefixes and %VAR% expansion on Windows.
func expandPath(p string) string {
	if p == "" {
		return p
	}

	expanded := expandEnv(p)
	if expanded == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return home
	}
	if strings.HasPrefix(expanded, "~/") || (runtime.GOOS == "windows" && strings.HasPrefix(expanded, "~\\")) {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, expanded[2:])
	}
	return expanded
}

func expandEnv(p string) string {
	expanded := os.ExpandEnv(p)
	if runtime.GOOS != "windows" {
		return expanded
	}
	return expandWindowsEnv(expanded)
}

func expandWindowsEnv(p string) string {
	if !strings.Contains(p, "%") {
		return p
	}
	var b strings.Builder
	for i := 0; i < len(p); {
		if p[i] == '%' {
			end := strings.IndexByte(p[i+1:], '%')
			if end >= 0 {
				key := p[i+1 : i+1+end]
				if key == "" {
					b.WriteByte('%')
					i++
					continue
				}
				if val, ok := os.LookupEnv(key); ok {
					b.WriteString(val)
				} else {
					b.WriteByte('%')
					b.WriteString(key)
					b.WriteByte('%')
				}
				i += end + 2
				continue
			}
		}
		b.WriteByte(p[i])
		i++
	}
	return b.String()
}
