package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// findProjectConfigFile looks for a config file in the current directory.
func findProjectConfigFile() string {
	names := []string{filepath.Join(".brainfile", "config.toml"), "brainfile.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// findUserConfigFile looks for a user-level config file.
// Checks the OS-specific config directory (~/.config/brainfile/config.toml
// on Linux) first, then falls back to ~/.brainfile/config.toml.
func findUserConfigFile() string {
	if cfgDir := osUserConfigDir(); cfgDir != "" {
		userConfigPath := filepath.Join(cfgDir, "brainfile", "config.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	home, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(home, ".brainfile", "config.toml")
		if _, err := os.Stat(userConfigPath); err == nil {
			return userConfigPath
		}
	}

	return ""
}

// osUserConfigDir returns the OS-specific user config directory.
// Returns empty string if the directory cannot be determined.
func osUserConfigDir() string {
	switch runtime.GOOS {
	case "windows":
		// On Windows, use %APPDATA%\brainfile
		if appdata := os.Getenv("APPDATA"); appdata != "" {
			return appdata
		}
	case "darwin":
		// On macOS, use ~/Library/Application Support
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, "Library", "Application Support")
		}
	case "linux", "openbsd", "freebsd", "netbsd":
		// On Linux/BSD, respect XDG_CONFIG_HOME or use ~/.config
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return xdg
		}
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, ".config")
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.BoardFile = DefaultBoardFile
	cfg.SchemaFile = ""
	cfg.DefaultColumn = DefaultTaskColumn
	cfg.Recursive = true
	cfg.IncludeHidden = false
	cfg.MaxDepth = DefaultMaxDepth
	cfg.ValidationTimeoutSeconds = 0

	// Logging defaults
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}
}

// GetConfigFile returns the active config file path (project or user).
func (cws *ConfigWithSources) GetConfigFile() string {
	for _, source := range cws.Sources {
		if source == SourceProjFile {
			projectConfigFile := findProjectConfigFile()
			if projectConfigFile != "" {
				return projectConfigFile
			}
		}
	}
	for _, source := range cws.Sources {
		if source == SourceUserFile {
			userConfigFile := findUserConfigFile()
			if userConfigFile != "" {
				return userConfigFile
			}
		}
	}
	return ""
}
