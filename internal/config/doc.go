// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.config/brainfile/config.toml or OS-specific config directory)
// 3. Project config file (.brainfile/config.toml or brainfile.toml in the project root)
// 4. Environment variables (BRAINFILE_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - Linux/BSD: $XDG_CONFIG_HOME/brainfile/config.toml or ~/.config/brainfile/config.toml
// - Windows: %APPDATA%\brainfile\config.toml
// - macOS: ~/Library/Application Support/brainfile/config.toml
// - ~/.brainfile/config.toml (fallback on any platform)
//
// Project-level config locations (overrides user config):
// - ./.brainfile/config.toml (preferred)
// - ./brainfile.toml
package config
