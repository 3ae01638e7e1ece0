package config

import (
	"time"

	"github.com/grovetools/sprint/logging"
)

// Defaults applied when a field is absent from the config file.
const (
	DefaultShell    = "sh -c"
	DefaultFence    = "```"
	DefaultInfo     = "text"
	DefaultPrompt   = "$ "
	DefaultDebounce = 500 * time.Millisecond
	DefaultGrace    = 5 * time.Second
	DefaultIgnore   = ".gitignore"
)

// Config is the top-level sprint configuration, loaded from sprint.yml,
// sprint.yaml, or sprint.toml in the working directory or any parent.
type Config struct {
	// Shell is the shell invocation used to run commands, e.g. "sh -c" or
	// "bash -xeo pipefail -c". An empty string is "unset"; use "none" to run
	// commands directly without a shell.
	Shell string `yaml:"shell" toml:"shell"`

	// Fence, Info, and Prompt control the markdown-style framing printed
	// around command output.
	Fence  string `yaml:"fence" toml:"fence"`
	Info   string `yaml:"info" toml:"info"`
	Prompt string `yaml:"prompt" toml:"prompt"`

	Watch   WatchConfig    `yaml:"watch" toml:"watch"`
	Logging logging.Config `yaml:"logging" toml:"logging"`
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	// Debounce is the quiet period that must elapse after the last file
	// change before the command reruns. Parsed with time.ParseDuration.
	Debounce string `yaml:"debounce" toml:"debounce"`

	// Grace is how long to wait after a termination request before the
	// running command is force-killed.
	Grace string `yaml:"grace" toml:"grace"`

	// IgnoreFile names the ignore-pattern file read at session start.
	IgnoreFile string `yaml:"ignore_file" toml:"ignore_file"`
}

// ShellOrDefault returns the configured shell invocation.
func (c *Config) ShellOrDefault() string {
	if c.Shell == "" {
		return DefaultShell
	}
	return c.Shell
}

// FenceOrDefault returns the configured fence string.
func (c *Config) FenceOrDefault() string {
	if c.Fence == "" {
		return DefaultFence
	}
	return c.Fence
}

// InfoOrDefault returns the configured fence info string.
func (c *Config) InfoOrDefault() string {
	if c.Info == "" {
		return DefaultInfo
	}
	return c.Info
}

// PromptOrDefault returns the configured prompt string.
func (c *Config) PromptOrDefault() string {
	if c.Prompt == "" {
		return DefaultPrompt
	}
	return c.Prompt
}

// DebounceDuration returns the parsed debounce duration, falling back to the
// default when unset or unparseable.
func (w *WatchConfig) DebounceDuration() time.Duration {
	return parseDuration(w.Debounce, DefaultDebounce)
}

// GraceDuration returns the parsed grace period.
func (w *WatchConfig) GraceDuration() time.Duration {
	return parseDuration(w.Grace, DefaultGrace)
}

// IgnoreFileOrDefault returns the configured ignore file name.
func (w *WatchConfig) IgnoreFileOrDefault() string {
	if w.IgnoreFile == "" {
		return DefaultIgnore
	}
	return w.IgnoreFile
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
