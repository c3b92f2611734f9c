// Package config handles application configuration and command-line argument parsing.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexflint/go-arg"
	"github.com/sirupsen/logrus"

	"github.com/joe/dirpoll/internal/watcher"
	"github.com/joe/dirpoll/pkg/filesystem"
)

// LogLevel is a logrus level that go-arg can parse from text.
type LogLevel logrus.Level

// String returns the level name.
func (l LogLevel) String() string {
	return logrus.Level(l).String()
}

// UnmarshalText implements encoding.TextUnmarshaler for go-arg
func (l *LogLevel) UnmarshalText(text []byte) error {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid log level: %s (valid: panic, fatal, error, warn, info, debug, trace)", text)
	}

	*l = LogLevel(parsed)

	return nil
}

// Config holds the application configuration
type Config struct {
	Roots         []string      `arg:"positional,required" placeholder:"ROOT" help:"Directories to watch (local paths, or sftp://user@host[:port]/path)"`
	Interval      time.Duration `arg:"-n,--interval" default:"2s" help:"Delay between the end of one scan and the start of the next"`
	InitialNotify bool          `arg:"--initial-notify" help:"Report everything found by the first scan as created"`
	Ignore        []string      `arg:"-x,--ignore,separate" placeholder:"GLOB" help:"Glob of paths to leave out (repeatable), e.g. '*.tmp' or 'build/**'"`
	LogFile       string        `arg:"--log-file" help:"Write logs to this file instead of stderr"`
	LogLevel      LogLevel      `arg:"--log-level" default:"warn" help:"Log level: error|warn|info|debug|trace"`
	HideHidden    bool          `arg:"--hide-hidden" help:"Do not print changes to dot-files and dot-directories"`
	TUI           bool          `arg:"-t,--tui" help:"Show a live terminal view instead of printing lines"`
	Once          bool          `arg:"--once" help:"Scan once, print what was found and exit"`
	Insecure      bool          `arg:"--insecure-ignore-host-key" help:"Skip SSH host key verification for sftp:// roots"`
}

// Description returns the program description for go-arg
func (Config) Description() string {
	return "Watch directory trees by polling and report created, modified and deleted files"
}

// Version returns the version string for go-arg
func (Config) Version() string {
	return "dirpoll 1.0.0"
}

// ParseFlags parses command-line flags and returns configuration
func ParseFlags() (*Config, error) {
	cfg := &Config{
		Interval: watcher.DefaultInterval,
		LogLevel: LogLevel(logrus.WarnLevel),
	}

	arg.MustParse(cfg)

	return PostProcessConfig(cfg)
}

// PostProcessConfig applies post-processing logic to a parsed config
func PostProcessConfig(cfg *Config) (*Config, error) {
	if cfg.Once && cfg.TUI {
		return nil, fmt.Errorf("--once and --tui cannot be combined")
	}

	// The TUI owns the terminal, so logs go to a file.
	if cfg.TUI && cfg.LogFile == "" {
		cfg.LogFile = "dirpoll.log"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings that go-arg cannot check on its own.
func (cfg *Config) Validate() error {
	if len(cfg.Roots) == 0 {
		return fmt.Errorf("no roots given")
	}

	for _, root := range cfg.Roots {
		if strings.TrimSpace(root) == "" {
			return fmt.Errorf("no roots given: root paths must not be blank")
		}
	}

	if cfg.Interval <= 0 {
		return fmt.Errorf("%w: %s", watcher.ErrInvalidInterval, cfg.Interval)
	}

	if _, err := watcher.NewGlobFilter(cfg.Ignore...); err != nil {
		return err
	}

	if _, err := filesystem.ParseLocations(cfg.Roots); err != nil {
		return err
	}

	return nil
}

// ConnectOptions returns the SFTP connection settings for the roots.
func (cfg *Config) ConnectOptions() filesystem.ConnectOptions {
	return filesystem.ConnectOptions{InsecureIgnoreHostKey: cfg.Insecure}
}
