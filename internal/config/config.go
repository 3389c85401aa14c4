// Package config handles loading smsbackup configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/wesm/smsbackup/internal/alias"
)

// Config represents the smsbackup configuration. Every value can be
// overridden by the matching command-line flag.
type Config struct {
	Output  OutputConfig      `toml:"output"`
	Filter  FilterConfig      `toml:"filter"`
	Aliases map[string]string `toml:"aliases"` // address = "Name"
	Backup  BackupConfig      `toml:"backup"`
	Log     LogConfig         `toml:"log"`

	// Computed paths (not from config file)
	HomeDir    string `toml:"-"`
	configPath string
}

// OutputConfig controls how messages are rendered.
type OutputConfig struct {
	Identity   string `toml:"identity"`    // owner's display name (default "Me")
	DateFormat string `toml:"date_format"` // strftime pattern
	Format     string `toml:"format"`      // human, csv or json
	Header     bool   `toml:"header"`      // print a column header (default true)
	LocalTime  bool   `toml:"local_time"`  // render dates in the local zone instead of UTC
	File       string `toml:"file"`        // output file; empty means stdout
}

// FilterConfig limits output to conversations with these addresses.
type FilterConfig struct {
	Phones []string `toml:"phones"`
	Emails []string `toml:"emails"`
}

// BackupConfig locates the SMS database.
type BackupConfig struct {
	Root  string `toml:"root"`  // directory searched for backups
	Input string `toml:"input"` // explicit sms.db path; skips the search
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Format string `toml:"format"` // text or json
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		HomeDir: DefaultHome(),
		Output: OutputConfig{
			Identity:   "Me",
			DateFormat: "%Y-%m-%d %H:%M:%S",
			Format:     "human",
			Header:     true,
		},
		Aliases: map[string]string{},
		Log:     LogConfig{Format: "text"},
	}
}

// DefaultHome returns the default smsbackup home directory.
// Respects the SMSBACKUP_HOME environment variable.
func DefaultHome() string {
	if h := os.Getenv("SMSBACKUP_HOME"); h != "" {
		return expandPath(h)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".smsbackup"
	}
	return filepath.Join(home, ".smsbackup")
}

// Load reads the configuration. An explicit path must exist; otherwise
// config.toml in the home directory is read if present. homeDir, when set,
// replaces SMSBACKUP_HOME.
func Load(path, homeDir string) (*Config, error) {
	cfg := NewDefaultConfig()
	if homeDir != "" {
		cfg.HomeDir = expandPath(homeDir)
	}

	explicit := path != ""
	if explicit {
		path = expandPath(path)
	} else {
		path = filepath.Join(cfg.HomeDir, "config.toml")
	}
	cfg.configPath = path

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if explicit {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, withBackslashHint(err))
	}

	cfg.Output.File = expandPath(cfg.Output.File)
	cfg.Backup.Root = expandPath(cfg.Backup.Root)
	cfg.Backup.Input = expandPath(cfg.Backup.Input)

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return nil, fmt.Errorf("config %s: [log] format must be \"text\" or \"json\", got %q", path, cfg.Log.Format)
	}
	return cfg, nil
}

// ConfigFilePath returns the config file that Load read, or would have read.
func (c *Config) ConfigFilePath() string {
	if c.configPath != "" {
		return c.configPath
	}
	return filepath.Join(c.HomeDir, "config.toml")
}

// AliasMap validates the [aliases] table and converts it to an alias.Map.
func (c *Config) AliasMap() (alias.Map, error) {
	return alias.FromTable(c.Aliases)
}

// withBackslashHint adds a hint to TOML errors caused by Windows paths in
// double-quoted strings, where "\U" or "\G" are parsed as escapes.
func withBackslashHint(err error) error {
	msg := err.Error()
	if strings.Contains(msg, "invalid escape") || strings.Contains(msg, "hexadecimal digits") {
		return fmt.Errorf("%w (hint: use forward slashes or single quotes for Windows paths, e.g. 'C:\\Users\\me')", err)
	}
	return err
}

// expandPath expands a leading ~ to the user's home directory. On Windows,
// a path wrapped in matching quotes (as CMD passes them) is unquoted first.
func expandPath(path string) string {
	if runtime.GOOS == "windows" && len(path) >= 2 {
		if q := path[0]; (q == '"' || q == '\'') && path[len(path)-1] == q {
			path = path[1 : len(path)-1]
		}
	}
	if path == "" || path[0] != '~' {
		return path
	}
	if len(path) > 1 && path[1] != '/' && path[1] != filepath.Separator {
		// ~user is not supported.
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
