// Package config resolves runtime settings for the custodian binary.
//
// Settings come from, in increasing precedence: built-in defaults, an
// optional YAML file, an optional .env file, and CUSTODIAN_* environment
// variables. Command-line flags are applied by the caller afterwards.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	goerrors "github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// Environment variables.
const (
	EnvConfig       = "CUSTODIAN_CONFIG"
	EnvGameDir      = "CUSTODIAN_GAME_DIR"
	EnvSaveDir      = "CUSTODIAN_SAVE_DIR"
	EnvMaxInventory = "CUSTODIAN_MAX_INVENTORY"
	EnvSeed         = "CUSTODIAN_SEED"
	EnvLogLevel     = "CUSTODIAN_LOG_LEVEL"
	EnvLogFile      = "CUSTODIAN_LOG_FILE"
)

// DefaultFile is read when present and no other file is named.
const DefaultFile = "custodian.yaml"

type Config struct {
	GameDir      string    `yaml:"game_dir"`
	SaveDir      string    `yaml:"save_dir"`
	MaxInventory int       `yaml:"max_inventory"` // 0 keeps the game's own limit
	Seed         int64     `yaml:"seed"`
	Log          LogConfig `yaml:"log"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"` // empty logs to stderr, or nowhere in the TUI
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		GameDir: filepath.Join("games", "cosmic"),
		SaveDir: defaultSaveDir(),
		Log:     LogConfig{Level: "info"},
	}
}

func defaultSaveDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".custodian", "saves")
	}
	return filepath.Join(dir, "custodian", "saves")
}

// Load resolves the configuration. path names a YAML file; when empty,
// CUSTODIAN_CONFIG is consulted and then DefaultFile, both optional.
// envFiles are dotenv files loaded into the environment without
// overriding variables that are already set; missing ones are skipped.
func Load(path string, envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
	}

	cfg := Default()

	required := path != ""
	if path == "" {
		path = os.Getenv(EnvConfig)
		required = path != ""
	}
	if path == "" {
		path = DefaultFile
	}
	if err := cfg.readFile(path, required); err != nil {
		return nil, err
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) readFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	el := goerrors.NewErrorList()

	if v := os.Getenv(EnvGameDir); v != "" {
		c.GameDir = v
	}
	if v := os.Getenv(EnvSaveDir); v != "" {
		c.SaveDir = v
	}
	if v := os.Getenv(EnvMaxInventory); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			el.Add(fmt.Errorf("parsing %s: %w", EnvMaxInventory, err))
		} else {
			c.MaxInventory = n
		}
	}
	if v := os.Getenv(EnvSeed); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			el.Add(fmt.Errorf("parsing %s: %w", EnvSeed, err))
		} else {
			c.Seed = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		c.Log.File = v
	}

	return el.Err()
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	el := goerrors.NewErrorList()

	if c.GameDir == "" {
		el.Add(fmt.Errorf("game_dir is required"))
	}
	if c.SaveDir == "" {
		el.Add(fmt.Errorf("save_dir is required"))
	}
	if c.MaxInventory < 0 {
		el.Add(fmt.Errorf("max_inventory must not be negative"))
	}
	el.Add(c.Log.validate())

	return el.Err()
}

func (l LogConfig) validate() error {
	if _, err := l.level(); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

func (l LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(l.Level))); err != nil {
		return 0, err
	}
	return lvl, nil
}

// NewLogger builds the process logger. Output goes to the configured log
// file, or to fallback when none is set. The returned close function
// releases the file.
func (c *Config) NewLogger(fallback io.Writer) (*slog.Logger, func() error, error) {
	lvl, err := c.Log.level()
	if err != nil {
		return nil, nil, fmt.Errorf("log.level: %w", err)
	}

	w := fallback
	closeFn := func() error { return nil }
	if c.Log.File != "" {
		f, err := os.OpenFile(c.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w, closeFn = f, f.Close
	}
	if w == nil {
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closeFn, nil
}
