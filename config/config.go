package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/lixenwraith/vi-arcade/terminal"
	"github.com/lixenwraith/vi-arcade/theme"
)

// Key-release delay bounds in milliseconds
const (
	MinKeyReleaseMs = 10
	MaxKeyReleaseMs = 500
)

// ThemeEntry is a user theme in the config file
type ThemeEntry struct {
	Background string `toml:"background"`
}

// Config holds host settings
type Config struct {
	Theme        string                `toml:"theme"`
	Themes       map[string]ThemeEntry `toml:"themes"`
	SyncOutput   bool                  `toml:"sync_output"`
	KeyReleaseMs int                   `toml:"key_release_ms"`
	Debug        bool                  `toml:"debug"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Theme:        theme.DefaultName,
		Themes:       make(map[string]ThemeEntry),
		SyncOutput:   true,
		KeyReleaseMs: int(terminal.DefaultReleaseDelay / time.Millisecond),
	}
}

// DefaultPath returns $VI_ARCADE_CONFIG or <user config dir>/vi-arcade/config.toml
func DefaultPath() string {
	if p := os.Getenv("VI_ARCADE_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vi-arcade", "config.toml")
}

// Load reads the file at path, then applies environment overrides.
// A missing file or empty path yields defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := decode(data, cfg); err != nil {
				return nil, fmt.Errorf("config %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// Defaults only
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	cfg.Clamp()

	for name, entry := range cfg.Themes {
		if _, err := theme.ParseHex(entry.Background); err != nil {
			return nil, fmt.Errorf("config theme %s: %w", name, err)
		}
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("line %d column %d: %w", row, col, err)
		}
		return err
	}
	if cfg.Themes == nil {
		cfg.Themes = make(map[string]ThemeEntry)
	}
	return nil
}

// applyEnv overrides fields from VI_ARCADE_* variables; unparsable values are ignored
func applyEnv(cfg *Config) {
	if name := os.Getenv("VI_ARCADE_THEME"); name != "" {
		cfg.Theme = name
	}

	if sync := os.Getenv("VI_ARCADE_SYNC_OUTPUT"); sync != "" {
		if val, err := strconv.ParseBool(sync); err == nil {
			cfg.SyncOutput = val
		} else {
			log.Printf("[config] ignoring VI_ARCADE_SYNC_OUTPUT=%q: %v", sync, err)
		}
	}

	if ms := os.Getenv("VI_ARCADE_KEY_RELEASE_MS"); ms != "" {
		if val, err := strconv.Atoi(ms); err == nil {
			cfg.KeyReleaseMs = val
		} else {
			log.Printf("[config] ignoring VI_ARCADE_KEY_RELEASE_MS=%q: %v", ms, err)
		}
	}

	if debug := os.Getenv("VI_ARCADE_DEBUG"); debug != "" {
		if val, err := strconv.ParseBool(debug); err == nil {
			cfg.Debug = val
		}
	}
}

// Clamp bounds KeyReleaseMs to the supported range
func (c *Config) Clamp() {
	if c.KeyReleaseMs < MinKeyReleaseMs {
		c.KeyReleaseMs = MinKeyReleaseMs
	}
	if c.KeyReleaseMs > MaxKeyReleaseMs {
		c.KeyReleaseMs = MaxKeyReleaseMs
	}
}

// KeyReleaseDelay returns the synthetic keyup delay
func (c *Config) KeyReleaseDelay() time.Duration {
	return time.Duration(c.KeyReleaseMs) * time.Millisecond
}

// ResolveTheme looks up the configured theme, user entries first
func (c *Config) ResolveTheme() (theme.Theme, error) {
	return c.LookupTheme(c.Theme)
}

// LookupTheme resolves name against user themes, then built-ins
func (c *Config) LookupTheme(name string) (theme.Theme, error) {
	key := strings.ToLower(name)
	for n, entry := range c.Themes {
		if strings.ToLower(n) != key {
			continue
		}
		bg, err := theme.ParseHex(entry.Background)
		if err != nil {
			return theme.Theme{}, err
		}
		return theme.New(key, bg), nil
	}
	if t, ok := theme.Builtin(key); ok {
		return t, nil
	}
	return theme.Theme{}, fmt.Errorf("unknown theme %q", name)
}
