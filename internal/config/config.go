// Package config loads the portalgrid configuration file (TOML).
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/katalvlaran/portalgrid/navmap"
	"github.com/katalvlaran/portalgrid/portal"
)

// ErrInvalid indicates a configuration value out of range or an unknown key.
var ErrInvalid = errors.New("config: invalid configuration")

// Config holds every setting of the command-line driver.
type Config struct {
	BlockSize       int          `toml:"block_size"`
	DiagonalPortals bool         `toml:"diagonal_portals"`
	AgentSize       int          `toml:"agent_size"`
	Workers         int          `toml:"workers"`
	LogLevel        string       `toml:"log_level"`
	Render          RenderConfig `toml:"render"`
	Server          ServerConfig `toml:"server"`
}

// RenderConfig holds display settings.
type RenderConfig struct {
	Color bool `toml:"color"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BlockSize: portal.DefaultBlockSize,
		AgentSize: 1,
		Workers:   1,
		LogLevel:  "info",
		Render:    RenderConfig{Color: true},
		Server:    ServerConfig{Addr: ":8080"},
	}
}

// Load reads path on top of Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Decode reads TOML from r on top of Default and validates the result.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func checkUndecoded(md toml.MetaData) error {
	keys := md.Undecoded()
	if len(keys) == 0 {
		return nil
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}

	return fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(names, ", "))
}

// Validate checks value ranges. Block size validity is left to the layout.
func (c Config) Validate() error {
	if c.AgentSize < 1 {
		return fmt.Errorf("%w: agent_size must be >= 1 (got %d)", ErrInvalid, c.AgentSize)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be >= 1 (got %d)", ErrInvalid, c.Workers)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level %q", ErrInvalid, c.LogLevel)
	}

	return nil
}

// Level returns the parsed log level, defaulting to info.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}

	return lvl
}

// MapOptions translates the preprocessing settings into navmap options.
func (c Config) MapOptions(logger *log.Logger) []navmap.Option {
	opts := []navmap.Option{
		navmap.WithBlockSize(c.BlockSize),
		navmap.WithWorkers(c.Workers),
		navmap.WithLogger(logger),
	}
	if c.DiagonalPortals {
		opts = append(opts, navmap.WithDiagonalPortals())
	}

	return opts
}
