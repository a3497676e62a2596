// Package config reads the TOML settings file used by the command-line tool.
//
//	library = "/usr/lib/x86_64-linux-gnu/libaspell.so.15"
//	options = [["lang", "en_US"], ["personal", "~/.aspell.en.pws"]]
//
//	[log]
//	level = "debug"
//
// Options keep their file order, so a later duplicate key overrides an
// earlier one when the speller is built.
package config

import (
	"bytes"
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/aspell-go/errors"
	"github.com/wippyai/aspell-go/speller"
)

// DefaultPath is where the command-line tool looks when no file is given.
const DefaultPath = "~/.config/aspell-go/config.toml"

// pathKeys name engine options whose values are file system paths.
var pathKeys = map[string]bool{
	"personal": true,
	"repl":     true,
	"home-dir": true,
	"dict-dir": true,
	"data-dir": true,
	"conf-dir": true,
}

type Config struct {
	// Library is the shared library to load. Empty means discover it.
	Library string `toml:"library"`
	// Wasm is a wasm32-wasi build of the library. It takes precedence over
	// Library when set.
	Wasm string            `toml:"wasm"`
	Dirs map[string]string `toml:"wasm_dirs"`
	// WasmMemoryPages caps guest memory in 64KiB pages.
	WasmMemoryPages uint32     `toml:"wasm_memory_pages"`
	Options         [][]string `toml:"options"`
	Log             LogConfig  `toml:"log"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. Unknown fields are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.Validation(errors.PhaseConfig, "load config", "config path is required")
	}
	full, err := homedir.Expand(path)
	if err != nil {
		return cfg, errors.Wrap(errors.PhaseConfig, errors.KindConfig, err, "expand config path")
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return cfg, errors.Wrap(errors.PhaseConfig, errors.KindConfig, err, "read config file")
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, errors.Wrap(errors.PhaseConfig, errors.KindConfig, err, "parse "+full)
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if err := cfg.expand(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadDefault reads DefaultPath if it exists and returns the defaults
// otherwise.
func LoadDefault() (Config, error) {
	full, err := homedir.Expand(DefaultPath)
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(full); err != nil {
		return Default(), nil
	}
	return Load(full)
}

func (c *Config) expand() error {
	var err error
	expand := func(p *string) {
		if err == nil && *p != "" {
			*p, err = homedir.Expand(*p)
		}
	}

	expand(&c.Library)
	expand(&c.Wasm)
	if len(c.Dirs) > 0 {
		dirs := make(map[string]string, len(c.Dirs))
		for host, guest := range c.Dirs {
			expand(&host)
			dirs[host] = guest
		}
		c.Dirs = dirs
	}
	for _, pair := range c.Options {
		if len(pair) == 2 && pathKeys[pair[0]] {
			expand(&pair[1])
		}
	}
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindConfig, err, "expand path")
	}
	return nil
}

// SpellerOptions converts Options. Every entry must be a [key, value] pair.
func (c Config) SpellerOptions() ([]speller.Option, error) {
	opts := make([]speller.Option, 0, len(c.Options))
	for i, pair := range c.Options {
		if len(pair) != 2 {
			return nil, errors.New(errors.PhaseValidate, errors.KindValidation).
				Op("options").
				Value(pair).
				Detail("entry %d has %d elements, want [key, value]", i, len(pair)).
				Build()
		}
		opts = append(opts, speller.Opt(pair[0], pair[1]))
	}
	return opts, nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(c.Log.Level)
	if err != nil {
		return zapcore.InfoLevel, errors.Wrap(errors.PhaseConfig, errors.KindConfig, err, "log level")
	}
	return lvl, nil
}
