package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/maniya81/whatsapp-export-chat-viewer/internal/parse"
)

// Config represents the global ~/.chatview/config.toml.
type Config struct {
	// HTTPAddr is the listen address of the viewer daemon API.
	HTTPAddr string `toml:"http_addr"`
	// DateOrder resolves the slash-date ambiguity of exports: "dmy"
	// (default) or "mdy" for US-format logs.
	DateOrder string `toml:"date_order"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		HTTPAddr:  ":8780",
		DateOrder: string(parse.DayFirst),
	}
}

// Load reads config from the given path, filling unset fields with
// defaults. A missing file yields the pure defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = Default().HTTPAddr
	}
	if cfg.DateOrder == "" {
		cfg.DateOrder = Default().DateOrder
	}
	return cfg, nil
}

// Save writes config to the given path, creating parent dirs as needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	encErr := toml.NewEncoder(f).Encode(cfg)
	if closeErr := f.Close(); closeErr != nil && encErr == nil {
		return closeErr
	}
	return encErr
}

// Order returns the configured date interpretation as a parse.DateOrder.
func (c *Config) Order() parse.DateOrder {
	if c.DateOrder == string(parse.MonthFirst) {
		return parse.MonthFirst
	}
	return parse.DayFirst
}
