package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	defaultService = "lendcore"
	defaultEnv     = "local"
	defaultLevel   = "info"

	// Mainnet DAI, sDAI and USDC.
	defaultPrincipal  = "0x6B175474E89094C44Da98b954EedeAC495271d0F"
	defaultYieldShare = "0x83F20F44975D03b1b09e64809B757c47f942BEeA"
	defaultReference  = "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"
)

// Config is the runtime configuration for the calculator and its CLI.
type Config struct {
	Fees      Fees      `toml:"Fees" yaml:"fees"`
	Interest  Interest  `toml:"Interest" yaml:"interest"`
	Logging   Logging   `toml:"Logging" yaml:"logging"`
	Metrics   Metrics   `toml:"Metrics" yaml:"metrics"`
	Telemetry Telemetry `toml:"Telemetry" yaml:"telemetry"`
}

// Default returns a configuration that validates without a file on disk.
func Default() *Config {
	cfg := &Config{}
	cfg.normalize()
	return cfg
}

// Load reads a TOML or YAML configuration, chosen by file extension, then
// normalizes and validates it.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("config: path required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := &Config{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml", ".tml":
		meta, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		if err != nil {
			return nil, fmt.Errorf("config: decode toml: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: unknown keys in %s: %v", path, undecoded)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("config: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("config: unsupported extension %q", ext)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
