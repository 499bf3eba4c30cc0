package config

import "lendcore/native/fees"

// Fees names the stable-pair token addresses and the quotes charged on swaps.
type Fees struct {
	Principal  string        `toml:"Principal" yaml:"principal"`
	YieldShare string        `toml:"YieldShare" yaml:"yield_share"`
	Reference  string        `toml:"Reference" yaml:"reference"`
	Default    fees.FeeQuote `toml:"Default" yaml:"default"`
	Waived     fees.FeeQuote `toml:"Waived" yaml:"waived"`
}

// Interest describes the kinked borrow rate curve as decimal fractions.
type Interest struct {
	BaseRate      string `toml:"BaseRate" yaml:"base_rate"`
	Slope1        string `toml:"Slope1" yaml:"slope1"`
	Slope2        string `toml:"Slope2" yaml:"slope2"`
	Kink          string `toml:"Kink" yaml:"kink"`
	ReserveFactor string `toml:"ReserveFactor" yaml:"reserve_factor"`
}

// Logging controls the structured logger.
type Logging struct {
	Service    string `toml:"Service" yaml:"service"`
	Env        string `toml:"Env" yaml:"env"`
	Level      string `toml:"Level" yaml:"level"`
	File       string `toml:"File" yaml:"file"`
	MaxSizeMB  int    `toml:"MaxSizeMB" yaml:"max_size_mb"`
	MaxBackups int    `toml:"MaxBackups" yaml:"max_backups"`
	MaxAgeDays int    `toml:"MaxAgeDays" yaml:"max_age_days"`
	Compress   bool   `toml:"Compress" yaml:"compress"`
}

// Metrics controls counter export. Textfile, when set, receives a node
// exporter compatible dump after each CLI run.
type Metrics struct {
	Enabled  bool   `toml:"Enabled" yaml:"enabled"`
	Textfile string `toml:"Textfile" yaml:"textfile"`
}

// Telemetry enables the OTLP/HTTP trace and metric exporters.
type Telemetry struct {
	Endpoint string `toml:"Endpoint" yaml:"endpoint"`
	Insecure bool   `toml:"Insecure" yaml:"insecure"`
	Headers  string `toml:"Headers" yaml:"headers"`
	Traces   bool   `toml:"Traces" yaml:"traces"`
	Metrics  bool   `toml:"Metrics" yaml:"metrics"`
}
