package config

import (
	"fmt"
	"log/slog"
	"strings"

	"lendcore/native/fees"
	"lendcore/native/lending"
	"lendcore/native/numeric"
	"lendcore/observability/otel"
)

func (cfg *Config) normalize() {
	if cfg == nil {
		return
	}
	cfg.Fees.normalize()
	cfg.Interest.normalize()
	cfg.Logging.normalize()
	cfg.Metrics.Textfile = strings.TrimSpace(cfg.Metrics.Textfile)
	cfg.Telemetry.Endpoint = strings.TrimSpace(cfg.Telemetry.Endpoint)
	cfg.Telemetry.Headers = strings.TrimSpace(cfg.Telemetry.Headers)
}

func (cfg *Config) validate() error {
	if cfg == nil {
		return fmt.Errorf("config: configuration is missing")
	}
	if _, err := cfg.FeeRouteConfig(); err != nil {
		return fmt.Errorf("config: fees: %w", err)
	}
	if _, err := cfg.InterestModel(); err != nil {
		return fmt.Errorf("config: interest: %w", err)
	}
	if _, err := cfg.ReserveFactor(); err != nil {
		return fmt.Errorf("config: interest: %w", err)
	}
	if err := cfg.Logging.validate(); err != nil {
		return fmt.Errorf("config: logging: %w", err)
	}
	if cfg.Metrics.Textfile != "" && !cfg.Metrics.Enabled {
		return fmt.Errorf("config: metrics: textfile requires enabled=true")
	}
	if _, err := cfg.OTel(); err != nil {
		return fmt.Errorf("config: telemetry: %w", err)
	}
	return nil
}

func (f *Fees) normalize() {
	f.Principal = strings.TrimSpace(f.Principal)
	f.YieldShare = strings.TrimSpace(f.YieldShare)
	f.Reference = strings.TrimSpace(f.Reference)
	if f.Principal == "" {
		f.Principal = defaultPrincipal
	}
	if f.YieldShare == "" {
		f.YieldShare = defaultYieldShare
	}
	if f.Reference == "" {
		f.Reference = defaultReference
	}
	if f.Default.IntegratorKey == "" {
		f.Default = fees.DefaultFeeQuote
	}
	if f.Waived.IntegratorKey == "" {
		f.Waived = fees.WaivedFeeQuote
	}
}

func (i *Interest) normalize() {
	defaults := lending.DefaultInterestModel
	fill := func(field *string, fallback numeric.Percentage) {
		*field = strings.TrimSpace(*field)
		if *field == "" {
			*field = fallback.String()
		}
	}
	fill(&i.BaseRate, defaults.BaseRate)
	fill(&i.Slope1, defaults.Slope1)
	fill(&i.Slope2, defaults.Slope2)
	fill(&i.Kink, defaults.Kink)
	fill(&i.ReserveFactor, numeric.MustPercentage("0.1"))
}

func (l *Logging) normalize() {
	l.Service = strings.TrimSpace(l.Service)
	if l.Service == "" {
		l.Service = defaultService
	}
	l.Env = strings.TrimSpace(l.Env)
	if l.Env == "" {
		l.Env = defaultEnv
	}
	l.Level = strings.ToLower(strings.TrimSpace(l.Level))
	if l.Level == "" {
		l.Level = defaultLevel
	}
	l.File = strings.TrimSpace(l.File)
}

func (l Logging) validate() error {
	if _, err := l.SlogLevel(); err != nil {
		return err
	}
	if l.MaxSizeMB < 0 || l.MaxBackups < 0 || l.MaxAgeDays < 0 {
		return fmt.Errorf("rotation limits must not be negative")
	}
	if l.File == "" && (l.MaxSizeMB > 0 || l.MaxBackups > 0 || l.MaxAgeDays > 0 || l.Compress) {
		return fmt.Errorf("rotation settings require file")
	}
	return nil
}

// SlogLevel maps the configured level name onto slog.
func (l Logging) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown level %q", l.Level)
	}
	return level, nil
}

// FeeRouteConfig parses the configured addresses into an evaluator config.
func (cfg *Config) FeeRouteConfig() (fees.RouteConfig, error) {
	principal, err := fees.ParseAddress(cfg.Fees.Principal)
	if err != nil {
		return fees.RouteConfig{}, fmt.Errorf("principal: %w", err)
	}
	share, err := fees.ParseAddress(cfg.Fees.YieldShare)
	if err != nil {
		return fees.RouteConfig{}, fmt.Errorf("yield share: %w", err)
	}
	reference, err := fees.ParseAddress(cfg.Fees.Reference)
	if err != nil {
		return fees.RouteConfig{}, fmt.Errorf("reference: %w", err)
	}
	route := fees.DefaultRouteConfig(principal, share, reference)
	route.Default = cfg.Fees.Default
	route.Waived = cfg.Fees.Waived
	if route.Waived.Fee.Cmp(route.Default.Fee) > 0 {
		return fees.RouteConfig{}, fmt.Errorf("waived fee %s exceeds default fee %s", route.Waived.Fee, route.Default.Fee)
	}
	if _, err := fees.NewEvaluator(route); err != nil {
		return fees.RouteConfig{}, err
	}
	return route, nil
}

// InterestModel parses the configured rate curve.
func (cfg *Config) InterestModel() (lending.InterestModel, error) {
	i := cfg.Interest
	return lending.NewInterestModel(i.BaseRate, i.Slope1, i.Slope2, i.Kink)
}

// ReserveFactor is the share of borrow interest withheld from suppliers.
func (cfg *Config) ReserveFactor() (numeric.Percentage, error) {
	p, err := numeric.ParsePercentage(cfg.Interest.ReserveFactor)
	if err != nil {
		return numeric.Percentage{}, err
	}
	if p.Cmp(numeric.MustPercentage("1")) > 0 {
		return numeric.Percentage{}, fmt.Errorf("reserve factor %s above 1", p)
	}
	return p, nil
}

// OTel builds the exporter settings, tagging them with the logging identity.
func (cfg *Config) OTel() (otel.Config, error) {
	headers, err := otel.ParseHeaders(cfg.Telemetry.Headers)
	if err != nil {
		return otel.Config{}, err
	}
	if (cfg.Telemetry.Traces || cfg.Telemetry.Metrics) && cfg.Telemetry.Endpoint == "" {
		return otel.Config{}, fmt.Errorf("endpoint required when exporters are enabled")
	}
	return otel.Config{
		ServiceName: cfg.Logging.Service,
		Environment: cfg.Logging.Env,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		Headers:     headers,
		Traces:      cfg.Telemetry.Traces,
		Metrics:     cfg.Telemetry.Metrics,
	}, nil
}
