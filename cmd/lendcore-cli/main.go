package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"lendcore/config"
	"lendcore/observability/logging"
	"lendcore/observability/metrics"
	"lendcore/observability/otel"
	"lendcore/services/calculator"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// cli carries what every subcommand needs.
type cli struct {
	svc    *calculator.Service
	out    outputFormat
	stdout io.Writer
	stderr io.Writer
}

func usage() string {
	buf := &bytes.Buffer{}
	fmt.Fprintln(buf, "Usage: lendcore-cli [--config path] [--format auto|json|text] <command> [args]")
	fmt.Fprintln(buf, "Commands:")
	fmt.Fprintln(buf, "  borrow     Borrow capacity, validation, health factor and reserve rates")
	fmt.Fprintln(buf, "  supply     Supply and withdraw capacity and validation")
	fmt.Fprintln(buf, "  savings    Convert between savings shares and principal")
	fmt.Fprintln(buf, "  route      Quote the protocol fee for a swap route")
	fmt.Fprintln(buf, "  issues     List validation issues and their messages")
	return buf.String()
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lendcore-cli", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage()) }
	configPath := fs.String("config", "", "path to a TOML or YAML config file")
	formatName := fs.String("format", "auto", "output format: auto, json or text")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	rest := fs.Args()
	if len(rest) == 0 {
		fmt.Fprint(stderr, usage())
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	out, err := resolveFormat(*formatName, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, closer, err := setupLogging(cfg, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer closer.Close()

	ctx := context.Background()
	otelCfg, err := cfg.OTel()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	shutdown, err := otel.Init(ctx, otelCfg)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := shutdown(flushCtx); err != nil {
			logger.Warn("telemetry flush failed", slog.String("error", err.Error()))
		}
	}()
	if otelCfg.Enabled() {
		logger.Debug("telemetry enabled",
			slog.String("endpoint", otelCfg.Endpoint),
			logging.MaskField("otlp_headers", cfg.Telemetry.Headers),
		)
	}

	var registry *prometheus.Registry
	if cfg.Metrics.Enabled {
		registry = prometheus.NewRegistry()
	}
	var reg prometheus.Registerer
	if registry != nil {
		reg = registry
	}
	svc, err := calculator.New(cfg,
		calculator.WithLogger(logger),
		calculator.WithMetrics(metrics.NewCalculatorMetrics(reg)),
	)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	c := &cli{svc: svc, out: out, stdout: stdout, stderr: stderr}
	code := c.dispatch(rest)

	if registry != nil && cfg.Metrics.Textfile != "" {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile, registry); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			if code == 0 {
				code = 1
			}
		}
	}
	return code
}

func (c *cli) dispatch(args []string) int {
	switch strings.ToLower(args[0]) {
	case "borrow":
		return c.runBorrowCommand(args[1:])
	case "supply":
		return c.runSupplyCommand(args[1:])
	case "savings":
		return c.runSavingsCommand(args[1:])
	case "route":
		return c.runRouteCommand(args[1:])
	case "issues":
		return c.runIssuesCommand(args[1:])
	case "help":
		fmt.Fprint(c.stdout, usage())
		return 0
	default:
		fmt.Fprintf(c.stderr, "Unknown command %q\n", args[0])
		fmt.Fprint(c.stderr, usage())
		return 1
	}
}

func loadConfig(path string) (*config.Config, error) {
	if strings.TrimSpace(path) == "" {
		if env := strings.TrimSpace(os.Getenv("LENDCORE_CONFIG")); env != "" {
			path = env
		}
	}
	if strings.TrimSpace(path) == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func setupLogging(cfg *config.Config, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	logger, closer := logging.Setup(cfg.Logging.Service, cfg.Logging.Env,
		logging.WithWriter(stderr),
		logging.WithLevel(level),
		logging.WithFile(logging.FileRotation{
			Path:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
			Compress:   cfg.Logging.Compress,
		}),
	)
	return logger, closer, nil
}
