package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"cpsatlas/internal/config"
	"cpsatlas/internal/infrastructure"
	"cpsatlas/internal/pipeline"
	"cpsatlas/internal/validation"
	"cpsatlas/pkg/contracts"
)

// cliOptions holds the parsed command line flags.
type cliOptions struct {
	configPath string
	inputsDir  string
	outputDir  string
	hardship   string
	payroll    string
	profiles   string
	locations  string
	baseURL    string
	logLevel   string
	skipFetch  bool
	version    bool
}

func parseFlags(name string, args []string) (*cliOptions, error) {
	opts := &cliOptions{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "path to config.yaml (defaults to the standard search locations)")
	fs.StringVar(&opts.inputsDir, "inputs-dir", "", "directory holding the input files (defaults to data/inputs relative to the executable)")
	fs.StringVar(&opts.outputDir, "out", "", "directory for the exported tables (defaults to data/outputs relative to the executable)")
	fs.StringVar(&opts.hardship, "hardship", "", "hardship index file (discovered from the inputs directory when unset)")
	fs.StringVar(&opts.payroll, "payroll", "", "employee position file (discovered from the inputs directory when unset)")
	fs.StringVar(&opts.profiles, "profiles", "", "school profile file (discovered from the inputs directory when unset)")
	fs.StringVar(&opts.locations, "locations", "", "school locations GeoJSON file (discovered from the inputs directory when unset)")
	fs.StringVar(&opts.baseURL, "base-url", "", "health atlas API base URL")
	fs.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&opts.skipFetch, "skip-fetch", false, "skip the atlas fetch; the community table is not produced")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

// applyFlags overrides loaded configuration with explicitly set flags.
// Flags outrank both environment variables and the config file.
func applyFlags(cfg *config.Config, opts *cliOptions) {
	if opts.inputsDir != "" {
		cfg.Inputs.Dir = opts.inputsDir
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.hardship != "" {
		cfg.Inputs.HardshipFile = opts.hardship
	}
	if opts.payroll != "" {
		cfg.Inputs.PayrollFile = opts.payroll
	}
	if opts.profiles != "" {
		cfg.Inputs.ProfilesFile = opts.profiles
	}
	if opts.locations != "" {
		cfg.Inputs.LocationsFile = opts.locations
	}
	if opts.baseURL != "" {
		cfg.API.BaseURL = opts.baseURL
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
}

func main() {
	opts, err := parseFlags(config.AppName, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if opts.version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.LoadFrom(opts.configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	applyFlags(cfg, opts)

	// Flags bypass Load's validation, so validate again
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
	}
	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	logger.Info("Starting pipeline",
		slog.String("version", config.AppVersion),
		slog.String("inputs_dir", cfg.Inputs.Dir),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Bool("skip_fetch", opts.skipFetch))

	// Fail on missing inputs now, not after the remote fetch
	preflight := validation.NewPreflight(logger)
	if err := preflight.CheckConfig(cfg, opts.skipFetch); err != nil {
		infrastructure.WithError(logger, err).Error("Preflight check failed")
		os.Exit(1)
	}

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		infrastructure.WithError(logger, err).Warn("Failed to initialize tracing")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := pipeline.NewRunner(cfg, logger, pipeline.RunOptions{SkipFetch: opts.skipFetch})
	summary, err := runner.Run(ctx)

	if providers != nil {
		if shutdownErr := providers.Shutdown(context.Background()); shutdownErr != nil {
			infrastructure.WithError(logger, shutdownErr).Warn("Tracing shutdown failed")
		}
	}

	if err != nil {
		infrastructure.WithError(logger, err).Error("Pipeline run failed")
		os.Exit(1)
	}

	logger.Info("Pipeline run complete",
		slog.String("run_id", summary.RunID),
		slog.Int("stages", len(summary.Stages)),
		slog.Any("tables", summary.Tables))
}
