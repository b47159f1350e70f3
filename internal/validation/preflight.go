// Package validation checks a run's inputs and output destination
// before any stage work starts, so a missing file fails the run
// immediately instead of after the remote fetch.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cpsatlas/internal/config"
	"cpsatlas/internal/errors"
	"cpsatlas/internal/files"
)

// Preflight validates the file-level prerequisites of a pipeline run.
type Preflight struct {
	logger *slog.Logger
}

// NewPreflight creates a preflight checker.
func NewPreflight(logger *slog.Logger) *Preflight {
	if logger == nil {
		logger = slog.Default()
	}
	return &Preflight{logger: logger}
}

// CheckConfig resolves every input file the run will need and verifies
// the output directory is writable. With skipFetch the hardship file is
// not required, since the community table is not produced.
func (p *Preflight) CheckConfig(cfg *config.Config, skipFetch bool) error {
	type input struct {
		name     string
		explicit string
		pattern  string
	}

	inputs := []input{
		{"payroll", cfg.Inputs.PayrollFile, config.PayrollFilePattern},
		{"profiles", cfg.Inputs.ProfilesFile, config.ProfilesFilePattern},
		{"locations", cfg.Inputs.LocationsFile, config.LocationsFilePattern},
	}
	if !skipFetch {
		inputs = append(inputs, input{"hardship", cfg.Inputs.HardshipFile, config.HardshipFilePattern})
	}

	for _, in := range inputs {
		path, err := files.Resolve(in.explicit, cfg.Inputs.Dir, in.pattern)
		if err != nil {
			p.logger.Error("Input file missing",
				slog.String("input", in.name),
				slog.String("dir", cfg.Inputs.Dir),
				slog.String("error", err.Error()))
			return fmt.Errorf("%s input: %w", in.name, err)
		}
		p.logger.Debug("Input file resolved",
			slog.String("input", in.name),
			slog.String("path", path))
	}

	if err := p.checkWritable(cfg.Output.Dir); err != nil {
		return err
	}

	p.logger.Info("Preflight checks passed",
		slog.String("inputs_dir", cfg.Inputs.Dir),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Bool("skip_fetch", skipFetch))
	return nil
}

// checkWritable ensures the output directory exists and accepts writes,
// probing with a throwaway file.
func (p *Preflight) checkWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to create output directory %s", dir), err)
	}

	probe := filepath.Join(dir, ".write_test")
	file, err := os.Create(probe)
	if err != nil {
		return errors.NewIOError(fmt.Sprintf("output directory %s is not writable", dir), err)
	}
	file.Close()
	os.Remove(probe)

	return nil
}
