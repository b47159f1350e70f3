package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"cpsatlas/internal/atlas"
	"cpsatlas/internal/community"
	"cpsatlas/internal/config"
	"cpsatlas/internal/exporter"
	"cpsatlas/internal/files"
	"cpsatlas/internal/infrastructure"
	"cpsatlas/internal/schools"
	"cpsatlas/pkg/contracts/domain"
)

// Stage names as they appear in logs, spans, and the run summary.
const (
	StageFetchPlaces         = "fetch_places"
	StageFetchIndicators     = "fetch_indicators"
	StageLoadHardship        = "load_hardship"
	StageAssembleCommunity   = "assemble_community"
	StageAggregateCounselors = "aggregate_counselors"
	StageCleanProfiles       = "clean_profiles"
	StageAttachLocations     = "attach_locations"
	StageExport              = "export"
)

// StageSummary records the outcome of one completed stage.
type StageSummary struct {
	Name            string  `json:"name"`
	Rows            int     `json:"rows"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Summary describes a completed pipeline run. Run returns it to the
// caller and writes it to run_summary.json next to the exported tables.
type Summary struct {
	RunID      string         `json:"run_id"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	SkipFetch  bool           `json:"skip_fetch"`
	Stages     []StageSummary `json:"stages"`
	Tables     map[string]int `json:"tables"`
}

func (s *Summary) addStage(name string, rows int, d time.Duration) {
	s.Stages = append(s.Stages, StageSummary{
		Name:            name,
		Rows:            rows,
		DurationSeconds: d.Seconds(),
	})
}

// RunOptions adjusts a single run without touching persisted configuration.
type RunOptions struct {
	// SkipFetch disables the atlas phase. The community table is built
	// entirely from remote data, so it is not produced; the two school
	// tables still are.
	SkipFetch bool
}

// Runner executes the pipeline stages strictly sequentially, each inside
// a span with a stage-scoped logger. The first stage error aborts the
// run; export runs last so the output tables are written all-or-nothing.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger
	tracer trace.Tracer
	opts   RunOptions
}

// NewRunner creates a runner for the given configuration.
func NewRunner(cfg *config.Config, logger *slog.Logger, opts RunOptions) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:    cfg,
		logger: logger,
		tracer: otel.Tracer(infrastructure.TracerName),
		opts:   opts,
	}
}

// Run executes the full pipeline: fetch places, fetch indicators, load
// hardship, assemble the community table, aggregate counselors, clean
// profiles, attach locations, export. Each run gets a fresh run id that
// is stamped on every log record.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	runID := infrastructure.GenerateTraceID()
	ctx = infrastructure.WithTraceID(ctx, runID)
	logger := r.logger.With(slog.String("run_id", runID))

	summary := &Summary{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		SkipFetch: r.opts.SkipFetch,
		Tables:    make(map[string]int),
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Bool("run.skip_fetch", r.opts.SkipFetch),
		))
	defer span.End()

	logger.InfoContext(ctx, "pipeline run started",
		slog.String("inputs_dir", r.cfg.Inputs.Dir),
		slog.String("output_dir", r.cfg.Output.Dir),
		slog.Bool("skip_fetch", r.opts.SkipFetch))

	var (
		communityRows []domain.CommunityRow
		counselors    []domain.CounselorSummary
		profiles      []domain.SchoolProfileRow
	)

	if !r.opts.SkipFetch {
		client := atlas.NewClient(r.cfg.API.BaseURL, r.cfg.API.Timeout,
			infrastructure.WithComponent(logger, "atlas"))

		var (
			areas      []domain.CommunityArea
			indicators domain.IndicatorTable
			hardship   []domain.HardshipRow
		)

		err := r.runStage(ctx, summary, logger, StageFetchPlaces, func(ctx context.Context) (int, error) {
			var err error
			areas, err = client.Places(ctx)
			return len(areas), err
		})
		if err != nil {
			return nil, err
		}

		err = r.runStage(ctx, summary, logger, StageFetchIndicators, func(ctx context.Context) (int, error) {
			var err error
			indicators, err = community.FetchIndicators(ctx, client, areas, logger)
			return len(indicators), err
		})
		if err != nil {
			return nil, err
		}

		err = r.runStage(ctx, summary, logger, StageLoadHardship, func(ctx context.Context) (int, error) {
			path, err := files.Resolve(r.cfg.Inputs.HardshipFile, r.cfg.Inputs.Dir, config.HardshipFilePattern)
			if err != nil {
				return 0, err
			}
			hardship, err = community.LoadHardship(path)
			return len(hardship), err
		})
		if err != nil {
			return nil, err
		}

		err = r.runStage(ctx, summary, logger, StageAssembleCommunity, func(ctx context.Context) (int, error) {
			communityRows = community.Assemble(areas, indicators, hardship)
			return len(communityRows), nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		logger.InfoContext(ctx, "remote fetch disabled, skipping community stages")
	}

	err := r.runStage(ctx, summary, logger, StageAggregateCounselors, func(ctx context.Context) (int, error) {
		path, err := files.Resolve(r.cfg.Inputs.PayrollFile, r.cfg.Inputs.Dir, config.PayrollFilePattern)
		if err != nil {
			return 0, err
		}
		payroll, err := schools.LoadPayroll(path)
		if err != nil {
			return 0, err
		}
		counselors = schools.AggregateCounselors(payroll)
		return len(counselors), nil
	})
	if err != nil {
		return nil, err
	}

	err = r.runStage(ctx, summary, logger, StageCleanProfiles, func(ctx context.Context) (int, error) {
		path, err := files.Resolve(r.cfg.Inputs.ProfilesFile, r.cfg.Inputs.Dir, config.ProfilesFilePattern)
		if err != nil {
			return 0, err
		}
		profiles, err = schools.CleanProfiles(path)
		return len(profiles), err
	})
	if err != nil {
		return nil, err
	}

	err = r.runStage(ctx, summary, logger, StageAttachLocations, func(ctx context.Context) (int, error) {
		path, err := files.Resolve(r.cfg.Inputs.LocationsFile, r.cfg.Inputs.Dir, config.LocationsFilePattern)
		if err != nil {
			return 0, err
		}
		locations, err := schools.LoadLocations(path)
		if err != nil {
			return 0, err
		}
		profiles = schools.AttachLocations(profiles, locations)

		matched := 0
		for i := range profiles {
			if profiles[i].Location != nil {
				matched++
			}
		}
		return matched, nil
	})
	if err != nil {
		return nil, err
	}

	err = r.runStage(ctx, summary, logger, StageExport, func(ctx context.Context) (int, error) {
		exp := exporter.NewTableExporter(r.cfg.Output.Dir, r.cfg.Output.IncludeBOM)

		total := 0
		if !r.opts.SkipFetch {
			if err := exp.ExportCommunity(communityRows); err != nil {
				return total, err
			}
			summary.Tables[config.CommunityCSVName] = len(communityRows)
			total += len(communityRows)
		}

		if err := exp.ExportCounselors(counselors); err != nil {
			return total, err
		}
		summary.Tables[config.CounselorsCSVName] = len(counselors)
		total += len(counselors)

		if err := exp.ExportProfiles(profiles); err != nil {
			return total, err
		}
		summary.Tables[config.ProfilesCSVName] = len(profiles)
		total += len(profiles)

		return total, nil
	})
	if err != nil {
		return nil, err
	}

	summary.FinishedAt = time.Now().UTC()

	summaryPath := filepath.Join(r.cfg.Output.Dir, config.SummaryJSONName)
	if err := exporter.WriteJSON(summaryPath, summary); err != nil {
		return nil, fmt.Errorf("failed to write run summary: %w", err)
	}

	duration := summary.FinishedAt.Sub(summary.StartedAt)
	span.SetAttributes(attribute.Float64("run.duration_seconds", duration.Seconds()))
	span.SetStatus(codes.Ok, "")

	logger.InfoContext(ctx, "pipeline run completed",
		slog.Duration("duration", duration),
		slog.Int("stages", len(summary.Stages)))

	return summary, nil
}

// runStage executes one stage inside a span, recording its row count and
// duration in the summary on success. A stage error aborts the run with
// the stage name wrapped in.
func (r *Runner) runStage(ctx context.Context, summary *Summary, logger *slog.Logger, name string, fn func(context.Context) (int, error)) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("stage %s: %w", name, err)
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.stage."+name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.String("stage.name", name)))
	defer span.End()

	stageLogger := logger.With(slog.String("stage", name))
	stageLogger.InfoContext(ctx, "stage started")

	start := time.Now()
	rows, err := fn(ctx)
	duration := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		infrastructure.WithError(stageLogger, err).ErrorContext(ctx, "stage failed",
			slog.Duration("duration", duration))
		return fmt.Errorf("stage %s: %w", name, err)
	}

	span.SetAttributes(
		attribute.Int("stage.rows", rows),
		attribute.Float64("stage.duration_seconds", duration.Seconds()))
	span.SetStatus(codes.Ok, "")

	summary.addStage(name, rows, duration)
	stageLogger.InfoContext(ctx, "stage completed",
		slog.Int("rows", rows),
		slog.Duration("duration", duration))

	return nil
}
