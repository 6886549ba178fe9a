// Package cleanse implements the data-cleaning pipeline: column
// classification, conjunctive row filtering, per-column outlier handling,
// and optional normalization. The pipeline is a pure function over an
// in-memory table; independent runs are safe from separate goroutines.
package cleanse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tsclean/internal/dataset"
)

// Pipeline runs the cleaning stages in a fixed order:
// classify -> filter -> outliers -> normalize. It holds no per-run state.
type Pipeline struct {
	logger *slog.Logger
}

// New creates a pipeline. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger.With(slog.String("component", "cleanse_pipeline"))}
}

// Run executes the pipeline over the input table and returns the cleaned
// table plus a summary of what changed. The input table is never mutated.
//
// Malformed conditions (unknown column, invalid operand) abort the run
// before any stage touches data, so a ConditionError is never paired with a
// partially processed table. Every other edge case — zero variance, too few
// samples, empty tables, zero surviving rows — is handled by per-column skip
// policies and produces a successful run.
func (p *Pipeline) Run(ctx context.Context, t *dataset.Table, opts Options) (*dataset.Table, *RunSummary, error) {
	start := time.Now()
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}
	if err := ValidateConditions(t, opts.Conditions); err != nil {
		return nil, nil, err
	}

	summary := &RunSummary{
		RunID:               uuid.New().String(),
		RowsIn:              t.RowCount(),
		OutlierMethod:       opts.Outlier,
		OutlierDisposition:  opts.Disposition,
		NormalizationMethod: opts.Normalization,
	}
	logger := p.logger.With(slog.String("run_id", summary.RunID))
	logger.InfoContext(ctx, "starting cleanse run",
		slog.Int("rows", t.RowCount()),
		slog.Int("columns", len(t.Columns)),
		slog.Int("conditions", len(opts.Conditions)),
		slog.String("outlier_method", string(opts.Outlier)),
		slog.String("disposition", string(opts.Disposition)),
		slog.String("normalization", string(opts.Normalization)))

	// Classification is fixed for the whole run; later stages never
	// re-derive it even after cells are blanked or rows dropped.
	summary.Classification = Classify(t)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	filtered, removed, err := Filter(t, opts.Conditions)
	if err != nil {
		return nil, nil, err
	}
	summary.FilterRowsRemoved = removed
	logger.DebugContext(ctx, "filter stage complete",
		slog.Int("rows_removed", removed),
		slog.Int("rows_remaining", filtered.RowCount()))

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	handled, outliers, err := HandleOutliers(filtered, summary.Classification, opts.Outlier, opts.Disposition)
	if err != nil {
		return nil, nil, fmt.Errorf("outlier stage: %w", err)
	}
	summary.Outliers = outliers

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	normalized, norm, err := Normalize(handled, summary.Classification, opts.Normalization)
	if err != nil {
		return nil, nil, fmt.Errorf("normalization stage: %w", err)
	}
	summary.Normalization = norm

	summary.RowsOut = normalized.RowCount()
	summary.Duration = time.Since(start)
	logger.InfoContext(ctx, "cleanse run complete",
		slog.Int("rows_out", summary.RowsOut),
		slog.Int("rows_dropped", summary.Outliers.RowsDropped),
		slog.Duration("duration", summary.Duration))
	return normalized, summary, nil
}
