// Package services wires the cleaning pipeline to file I/O and presets for
// the HTTP and CLI surfaces.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tsclean/internal/cleanse"
	"tsclean/internal/dataset"
	"tsclean/internal/exporter"
	"tsclean/internal/loader"
	"tsclean/internal/timealign"
)

// CleanseRequest describes one end-to-end cleaning job.
type CleanseRequest struct {
	InputPath  string
	OutputPath string // empty: derived from InputPath
	Options    cleanse.Options

	// Date-column handling. SnapTimestamps and Realign are mutually
	// exclusive; Realign wins when both are set.
	SnapTimestamps bool
	SnapInterval   time.Duration
	RealignStart   *time.Time
	RealignInterval time.Duration

	BOMPrefix bool
}

// CleanseResult reports the outcome of a job.
type CleanseResult struct {
	Summary       *cleanse.RunSummary `json:"summary"`
	OutputPath    string              `json:"output_path"`
	DateColumn    string              `json:"date_column,omitempty"`
	SnapCorrected int                 `json:"snap_corrected,omitempty"`
}

// ColumnInfo describes one column of an inspected file.
type ColumnInfo struct {
	Name  string               `json:"name"`
	Kind  cleanse.ColumnKind   `json:"kind"`
	Stats *cleanse.ColumnStats `json:"stats,omitempty"`
}

// CleanseService runs cleaning jobs: load, optional time alignment,
// pipeline, export.
type CleanseService struct {
	pipeline *cleanse.Pipeline
	logger   *slog.Logger
	metrics  *Metrics
	now      func() time.Time
}

// NewCleanseService creates a cleanse service. metrics may be nil.
func NewCleanseService(logger *slog.Logger, metrics *Metrics) *CleanseService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CleanseService{
		pipeline: cleanse.New(logger),
		logger:   logger.With(slog.String("component", "cleanse_service")),
		metrics:  metrics,
		now:      time.Now,
	}
}

// Run executes one cleaning job and writes the cleaned table to disk.
func (s *CleanseService) Run(ctx context.Context, req CleanseRequest) (*CleanseResult, error) {
	start := time.Now()
	table, err := loader.Load(req.InputPath)
	if err != nil {
		s.observe("load_error", start)
		return nil, fmt.Errorf("loading input: %w", err)
	}

	result := &CleanseResult{}
	table, result.DateColumn, result.SnapCorrected, err = s.alignTimestamps(ctx, table, req)
	if err != nil {
		s.observe("align_error", start)
		return nil, err
	}

	cleaned, summary, err := s.pipeline.Run(ctx, table, req.Options)
	if err != nil {
		s.observe("pipeline_error", start)
		return nil, err
	}
	result.Summary = summary

	result.OutputPath = req.OutputPath
	if result.OutputPath == "" {
		result.OutputPath = exporter.DefaultOutputPath(req.InputPath, s.now())
	}
	if err := exporter.Write(cleaned, result.OutputPath, exporter.WriteOptions{BOMPrefix: req.BOMPrefix}); err != nil {
		s.observe("export_error", start)
		return nil, fmt.Errorf("writing output: %w", err)
	}

	s.observe("success", start)
	if s.metrics != nil {
		s.metrics.RowsRemoved.Add(float64(summary.FilterRowsRemoved + summary.Outliers.RowsDropped))
	}
	return result, nil
}

// alignTimestamps applies realignment or snapping to the detected date
// column. Tables without a date column pass through untouched.
func (s *CleanseService) alignTimestamps(ctx context.Context, table *dataset.Table, req CleanseRequest) (*dataset.Table, string, int, error) {
	if !req.SnapTimestamps && req.RealignStart == nil {
		return table, "", 0, nil
	}
	dateCol, found := timealign.DetectDateColumn(table)
	if !found {
		s.logger.WarnContext(ctx, "no date column detected, skipping time alignment")
		return table, "", 0, nil
	}

	if req.RealignStart != nil {
		interval := req.RealignInterval
		if interval <= 0 {
			interval = timealign.DefaultInterval
		}
		aligned, err := timealign.Realign(table, dateCol, *req.RealignStart, interval)
		if err != nil {
			return nil, "", 0, fmt.Errorf("realigning timestamps: %w", err)
		}
		return aligned, dateCol, 0, nil
	}

	interval := req.SnapInterval
	if interval <= 0 {
		interval = timealign.DefaultInterval
	}
	snapped, corrected, err := timealign.Snap(table, dateCol, interval)
	if err != nil {
		return nil, "", 0, fmt.Errorf("snapping timestamps: %w", err)
	}
	s.logger.InfoContext(ctx, "snapped timestamps",
		slog.String("column", dateCol),
		slog.Int("corrected", corrected))
	return snapped, dateCol, corrected, nil
}

// Inspect loads a file and reports per-column classification and statistics
// so a caller can build filter conditions against real column names.
func (s *CleanseService) Inspect(ctx context.Context, path string) ([]ColumnInfo, error) {
	table, err := loader.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}

	class := cleanse.Classify(table)
	infos := make([]ColumnInfo, 0, len(table.Columns))
	for _, col := range table.Columns {
		info := ColumnInfo{Name: col.Name, Kind: class[col.Name]}
		if info.Kind == cleanse.Numeric {
			stats := cleanse.Stats(col.NonMissing())
			info.Stats = &stats
		}
		infos = append(infos, info)
	}
	s.logger.DebugContext(ctx, "inspected file",
		slog.String("path", path),
		slog.Int("columns", len(infos)),
		slog.Int("rows", table.RowCount()))
	return infos, nil
}

func (s *CleanseService) observe(outcome string, start time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RunsTotal.WithLabelValues(outcome).Inc()
	s.metrics.RunDuration.Observe(time.Since(start).Seconds())
}
