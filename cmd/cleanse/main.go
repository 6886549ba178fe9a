// Command cleanse runs the sensor-data cleaning pipeline from the command
// line: load a CSV or Excel file, filter rows, handle outliers, normalize,
// and write the cleaned copy next to the input.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"tsclean/internal/cleanse"
	"tsclean/internal/config"
	"tsclean/internal/exporter"
	"tsclean/internal/infrastructure"
	"tsclean/internal/preset"
	"tsclean/internal/sample"
	"tsclean/internal/services"
	"tsclean/internal/timealign"
)

// filterFlags collects repeated -filter values.
type filterFlags []string

func (f *filterFlags) String() string { return fmt.Sprint(*f) }

func (f *filterFlags) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func main() {
	var filters filterFlags

	in := flag.String("in", "", "input file (.csv, .xlsx, .xls)")
	out := flag.String("out", "", "output file (default: <input>_processed_<timestamp>)")
	flag.Var(&filters, "filter", "row condition, e.g. 'TEMP >= 15' or 'TEMP range 30 60' (repeatable)")
	method := flag.String("method", "", "outlier method: 2sigma, 2.5sigma, 3sigma, iqr")
	action := flag.String("action", "", "outlier disposition: nan, drop")
	normalize := flag.String("normalize", "", "normalization: none, zscore, minmax")
	snap := flag.Bool("snap", false, "snap timestamps to the nearest interval")
	snapInterval := flag.Duration("snap-interval", 0, "snap interval (default from config)")
	realignStart := flag.String("realign-start", "", "rebuild timestamps from this start, format '2006-01-02 15:04:05'")
	realignInterval := flag.Duration("realign-interval", timealign.DefaultInterval, "interval between rebuilt timestamps")
	bom := flag.Bool("bom", false, "write a UTF-8 BOM to CSV output")

	presetName := flag.String("preset", "", "load settings from a saved preset (name or path)")
	savePreset := flag.String("save-preset", "", "save the effective settings under this preset name")
	presetDesc := flag.String("preset-desc", "", "description for -save-preset")
	listPresets := flag.Bool("list-presets", false, "list saved presets and exit")
	deletePreset := flag.String("delete-preset", "", "delete a saved preset and exit")

	sampleRows := flag.Int("sample", 0, "generate a synthetic sample file with this many rows and exit")
	sampleSeed := flag.Int64("seed", 42, "random seed for -sample")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logging", "error", err)
		os.Exit(1)
	}

	store, err := preset.NewStore(cfg.Paths.PresetsDir)
	if err != nil {
		logger.Error("Failed to open preset store", "error", err)
		os.Exit(1)
	}
	presets := services.NewPresetService(store, logger)
	ctx := context.Background()

	switch {
	case *listPresets:
		runListPresets(ctx, presets)
		return
	case *deletePreset != "":
		if err := presets.Delete(ctx, *deletePreset); err != nil {
			logger.Error("Failed to delete preset", "name", *deletePreset, "error", err)
			os.Exit(1)
		}
		fmt.Printf("deleted preset %q\n", *deletePreset)
		return
	case *sampleRows > 0:
		runSample(*sampleRows, *sampleSeed, *out, logger)
		return
	}

	if *in == "" {
		fmt.Fprintln(os.Stderr, "missing -in: nothing to clean")
		flag.Usage()
		os.Exit(2)
	}

	opts, err := buildOptions(ctx, presets, cfg.Pipeline, *presetName, filters, *method, *action, *normalize)
	if err != nil {
		logger.Error("Invalid settings", "error", err)
		os.Exit(1)
	}

	if *savePreset != "" {
		if err := presets.Save(ctx, *savePreset, *presetDesc, opts); err != nil {
			logger.Error("Failed to save preset", "name", *savePreset, "error", err)
			os.Exit(1)
		}
		fmt.Printf("saved preset %q\n", *savePreset)
	}

	req := services.CleanseRequest{
		InputPath:       *in,
		OutputPath:      *out,
		Options:         opts,
		SnapTimestamps:  *snap,
		SnapInterval:    *snapInterval,
		RealignInterval: *realignInterval,
		BOMPrefix:       *bom,
	}
	if req.SnapInterval == 0 {
		req.SnapInterval = cfg.Pipeline.SnapInterval
	}
	if *realignStart != "" {
		ts, err := time.Parse("2006-01-02 15:04:05", *realignStart)
		if err != nil {
			logger.Error("Invalid -realign-start", "error", err)
			os.Exit(1)
		}
		req.RealignStart = &ts
	}

	service := services.NewCleanseService(logger, nil)
	result, err := service.Run(ctx, req)
	if err != nil {
		if cleanse.IsUserInputError(err) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		logger.Error("Cleaning run failed", "error", err)
		os.Exit(1)
	}

	fmt.Print(result.Summary.String())
	if result.DateColumn != "" {
		fmt.Printf("date column: %s", result.DateColumn)
		if result.SnapCorrected > 0 {
			fmt.Printf(" (%d timestamps corrected)", result.SnapCorrected)
		}
		fmt.Println()
	}
	fmt.Printf("written: %s\n", result.OutputPath)
}

// buildOptions layers the effective settings: configured defaults, then the
// preset if one was named, then explicit flags on top.
func buildOptions(ctx context.Context, presets *services.PresetService, defaults config.PipelineConfig, presetName string, filters filterFlags, method, action, normalize string) (cleanse.Options, error) {
	opts := defaults.DefaultOptions()
	if presetName != "" {
		p, err := presets.Load(ctx, presetName)
		if err != nil {
			return cleanse.Options{}, fmt.Errorf("loading preset %q: %w", presetName, err)
		}
		opts = p.Settings
	}

	if len(filters) > 0 {
		opts.Conditions = nil
		for _, raw := range filters {
			cond, err := cleanse.ParseCondition(raw)
			if err != nil {
				return cleanse.Options{}, err
			}
			opts.Conditions = append(opts.Conditions, cond)
		}
	}
	if method != "" {
		opts.Outlier = cleanse.OutlierMethod(method)
	}
	if action != "" {
		opts.Disposition = cleanse.Disposition(action)
	}
	if normalize != "" {
		opts.Normalization = cleanse.NormalizationMethod(normalize)
	}
	return opts, opts.Validate()
}

func runListPresets(ctx context.Context, presets *services.PresetService) {
	list, err := presets.List(ctx)
	if err != nil {
		slog.Error("Failed to list presets", "error", err)
		os.Exit(1)
	}
	if len(list) == 0 {
		fmt.Println("no presets saved")
		return
	}
	for _, p := range list {
		fmt.Printf("%-20s %s\n", p.Name, p.Description)
	}
}

func runSample(rows int, seed int64, out string, logger *slog.Logger) {
	table, err := sample.Generate(rows, seed)
	if err != nil {
		logger.Error("Failed to generate sample", "error", err)
		os.Exit(1)
	}
	if out == "" {
		out = "sample_data.csv"
	}
	if err := exporter.Write(table, out, exporter.WriteOptions{}); err != nil {
		logger.Error("Failed to write sample", "path", out, "error", err)
		os.Exit(1)
	}
	fmt.Printf("sample written: %s (%d rows)\n", out, rows)
}
