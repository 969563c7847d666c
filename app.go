package main

import (
	"context"
	"fmt"
	"log/slog"

	"paddytrack/analytics"
	"paddytrack/source"
)

type baselineLoader interface {
	LoadBaselines(ctx context.Context) (analytics.StaticBaselines, error)
}

type App struct {
	cfg       Config
	log       *slog.Logger
	samples   source.SampleSource
	regions   source.RegionStore
	baselines baselineLoader // nil: static defaults only
	close     func(ctx context.Context) error
}

func newApp(ctx context.Context, cfg Config, log *slog.Logger) (*App, error) {
	app := &App{
		cfg:     cfg,
		log:     log,
		regions: source.DefaultRegions,
		close:   func(context.Context) error { return nil },
	}

	switch cfg.SampleSource {
	case "mongo":
		m, err := source.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return nil, err
		}
		app.samples = m
		app.regions = source.Layered{m, source.DefaultRegions}
		app.baselines = m
		app.close = m.Close
	case "processor":
		app.samples = source.NewProcessor(cfg.ProcessorURI)
	case "csv":
		app.samples = source.CSVFile{Path: cfg.SamplesCSV}
	default:
		return nil, fmt.Errorf("unknown sample source %q", cfg.SampleSource)
	}

	log.Info("sample source ready", "source", cfg.SampleSource, "bucket", cfg.Bucket.String(), "crop", cfg.CropCategory)
	return app, nil
}

// baselineTable returns the request's snapshot of historical yields.
func (a *App) baselineTable(ctx context.Context) (analytics.BaselineTable, error) {
	if a.baselines == nil {
		return source.DefaultBaselines, nil
	}
	stored, err := a.baselines.LoadBaselines(ctx)
	if err != nil {
		return nil, err
	}
	return source.MergeBaselines(source.DefaultBaselines, stored), nil
}
