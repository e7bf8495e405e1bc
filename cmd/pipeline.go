package cmd

import (
	"context"
	"fmt"

	"temperature-consumer/core/config"
	"temperature-consumer/core/logger"
	"temperature-consumer/core/metrics"
	"temperature-consumer/core/reconcile"
	"temperature-consumer/core/storage"
	"temperature-consumer/core/workerpool"
	"temperature-consumer/feature/export"
	"temperature-consumer/feature/temperature"

	"go.uber.org/zap"
)

// pipeline is the processing chain shared by every command:
// payload -> dispatcher -> worker pool -> store -> observer.
type pipeline struct {
	cfg        *config.Config
	logger     *zap.Logger
	metrics    *metrics.Metrics
	store      *reconcile.Store
	pool       *workerpool.Pool
	dispatcher *temperature.Dispatcher
}

func newPipeline() (*pipeline, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	zap.ReplaceGlobals(logg)

	m := metrics.New()
	store := reconcile.NewStore(temperature.NewObserver(logg, m))

	pool, err := workerpool.New(cfg.Consumer, logg, func(any) { m.IncFailed() })
	if err != nil {
		return nil, fmt.Errorf("failed to start worker pool: %w", err)
	}

	return &pipeline{
		cfg:        cfg,
		logger:     logg,
		metrics:    m,
		store:      store,
		pool:       pool,
		dispatcher: temperature.NewDispatcher(store, pool, m, logg),
	}, nil
}

// drain stops the worker pool, waits for every queued payload to be merged,
// and then exports the store once if exp is not nil.
func (p *pipeline) drain(ctx context.Context, exp *export.Exporter) error {
	p.pool.Close()
	if exp == nil {
		return nil
	}
	if _, err := exp.Export(ctx); err != nil {
		return fmt.Errorf("final snapshot export failed: %w", err)
	}
	return nil
}

func (p *pipeline) exporter() (*export.Exporter, error) {
	client, err := storage.NewClient(p.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return export.NewExporter(client, p.cfg.Storage.Bucket, p.cfg.Storage.Region, p.cfg.Export.Object, p.store, p.logger), nil
}
