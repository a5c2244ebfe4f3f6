// Package application wires configuration, the model and every long-running
// module into one process.
package application

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"iris_api/internal/config"
	"iris_api/internal/domain"
	"iris_api/internal/domain/service/prediction"
	"iris_api/internal/domain/value"
	"iris_api/internal/infrastructure/journal"
	"iris_api/internal/infrastructure/logreg"
	"iris_api/internal/infrastructure/persistence"
	"iris_api/internal/server"
	"iris_api/internal/worker"
	"iris_api/pkg/application/connectors"
	"iris_api/pkg/application/modules"
	"iris_api/pkg/contextx"
	"iris_api/pkg/errcodes"
	"iris_api/pkg/logx"
	"iris_api/pkg/metrics"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Run serves until ctx is cancelled or a module fails.
func Run(ctx context.Context, cfg config.Config) error {
	model, err := loadModel(ctx, cfg.Model.Path)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	predictionService := prediction.NewService(
		model,
		model.Metadata().Version,
		metrics.NewPredictionCollector(registry),
	).WithCacheTTL(cfg.Model.CacheTTL)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.JournalEnabled() {
		closeJournal := startJournal(ctx, g, cfg, predictionService)
		defer closeJournal()
	} else {
		logger(ctx).Info("prediction journal disabled, set PG_DSN and REDIS_ADDRESS to enable it")
	}

	srv := server.NewServer(
		server.NewPredictionServer(predictionService, cfg.HTTP.MaxBatchSize),
		server.NewPageServer(),
	)

	modules.HTTPServer{
		ListenAddress:   cfg.HTTP.ListenAddress,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}.Run(ctx, g, srv.Handler(server.Options{
		CORSOrigins:         cfg.HTTP.CORSOrigins,
		LogFieldMaxLen:      cfg.HTTP.LogFieldMaxLen,
		MaxBodyBytes:        cfg.HTTP.MaxBodyBytes,
		SensitiveDataMasker: logx.NewSensitiveDataMasker(),
		HTTPMetrics:         metrics.NewHTTPCollector(registry),
	}))

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Probe.ListenAddress,
		Ready:         predictionService.Ready,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Metrics.ListenAddress,
		Gatherer:      registry,
	}.Run(ctx, g)

	if err = g.Wait(); err != nil {
		return fmt.Errorf("g.Wait: %w", err)
	}

	return nil
}

// startJournal connects the journal stores and starts its worker. The
// journal is optional: when a store is unreachable the service runs without
// it. The returned func closes whatever was opened.
func startJournal(
	ctx context.Context,
	g *errgroup.Group,
	cfg config.Config,
	predictionService *prediction.Service,
) func() {
	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}

	rds := &connectors.Redis{
		Address:            cfg.Redis.Address,
		Username:           cfg.Redis.Username,
		Password:           cfg.Redis.Password,
		DatabaseNumber:     cfg.Redis.DatabaseNumber,
		PoolSize:           cfg.Redis.PoolSize,
		MinIdleConnections: cfg.Redis.MinIdleConnections,
		MaxIdleConnections: cfg.Redis.MaxIdleConnections,
	}

	closeAll := func() {
		rds.Close(ctx)
		pg.Close(ctx)
	}

	db, err := pg.Connect(ctx)
	if err == nil {
		err = persistence.Migrate(ctx, db)
	}

	var redisClient *redis.Client
	if err == nil {
		redisClient, err = rds.Connect(ctx)
	}

	if err != nil {
		logger(ctx).Warn("prediction journal unavailable, serving without it", logx.Error(err))

		return closeAll
	}

	predictionService.WithJournal(
		journal.NewQueue(redisClient, cfg.Journal.Queue, cfg.Journal.MaxRetry),
		cfg.Journal.Buffer,
		cfg.Journal.Timeout,
	)

	g.Go(func() error {
		return predictionService.RunJournal(ctx)
	})

	modules.AsynqServer{
		Concurrency: cfg.Journal.Concurrency,
	}.Run(
		ctx, g,
		redisClient,
		modules.AsynqQueues{cfg.Journal.Queue: 1},
		worker.NewJournalHandler(persistence.NewPredictionRepository(db)).Handler(),
	)

	logger(ctx).Info("prediction journal enabled", slog.String("queue", cfg.Journal.Queue))

	return closeAll
}

func loadModel(ctx context.Context, path string) (*logreg.Model, error) {
	model, err := logreg.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("model file %q not found, train the model first (irisctl train --out %s): %w",
			path, path, err)
	}

	if err != nil {
		return nil, fmt.Errorf("logreg.Load: %w", err)
	}

	if err = checkModelShape(model); err != nil {
		return nil, fmt.Errorf("model file %q: %w", path, err)
	}

	meta := model.Metadata()

	logger(ctx).Info("model loaded",
		slog.String(logx.FieldModelPath, path),
		slog.String(logx.FieldModelVersion, meta.Version),
		slog.Float64("test-accuracy", meta.TestAccuracy),
	)

	return model, nil
}

// checkModelShape rejects artifacts whose class or feature order differs
// from the one predictions are decoded with. Class i must be value.Species(i).
func checkModelShape(model *logreg.Model) error {
	if classes := model.Classes(); !slices.Equal(classes, value.SpeciesNames()) {
		return domain.NewError(errcodes.InvalidModel,
			fmt.Sprintf("classes %v, want %v", classes, value.SpeciesNames()))
	}

	if features := model.Features(); !slices.Equal(features, value.FeatureNames()) {
		return domain.NewError(errcodes.InvalidModel,
			fmt.Sprintf("features %v, want %v", features, value.FeatureNames()))
	}

	return nil
}
