package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"forestreport/models"
	"forestreport/reportstore"
	"forestreport/upstream"
)

const serviceVersion = "1.0.0"

// recordSource is the inventory API as seen by the handlers.
type recordSource interface {
	FetchTrees(ctx context.Context) ([]models.Tree, error)
	FetchSamples(ctx context.Context) ([]models.Sample, error)
	FetchAll(ctx context.Context) (upstream.Snapshot, error)
}

type App struct {
	cfg     Config
	log     logrus.FieldLogger
	store   reportstore.Store
	source  recordSource
	metrics *metrics
	now     func() time.Time
}

func newApp(ctx context.Context, cfg Config, log logrus.FieldLogger) (*App, error) {
	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	log.WithField("driver", cfg.StoreDriver).Info("report store ready")

	return &App{
		cfg:   cfg,
		log:   log,
		store: store,
		source: upstream.New(upstream.Options{
			BaseURL:   cfg.UpstreamURL,
			Timeout:   cfg.UpstreamTimeout,
			JWTSecret: cfg.UpstreamJWTSecret,
		}),
		metrics: newMetrics(),
		now:     time.Now,
	}, nil
}

func openStore(ctx context.Context, cfg Config) (reportstore.Store, error) {
	pool := reportstore.PoolConfig{Min: cfg.PoolMin, Max: cfg.PoolMax}
	switch cfg.StoreDriver {
	case driverMySQL:
		return reportstore.NewSQLStore(ctx, cfg.MySQLDSN, pool)
	case driverMongo:
		return reportstore.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDB, pool)
	case driverMemory:
		return reportstore.NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func (a *App) close() {
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("closing report store")
	}
}

// fetchTrees degrades an upstream failure to "no trees".
func (a *App) fetchTrees(ctx context.Context) []models.Tree {
	trees, err := a.source.FetchTrees(ctx)
	if err != nil {
		a.fetchFailed(err)
		return nil
	}
	return trees
}

func (a *App) fetchSamples(ctx context.Context) []models.Sample {
	samples, err := a.source.FetchSamples(ctx)
	if err != nil {
		a.fetchFailed(err)
		return nil
	}
	return samples
}

// fetchAll keeps every collection that could be fetched.
func (a *App) fetchAll(ctx context.Context) upstream.Snapshot {
	snap, err := a.source.FetchAll(ctx)
	if err != nil {
		var merr *multierror.Error
		if errors.As(err, &merr) {
			for _, e := range merr.Errors {
				a.fetchFailed(e)
			}
		} else {
			a.fetchFailed(err)
		}
	}
	return snap
}

func (a *App) fetchFailed(err error) {
	collection := "unknown"
	var fe *upstream.FetchError
	if errors.As(err, &fe) {
		collection = fe.Collection
	}
	a.metrics.upstreamFailures.WithLabelValues(collection).Inc()
	a.log.WithError(err).WithField("collection", collection).Warn("upstream collection unavailable")
}

// persist appends a computed summary to the report log.
func (a *App) persist(ctx context.Context, t models.ReportType, summary any) error {
	if err := a.store.Append(ctx, reportstore.NewSystemReport(t, summary)); err != nil {
		return err
	}
	a.metrics.reportsGenerated.WithLabelValues(string(t)).Inc()
	a.log.WithField("type", t).Info("report stored")
	return nil
}
