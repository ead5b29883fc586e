package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/saumyapandey31/Phishnet/internal/classifier"
	"github.com/saumyapandey31/Phishnet/internal/config"
	"github.com/saumyapandey31/Phishnet/internal/history"
	"github.com/saumyapandey31/Phishnet/internal/httpclient"
	"github.com/saumyapandey31/Phishnet/internal/reports"
)

// errReportsUnavailable is returned when no reports database is configured.
var errReportsUnavailable = errors.New("reporting is unavailable: set reports.database_url or PHISHNET_REPORTS_DATABASE_URL")

// app holds the state shared by subcommands once the root pre-run has loaded
// configuration.
type app struct {
	cfg    *config.Config
	log    *slog.Logger
	silent bool

	// reportsRepo replaces the Postgres repository when set.
	reportsRepo reports.Repository
}

func (a *app) newClassifier() *classifier.Client {
	hdr := make(http.Header, len(a.cfg.Classifier.Headers))
	for k, v := range a.cfg.Classifier.Headers {
		hdr.Set(k, v)
	}
	hc := httpclient.New(httpclient.Config{
		Timeout:  a.cfg.Classifier.Timeout,
		Headers:  hdr,
		Insecure: a.cfg.Classifier.Insecure,
		Retries:  a.cfg.Classifier.Retries,
	})
	return classifier.New(a.cfg.Classifier.Endpoint, hc, classifier.WithLogger(a.log))
}

// openBackend returns the configured history backend and a release func.
func (a *app) openBackend() (history.Backend, func(), error) {
	hc := a.cfg.History
	switch hc.Backend {
	case "memory":
		return history.NewMemoryBackend(), func() {}, nil
	case "sqlite":
		b, err := history.OpenSQLite(hc.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	case "redis":
		b, err := history.NewRedisBackend(hc.RedisURL, hc.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	default:
		b, err := history.NewFileBackend(hc.Dir)
		if err != nil {
			return nil, nil, err
		}
		return b, func() {}, nil
	}
}

// openHistory opens the backend and loads the persisted list into a Store.
func (a *app) openHistory(ctx context.Context) (*history.Store, func(), error) {
	backend, release, err := a.openBackend()
	if err != nil {
		return nil, nil, fmt.Errorf("open history (%s): %w", a.cfg.History.Backend, err)
	}
	store := history.New(backend,
		history.WithKey(a.cfg.History.Key),
		history.WithCapacity(a.cfg.History.Capacity),
		history.WithLogger(a.log),
	)
	store.Load(ctx)
	return store, release, nil
}

// openReports connects to the reports database.
func (a *app) openReports(ctx context.Context) (*reports.Service, func(), error) {
	if a.cfg.Reports.UserID == "" {
		return nil, nil, reports.ErrNotSignedIn
	}
	if a.reportsRepo != nil {
		return reports.NewService(a.reportsRepo, a.cfg.Reports.UserID), func() {}, nil
	}
	if a.cfg.Reports.DatabaseURL == "" {
		return nil, nil, errReportsUnavailable
	}
	pg, err := reports.OpenPostgres(ctx, a.cfg.Reports.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	return reports.NewService(pg, a.cfg.Reports.UserID), pg.Close, nil
}
