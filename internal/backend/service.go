// Package backend exposes one article service over either the in-memory
// mock store or Airtable.
package backend

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"

	"articlehub/internal/airtable"
	"articlehub/internal/config"
	"articlehub/internal/idmap"
	"articlehub/internal/metrics"
	"articlehub/internal/model"
	"articlehub/internal/store"

	"go.uber.org/zap"
)

// Service is the backend-agnostic article API.
type Service interface {
	List(ctx context.Context, f model.Filter) (*model.ArticlePage, error)
	Create(ctx context.Context, in model.ArticleInput) (*model.Article, error)
	Update(ctx context.Context, id int, in model.ArticleInput) (*model.Article, error)
	Delete(ctx context.Context, id int) error
}

type Mode string

const (
	ModeMock   Mode = "mock"
	ModeRemote Mode = "remote"
)

// Backend is a Service that owns resources.
type Backend interface {
	Service
	Mode() Mode
	Close() error
}

// New builds the backend chosen by cfg: mock unless USE_MOCK_API is off and
// an API key is set. The choice is fixed for the life of the returned value.
func New(cfg *config.Config, logger *zap.Logger, rec metrics.Recorder) (Backend, error) {
	if !cfg.MockMode() {
		client := airtable.NewClient(airtable.Config{
			BaseURI:   cfg.Airtable.BaseURI,
			BaseID:    cfg.Airtable.BaseID,
			TableID:   cfg.Airtable.TableID,
			APIKey:    cfg.Airtable.APIKey,
			Timeout:   cfg.Airtable.Timeout,
			RateLimit: cfg.Airtable.RateLimit,
		}, logger, rec)
		return NewRemote(client, idmap.NewTable(), logger, rec), nil
	}

	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewMock(st, logger), nil
}

func openStore(cfg *config.Config) (store.Store, error) {
	switch cfg.MockStore {
	case config.MockStoreBadger:
		st, err := store.NewBadgerStore(cfg.MockStorePath, store.Seed())
		if err != nil {
			return nil, fmt.Errorf("open mock store: %w", err)
		}
		return st, nil
	default:
		return store.NewMemoryStore(store.Seed()), nil
	}
}
