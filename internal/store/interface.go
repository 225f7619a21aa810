package store

import (
	"context"
	"time"

	"articlehub/internal/model"
)

// Store holds the canonical article list for mock mode.
type Store interface {
	// All returns every article in insertion order.
	All(ctx context.Context) ([]model.Article, error)
	// Insert assigns the next id and stores a new article.
	Insert(ctx context.Context, in model.ArticleInput, createdAt time.Time) (*model.Article, error)
	// Replace overwrites the fields of an existing article, keeping its
	// creation time. It reports false when id is unknown.
	Replace(ctx context.Context, id int, in model.ArticleInput) (*model.Article, bool, error)
	// Remove deletes id and reports whether it existed.
	Remove(ctx context.Context, id int) (bool, error)
	Close() error
}

// nextIDAfter returns the first id above every id in articles.
func nextIDAfter(articles []model.Article) int {
	next := 1
	for _, a := range articles {
		if a.ID >= next {
			next = a.ID + 1
		}
	}
	return next
}
