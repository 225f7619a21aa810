package store

import (
	"context"
	"sync"
	"time"

	"articlehub/internal/model"
)

// MemoryStore keeps articles in process memory. Each instance is independent;
// nothing is shared between processes or survives a restart.
type MemoryStore struct {
	mu       sync.RWMutex
	order    []int
	articles map[int]model.Article
	nextID   int
}

// NewMemoryStore creates a store preloaded with seed. The id counter starts
// above the largest seeded id.
func NewMemoryStore(seed []model.Article) *MemoryStore {
	s := &MemoryStore{
		articles: make(map[int]model.Article, len(seed)),
		nextID:   nextIDAfter(seed),
	}
	for _, a := range seed {
		if _, dup := s.articles[a.ID]; !dup {
			s.order = append(s.order, a.ID)
		}
		s.articles[a.ID] = a
	}
	return s
}

func (s *MemoryStore) All(_ context.Context) ([]model.Article, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Article, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.articles[id])
	}
	return out, nil
}

func (s *MemoryStore) Insert(_ context.Context, in model.ArticleInput, createdAt time.Time) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	article := model.NewArticle(s.nextID, in, createdAt)
	s.nextID++
	s.articles[article.ID] = article
	s.order = append(s.order, article.ID)
	return &article, nil
}

func (s *MemoryStore) Replace(_ context.Context, id int, in model.ArticleInput) (*model.Article, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.articles[id]
	if !ok {
		return nil, false, nil
	}
	updated := model.NewArticle(id, in, existing.CreatedAt)
	s.articles[id] = updated
	return &updated, true, nil
}

func (s *MemoryStore) Remove(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return false, nil
	}
	delete(s.articles, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (s *MemoryStore) Close() error { return nil }
