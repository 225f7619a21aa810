package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"articlehub/internal/model"

	"github.com/dgraph-io/badger/v4"
)

const (
	articlePrefix = "article:"
	nextIDKey     = "meta:next_id"
	gcInterval    = 5 * time.Minute
)

// BadgerStore keeps mock-mode articles in Badger. Keys are zero padded so a
// prefix scan returns articles in id, and therefore insertion, order.
type BadgerStore struct {
	db   *badger.DB
	mu   sync.Mutex // serializes writers so the id counter never conflicts
	stop chan struct{}
	done chan struct{}
}

// NewBadgerStore opens a Badger database at path, or an in-memory one when
// path is "". A database without articles is loaded with seed.
func NewBadgerStore(path string, seed []model.Article) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Silence default logger

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger: %w", err)
	}

	s := &BadgerStore{db: db}
	if err := s.seedIfEmpty(seed); err != nil {
		db.Close()
		return nil, err
	}

	if path != "" {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.gcLoop()
	}
	return s, nil
}

func articleKey(id int) []byte {
	return []byte(fmt.Sprintf("%s%010d", articlePrefix, id))
}

func (s *BadgerStore) seedIfEmpty(seed []model.Article) error {
	return s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(nextIDKey))
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		for _, a := range seed {
			if err := putArticle(txn, a); err != nil {
				return fmt.Errorf("seed article %d: %w", a.ID, err)
			}
		}
		return putNextID(txn, nextIDAfter(seed))
	})
}

func putArticle(txn *badger.Txn, a model.Article) error {
	data, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return txn.Set(articleKey(a.ID), data)
}

func putNextID(txn *badger.Txn, next int) error {
	return txn.Set([]byte(nextIDKey), []byte(strconv.Itoa(next)))
}

func readNextID(txn *badger.Txn) (int, error) {
	item, err := txn.Get([]byte(nextIDKey))
	if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(string(val))
}

func getArticle(txn *badger.Txn, id int) (*model.Article, error) {
	item, err := txn.Get(articleKey(id))
	if err != nil {
		return nil, err
	}
	var a model.Article
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &a)
	})
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *BadgerStore) All(_ context.Context) ([]model.Article, error) {
	articles := []model.Article{}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(articlePrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var a model.Article
				if err := json.Unmarshal(val, &a); err != nil {
					return err
				}
				articles = append(articles, a)
				return nil
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return articles, nil
}

func (s *BadgerStore) Insert(_ context.Context, in model.ArticleInput, createdAt time.Time) (*model.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var article model.Article
	err := s.db.Update(func(txn *badger.Txn) error {
		next, err := readNextID(txn)
		if err != nil {
			return fmt.Errorf("read id counter: %w", err)
		}
		article = model.NewArticle(next, in, createdAt)
		if err := putArticle(txn, article); err != nil {
			return err
		}
		return putNextID(txn, next+1)
	})
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (s *BadgerStore) Replace(_ context.Context, id int, in model.ArticleInput) (*model.Article, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *model.Article
	err := s.db.Update(func(txn *badger.Txn) error {
		existing, err := getArticle(txn, id)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		a := model.NewArticle(id, in, existing.CreatedAt)
		updated = &a
		return putArticle(txn, a)
	})
	if err != nil {
		return nil, false, err
	}
	return updated, updated != nil, nil
}

func (s *BadgerStore) Remove(_ context.Context, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	err := s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(articleKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return txn.Delete(articleKey(id))
	})
	return found, err
}

func (s *BadgerStore) gcLoop() {
	defer close(s.done)
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// ErrNoRewrite just means there was nothing worth collecting.
			_ = s.db.RunValueLogGC(0.7)
		case <-s.stop:
			return
		}
	}
}

// Close stops background GC and closes the database.
func (s *BadgerStore) Close() error {
	if s.stop != nil {
		close(s.stop)
		<-s.done
	}
	return s.db.Close()
}
