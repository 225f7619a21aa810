package backend

import (
	"context"
	"time"

	"articlehub/internal/apperr"
	"articlehub/internal/model"
	"articlehub/internal/query"
	"articlehub/internal/store"

	"go.uber.org/zap"
)

// Mock serves articles from a Record Store owned by this instance.
type Mock struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewMock(st store.Store, logger *zap.Logger) *Mock {
	return &Mock{
		store:  st,
		logger: logger.With(zap.String("backend", string(ModeMock))),
		now:    time.Now,
	}
}

func (m *Mock) Mode() Mode { return ModeMock }

func (m *Mock) Close() error { return m.store.Close() }

// List filters and pages the store contents in insertion order.
func (m *Mock) List(ctx context.Context, f model.Filter) (*model.ArticlePage, error) {
	f = query.Normalize(f)

	all, err := m.store.All(ctx)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFetch, apperr.MsgFetchFailed, 0, err)
	}

	items, total := query.Apply(all, f)
	return &model.ArticlePage{
		Articles: items,
		Total:    total,
		Page:     f.Page,
		Limit:    f.Limit,
	}, nil
}

func (m *Mock) Create(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	article, err := m.store.Insert(ctx, in, m.now().UTC())
	if err != nil {
		return nil, apperr.Wrap(apperr.KindCreate, apperr.MsgCreateFailed, 0, err)
	}
	m.logger.Debug("Article created", zap.Int("id", article.ID))
	return article, nil
}

// Update replaces the article with the given id. An unknown id is not an
// error here: the store is left untouched and the input is echoed back with
// a zero creation time. The remote backend reports NOT_FOUND_ERROR instead.
func (m *Mock) Update(ctx context.Context, id int, in model.ArticleInput) (*model.Article, error) {
	article, found, err := m.store.Replace(ctx, id, in)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUpdate, apperr.MsgUpdateFailed, 0, err)
	}
	if !found {
		m.logger.Debug("Update of unknown id ignored", zap.Int("id", id))
		echo := model.NewArticle(id, in, time.Time{})
		return &echo, nil
	}
	return article, nil
}

// Delete removes id. Deleting an unknown id succeeds silently.
func (m *Mock) Delete(ctx context.Context, id int) error {
	found, err := m.store.Remove(ctx, id)
	if err != nil {
		return apperr.Wrap(apperr.KindDelete, apperr.MsgDeleteFailed, 0, err)
	}
	if !found {
		m.logger.Debug("Delete of unknown id ignored", zap.Int("id", id))
	}
	return nil
}
