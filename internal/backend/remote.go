package backend

import (
	"context"
	"net/url"
	"sort"
	"time"

	"articlehub/internal/airtable"
	"articlehub/internal/idmap"
	"articlehub/internal/metrics"
	"articlehub/internal/model"
	"articlehub/internal/query"

	"go.uber.org/zap"
)

// RecordAPI is the subset of the Airtable client the remote backend uses.
type RecordAPI interface {
	ListAll(ctx context.Context, params url.Values) ([]airtable.Record, error)
	Create(ctx context.Context, fields airtable.Fields) (*airtable.Record, error)
	Update(ctx context.Context, recordID string, fields airtable.Fields) (*airtable.Record, error)
	Delete(ctx context.Context, recordID string) error
}

// Remote serves articles from an Airtable table. Record ids are mapped to
// integer article ids through ids, which is filled by every read.
type Remote struct {
	api     RecordAPI
	ids     *idmap.Table
	logger  *zap.Logger
	metrics metrics.Recorder
}

func NewRemote(api RecordAPI, ids *idmap.Table, logger *zap.Logger, rec metrics.Recorder) *Remote {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Remote{
		api:     api,
		ids:     ids,
		logger:  logger.With(zap.String("backend", string(ModeRemote))),
		metrics: rec,
	}
}

func (r *Remote) Mode() Mode { return ModeRemote }

func (r *Remote) Close() error { return nil }

// List fetches the whole filtered set, newest first, and slices the requested
// page locally. The limit is clamped to 100.
func (r *Remote) List(ctx context.Context, f model.Filter) (*model.ArticlePage, error) {
	f = query.Normalize(f)
	f.Limit = query.ClampLimit(f.Limit)

	records, err := r.api.ListAll(ctx, query.Params(f))
	if err != nil {
		return nil, err
	}

	articles := r.observe(records)
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})

	// The formula already filtered upstream; re-checking keeps both
	// backends on the same predicates.
	items, total := query.Apply(articles, f)
	return &model.ArticlePage{
		Articles: items,
		Total:    total,
		Page:     f.Page,
		Limit:    f.Limit,
	}, nil
}

func (r *Remote) Create(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	rec, err := r.api.Create(ctx, fieldsOf(in))
	if err != nil {
		return nil, err
	}
	article := r.toArticle(*rec)
	r.logger.Debug("Article created", zap.Int("id", article.ID), zap.String("record", rec.ID))
	return &article, nil
}

func (r *Remote) Update(ctx context.Context, id int, in model.ArticleInput) (*model.Article, error) {
	recordID, err := r.ids.Resolve(ctx, id, r.refetch)
	if err != nil {
		return nil, err
	}

	rec, err := r.api.Update(ctx, recordID, fieldsOf(in))
	if err != nil {
		return nil, err
	}
	article := r.toArticle(*rec)
	return &article, nil
}

func (r *Remote) Delete(ctx context.Context, id int) error {
	recordID, err := r.ids.Resolve(ctx, id, r.refetch)
	if err != nil {
		return err
	}
	return r.api.Delete(ctx, recordID)
}

// refetch lists the whole table without a filter so that every record id is
// known again.
func (r *Remote) refetch(ctx context.Context) error {
	r.metrics.RecordRefetch()
	r.logger.Debug("Id mapping miss, refetching all records")

	records, err := r.api.ListAll(ctx, query.Params(model.Filter{}))
	if err != nil {
		return err
	}
	r.observe(records)
	return nil
}

func (r *Remote) observe(records []airtable.Record) []model.Article {
	articles := make([]model.Article, 0, len(records))
	for _, rec := range records {
		articles = append(articles, r.toArticle(rec))
	}
	return articles
}

func (r *Remote) toArticle(rec airtable.Record) model.Article {
	return model.Article{
		ID:        r.ids.Put(rec.ID),
		Title:     rec.Fields.Title,
		Author:    rec.Fields.Author,
		Status:    model.Status(rec.Fields.Status),
		CreatedAt: r.createdAt(rec),
	}
}

// createdAt prefers the CreatedAt column and falls back to the record's own
// creation time.
func (r *Remote) createdAt(rec airtable.Record) time.Time {
	raw := rec.Fields.CreatedAt
	if raw == "" {
		raw = rec.CreatedTime
	}
	if raw == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		r.logger.Warn("Unparseable record timestamp", zap.String("record", rec.ID), zap.String("value", raw), zap.Error(err))
		return time.Time{}
	}
	return ts.UTC()
}

func fieldsOf(in model.ArticleInput) airtable.Fields {
	return airtable.Fields{
		Title:  in.Title,
		Author: in.Author,
		Status: string(in.Status),
	}
}
