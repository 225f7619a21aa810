// Package client talks to the articlehub façade over HTTP. Failed calls are
// retried with exponential backoff when apperr.IsRetryable says so.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"articlehub/internal/apperr"
	"articlehub/internal/backend"
	"articlehub/internal/model"

	"go.uber.org/zap"
)

const articlesPath = "/api/articles"

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Client implements backend.Service against a running façade.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *zap.Logger
}

var _ backend.Service = (*Client)(nil)

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 500 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With(zap.String("component", "client")),
	}
}

func (c *Client) List(ctx context.Context, f model.Filter) (*model.ArticlePage, error) {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}

	var page model.ArticlePage
	if err := c.do(ctx, apperr.KindFetch, apperr.MsgFetchFailed, http.MethodGet, q, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Create(ctx context.Context, in model.ArticleInput) (*model.Article, error) {
	var article model.Article
	if err := c.do(ctx, apperr.KindCreate, apperr.MsgCreateFailed, http.MethodPost, nil, in, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (c *Client) Update(ctx context.Context, id int, in model.ArticleInput) (*model.Article, error) {
	var article model.Article
	if err := c.do(ctx, apperr.KindUpdate, apperr.MsgUpdateFailed, http.MethodPut, idQuery(id), in, &article); err != nil {
		return nil, err
	}
	return &article, nil
}

func (c *Client) Delete(ctx context.Context, id int) error {
	return c.do(ctx, apperr.KindDelete, apperr.MsgDeleteFailed, http.MethodDelete, idQuery(id), nil, nil)
}

func idQuery(id int) url.Values {
	return url.Values{"id": {strconv.Itoa(id)}}
}

func (c *Client) do(ctx context.Context, kind apperr.Kind, msg, method string, q url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}

	var err error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		err = c.once(ctx, kind, msg, method, q, payload, out)
		if err == nil {
			return nil
		}
		if attempt == c.maxAttempts || !shouldRetry(method, err) {
			break
		}

		backoff := c.calculateBackoff(attempt)
		c.logger.Warn("Request failed, retrying",
			zap.String("method", method),
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff),
			zap.Error(err))

		select {
		case <-ctx.Done():
			return apperr.Wrap(kind, msg, 0, ctx.Err())
		case <-time.After(backoff):
		}
	}
	return err
}

// shouldRetry allows a POST to be retried only when it never got a response.
// Any answer from the façade may mean the article was already created.
func shouldRetry(method string, err error) bool {
	if !apperr.IsRetryable(err) {
		return false
	}
	return method != http.MethodPost || apperr.StatusOf(err) == 0
}

func (c *Client) once(ctx context.Context, kind apperr.Kind, msg, method string, q url.Values, payload []byte, out any) error {
	target := c.baseURL + articlesPath
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return apperr.Wrap(kind, msg, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperr.Wrap(kind, msg, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		message := msg
		if json.NewDecoder(io.LimitReader(resp.Body, 4<<10)).Decode(&body) == nil && body.Error != "" {
			message = body.Error
		}
		return apperr.Wrap(kind, message, resp.StatusCode, fmt.Errorf("façade status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(kind, msg, 0, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (c *Client) calculateBackoff(attempt int) time.Duration {
	backoff := c.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > c.maxBackoff {
		backoff = c.maxBackoff
	}
	return backoff
}
