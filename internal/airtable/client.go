// Package airtable is a small client for the Airtable REST API, limited to
// what the article table needs.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"articlehub/internal/apperr"
	"articlehub/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURI = "https://api.airtable.com/v0"

	// maxErrorBody bounds how much of an error response is kept.
	maxErrorBody = 4 << 10
)

// Fields are the article columns of the table. CreatedAt is read-only from
// this side: it is never sent on create or update.
type Fields struct {
	Title     string `json:"Title"`
	Author    string `json:"Author"`
	Status    string `json:"Status"`
	CreatedAt string `json:"CreatedAt,omitempty"`
}

type Record struct {
	ID          string `json:"id"`
	CreatedTime string `json:"createdTime,omitempty"`
	Fields      Fields `json:"fields"`
}

type listResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

type writeRequest struct {
	Fields Fields `json:"fields"`
}

type Config struct {
	BaseURI string
	BaseID  string
	TableID string
	APIKey  string
	Timeout time.Duration
	// RateLimit is the maximum requests per second; 0 disables limiting.
	RateLimit float64
}

type Client struct {
	httpClient *http.Client
	tableURL   string
	apiKey     string
	limiter    *rate.Limiter
	logger     *zap.Logger
	metrics    metrics.Recorder
}

func NewClient(cfg Config, logger *zap.Logger, rec metrics.Recorder) *Client {
	baseURI := cfg.BaseURI
	if baseURI == "" {
		baseURI = DefaultBaseURI
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if rec == nil {
		rec = metrics.Nop{}
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		tableURL:   strings.TrimRight(baseURI, "/") + "/" + url.PathEscape(cfg.BaseID) + "/" + url.PathEscape(cfg.TableID),
		apiKey:     cfg.APIKey,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger.With(zap.String("component", "airtable")),
		metrics:    rec,
	}
}

// ListAll fetches every record matching params, following offset cursors
// until the last page.
func (c *Client) ListAll(ctx context.Context, params url.Values) ([]Record, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}

	var records []Record
	for page := 1; ; page++ {
		var resp listResponse
		err := c.do(ctx, "list", http.MethodGet, c.tableURL+"?"+q.Encode(), nil, &resp, apperr.KindFetch, apperr.MsgFetchFailed)
		if err != nil {
			return nil, err
		}
		records = append(records, resp.Records...)

		c.logger.Debug("fetched page",
			zap.Int("page", page),
			zap.Int("records", len(resp.Records)),
			zap.Int("total", len(records)))

		if resp.Offset == "" {
			return records, nil
		}
		q.Set("offset", resp.Offset)
	}
}

func (c *Client) Create(ctx context.Context, fields Fields) (*Record, error) {
	fields.CreatedAt = ""
	var rec Record
	err := c.do(ctx, "create", http.MethodPost, c.tableURL, writeRequest{Fields: fields}, &rec, apperr.KindCreate, apperr.MsgCreateFailed)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update patches the given record; columns not in Fields are left alone by
// Airtable.
func (c *Client) Update(ctx context.Context, recordID string, fields Fields) (*Record, error) {
	fields.CreatedAt = ""
	var rec Record
	err := c.do(ctx, "update", http.MethodPatch, c.recordURL(recordID), writeRequest{Fields: fields}, &rec, apperr.KindUpdate, apperr.MsgUpdateFailed)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (c *Client) Delete(ctx context.Context, recordID string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.recordURL(recordID), nil, nil, apperr.KindDelete, apperr.MsgDeleteFailed)
}

func (c *Client) recordURL(recordID string) string {
	return c.tableURL + "/" + url.PathEscape(recordID)
}

// do performs one request. Every failure, including transport errors and
// undecodable bodies, comes back as an *apperr.Error of the given kind.
func (c *Client) do(ctx context.Context, op, method, target string, body, out any, kind apperr.Kind, msg string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return apperr.Wrap(kind, msg, 0, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(kind, msg, 0, fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return apperr.Wrap(kind, msg, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordUpstreamCall(op, 0, time.Since(start))
		c.logger.Error("Airtable request failed", zap.String("op", op), zap.Error(err))
		return apperr.Wrap(kind, msg, 0, err)
	}
	defer resp.Body.Close()
	c.metrics.RecordUpstreamCall(op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("Airtable returned error status",
			zap.String("op", op),
			zap.Int("http_status", resp.StatusCode),
			zap.ByteString("body", snippet))
		return apperr.Wrap(kind, msg, resp.StatusCode,
			fmt.Errorf("airtable status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperr.Wrap(kind, msg, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}
	return nil
}
