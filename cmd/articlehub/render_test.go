package main

import (
	"bytes"
	"testing"
	"time"

	"articlehub/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestRenderPage(t *testing.T) {
	var buf bytes.Buffer
	page := &model.ArticlePage{
		Articles: []model.Article{
			{ID: 1, Title: "Welcome", Author: "Jane Doe", Status: model.StatusPublished, CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)},
			{ID: 2, Title: "Upcoming", Author: "John Smith", Status: model.StatusDraft},
		},
		Total: 12,
		Page:  1,
		Limit: 10,
	}

	renderPage(&buf, page, false)
	out := buf.String()

	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "2024-01-15 10:00")
	assert.Contains(t, out, "Page 1 of 2 (12 articles)")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderPage_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderPage(&buf, &model.ArticlePage{Articles: []model.Article{}, Page: 3, Limit: 10}, false)

	assert.Contains(t, buf.String(), "No articles found.")
	assert.Contains(t, buf.String(), "Page 3 of 1 (0 articles)")
}

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Draft", statusLabel(model.StatusDraft, false))
	assert.Contains(t, statusLabel(model.StatusPublished, true), "\x1b[32m")
	assert.Equal(t, "Weird", statusLabel("Weird", true))
}

func TestParseIDArg(t *testing.T) {
	id, err := parseIDArg("17")
	assert.NoError(t, err)
	assert.Equal(t, 17, id)

	_, err = parseIDArg("x")
	assert.Error(t, err)
}
