// Package sanitize escapes user supplied text before it is stored.
package sanitize

import (
	"strings"

	"articlehub/internal/model"
)

// & is deliberately absent: already escaped input passes through unchanged.
var replacer = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// String escapes < > " ' / to named entities and trims surrounding whitespace.
func String(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(replacer.Replace(s))
}

// Input sanitizes the free-text fields of an article payload.
func Input(in model.ArticleInput) model.ArticleInput {
	in.Title = String(in.Title)
	in.Author = String(in.Author)
	return in
}
