// Package query translates list filters into an in-memory filter+slice or
// an Airtable query envelope.
package query

import (
	"net/url"
	"strconv"
	"strings"

	"articlehub/internal/model"
)

// MaxPageSize is the largest pageSize Airtable accepts.
const MaxPageSize = 100

const (
	FieldTitle     = "Title"
	FieldAuthor    = "Author"
	FieldStatus    = "Status"
	FieldCreatedAt = "CreatedAt"
)

// Normalize fills in defaults for a missing or out-of-range page and limit.
func Normalize(f model.Filter) model.Filter {
	if f.Page < 1 {
		f.Page = model.DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = model.DefaultLimit
	}
	return f
}

// ClampLimit bounds limit to MaxPageSize.
func ClampLimit(limit int) int {
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}

func hasStatus(f model.Filter) bool {
	return f.Status != "" && f.Status != model.StatusAll
}

// Match reports whether a satisfies every predicate in f.
func Match(a model.Article, f model.Filter) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(a.Title), strings.ToLower(f.Search)) {
		return false
	}
	if hasStatus(f) && a.Status != f.Status {
		return false
	}
	return true
}

// Apply filters articles and returns the requested page along with the size
// of the whole filtered set. The input order is preserved.
func Apply(articles []model.Article, f model.Filter) ([]model.Article, int) {
	f = Normalize(f)

	var matched []model.Article
	for _, a := range articles {
		if Match(a, f) {
			matched = append(matched, a)
		}
	}
	return Slice(matched, f.Page, f.Limit), len(matched)
}

// Slice returns items[(page-1)*limit : page*limit], clipped to the slice.
// It never returns nil.
func Slice(items []model.Article, page, limit int) []model.Article {
	// Compare page indexes before multiplying so huge pages cannot overflow.
	if len(items) == 0 || page < 1 || limit < 1 || page-1 > (len(items)-1)/limit {
		return []model.Article{}
	}
	start := (page - 1) * limit
	end := len(items)
	if limit < end-start {
		end = start + limit
	}
	out := make([]model.Article, end-start)
	copy(out, items[start:end])
	return out
}

// Formula builds the Airtable filterByFormula expression for f, or "" when
// f has no predicate.
func Formula(f model.Filter) string {
	var preds []string
	if f.Search != "" {
		preds = append(preds, "SEARCH(LOWER("+quote(f.Search)+"), LOWER({"+FieldTitle+"}))")
	}
	if hasStatus(f) {
		preds = append(preds, "{"+FieldStatus+"} = "+quote(string(f.Status)))
	}
	if len(preds) == 0 {
		return ""
	}
	return "AND(" + strings.Join(preds, ", ") + ")"
}

var literalEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + literalEscaper.Replace(s) + `"`
}

// Params builds the query string for a full, newest-first listing. Page and
// limit are not sent: Airtable has no offset paging, so callers slice the
// full result locally.
func Params(f model.Filter) url.Values {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(MaxPageSize))
	if formula := Formula(f); formula != "" {
		params.Set("filterByFormula", formula)
	}
	params.Set("sort[0][field]", FieldCreatedAt)
	params.Set("sort[0][direction]", "desc")
	return params
}
