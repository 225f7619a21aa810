package query

import (
	"fmt"
	"math"
	"testing"

	"articlehub/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbered(n int) []model.Article {
	out := make([]model.Article, n)
	for i := range out {
		status := model.StatusPublished
		if i%3 == 0 {
			status = model.StatusDraft
		}
		out[i] = model.Article{ID: i + 1, Title: fmt.Sprintf("Article %d", i+1), Status: status}
	}
	return out
}

func TestNormalize(t *testing.T) {
	got := Normalize(model.Filter{})
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 10, got.Limit)

	got = Normalize(model.Filter{Page: -3, Limit: 0})
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 10, got.Limit)

	got = Normalize(model.Filter{Page: 4, Limit: 25})
	assert.Equal(t, 4, got.Page)
	assert.Equal(t, 25, got.Limit)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, 10, ClampLimit(10))
	assert.Equal(t, 100, ClampLimit(100))
	assert.Equal(t, 100, ClampLimit(500))
}

func TestApply_PaginationCounts(t *testing.T) {
	for _, n := range []int{0, 1, 9, 10, 11, 37} {
		items := numbered(n)
		for _, limit := range []int{1, 3, 10} {
			for page := 1; page <= 6; page++ {
				got, total := Apply(items, model.Filter{Page: page, Limit: limit})

				want := limit
				if rest := n - (page-1)*limit; rest < want {
					want = max(0, rest)
				}
				require.Len(t, got, want, "n=%d page=%d limit=%d", n, page, limit)
				assert.Equal(t, n, total)
				if want > 0 {
					assert.Equal(t, (page-1)*limit+1, got[0].ID)
				}
			}
		}
	}
}

func TestApply_HugePageOrLimit(t *testing.T) {
	items := numbered(25)

	got, total := Apply(items, model.Filter{Page: 4611686018427387905, Limit: 4})
	assert.Equal(t, 25, total)
	assert.Empty(t, got)
	assert.NotNil(t, got)

	got, _ = Apply(items, model.Filter{Page: math.MaxInt, Limit: math.MaxInt})
	assert.Empty(t, got)

	got, _ = Apply(items, model.Filter{Page: 1, Limit: math.MaxInt})
	assert.Len(t, got, 25)

	got, _ = Apply(items, model.Filter{Page: 2, Limit: math.MaxInt / 2})
	assert.Empty(t, got)
}

func TestApply_Search(t *testing.T) {
	items := []model.Article{
		{ID: 1, Title: "Welcome to Our Platform"},
		{ID: 2, Title: "Docker for Beginners"},
		{ID: 3, Title: "DOCKER in production"},
		{ID: 4, Title: "Testing Strategies"},
	}

	got, total := Apply(items, model.Filter{Search: "docker"})
	assert.Equal(t, 2, total)
	assert.Equal(t, []int{2, 3}, ids(got))

	got, total = Apply(items, model.Filter{Search: "nothing here"})
	assert.Equal(t, 0, total)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestApply_Status(t *testing.T) {
	items := []model.Article{
		{ID: 1, Title: "Welcome", Status: model.StatusPublished},
		{ID: 2, Title: "Draft X", Status: model.StatusDraft},
	}

	got, total := Apply(items, model.Filter{Status: model.StatusDraft})
	assert.Equal(t, 1, total)
	assert.Equal(t, []int{2}, ids(got))

	_, total = Apply(items, model.Filter{Status: model.StatusAll})
	assert.Equal(t, 2, total)

	_, total = Apply(items, model.Filter{Status: "Archived"})
	assert.Equal(t, 0, total)
}

func TestApply_SearchAndStatus(t *testing.T) {
	items := numbered(30)

	got, total := Apply(items, model.Filter{Search: "article 1", Status: model.StatusDraft, Limit: 50})
	// "Article 1", "Article 10".."Article 19" match the search; drafts have index%3==0.
	for _, a := range got {
		assert.Equal(t, model.StatusDraft, a.Status)
		assert.Contains(t, a.Title, "Article 1")
	}
	assert.Equal(t, len(got), total)
	assert.Equal(t, []int{1, 10, 13, 16, 19}, ids(got))
}

func TestFormula(t *testing.T) {
	assert.Equal(t, "", Formula(model.Filter{}))
	assert.Equal(t, "", Formula(model.Filter{Status: model.StatusAll}))

	assert.Equal(t,
		`AND(SEARCH(LOWER("react"), LOWER({Title})))`,
		Formula(model.Filter{Search: "react"}))

	assert.Equal(t,
		`AND({Status} = "Draft")`,
		Formula(model.Filter{Status: model.StatusDraft}))

	assert.Equal(t,
		`AND(SEARCH(LOWER("react"), LOWER({Title})), {Status} = "Published")`,
		Formula(model.Filter{Search: "react", Status: model.StatusPublished}))
}

func TestFormula_EscapesLiterals(t *testing.T) {
	got := Formula(model.Filter{Search: `say "hi" \ bye`})
	assert.Equal(t, `AND(SEARCH(LOWER("say \"hi\" \\ bye"), LOWER({Title})))`, got)
}

func TestParams(t *testing.T) {
	params := Params(model.Filter{Search: "go", Status: model.StatusDraft, Page: 3, Limit: 5})

	assert.Equal(t, "100", params.Get("pageSize"))
	assert.Equal(t, `AND(SEARCH(LOWER("go"), LOWER({Title})), {Status} = "Draft")`, params.Get("filterByFormula"))
	assert.Equal(t, "CreatedAt", params.Get("sort[0][field]"))
	assert.Equal(t, "desc", params.Get("sort[0][direction]"))
	assert.False(t, params.Has("offset"))
	assert.False(t, params.Has("page"))

	assert.False(t, params.Has("limit"))

	params = Params(model.Filter{Status: model.StatusAll})
	assert.False(t, params.Has("filterByFormula"))
}

func ids(items []model.Article) []int {
	out := make([]int, len(items))
	for i, a := range items {
		out[i] = a.ID
	}
	return out
}
