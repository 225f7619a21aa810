package model

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Filter carries the generic list parameters shared by every backend.
type Filter struct {
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
	Search string `json:"search,omitempty"`
	Status Status `json:"status,omitempty"`
}

// ArticlePage is one page of a filtered listing. Total counts the whole
// filtered set, not just this page.
type ArticlePage struct {
	Articles []Article `json:"articles"`
	Total    int       `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}
