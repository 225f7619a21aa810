package model

import (
	"time"
)

type Status string

const (
	StatusPublished Status = "Published"
	StatusDraft     Status = "Draft"

	// StatusAll is only meaningful as a filter value.
	StatusAll Status = "All"
)

// Valid reports whether s can be stored on an article.
func (s Status) Valid() bool {
	return s == StatusPublished || s == StatusDraft
}

// Article represents a single listed article.
type Article struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// ArticleInput is the payload accepted for create and update.
type ArticleInput struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Status Status `json:"status"`
}

// NewArticle builds an Article from an input with the given id and creation time.
func NewArticle(id int, in ArticleInput, createdAt time.Time) Article {
	return Article{
		ID:        id,
		Title:     in.Title,
		Author:    in.Author,
		Status:    in.Status,
		CreatedAt: createdAt,
	}
}

// Input strips the server-assigned fields.
func (a Article) Input() ArticleInput {
	return ArticleInput{Title: a.Title, Author: a.Author, Status: a.Status}
}
