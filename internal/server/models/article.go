package models

import "time"

// DateLayout is the wire and storage format of Article.PublishedDate.
const DateLayout = "2006-01-02"

type Article struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	PublishedDate string    `json:"publishedDate"`
	Author        string    `json:"author"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ArticleDraft is the input of article creation.
type ArticleDraft struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	PublishedDate string `json:"publishedDate"`
	Author        string `json:"author"`
}

// ArticlePatch carries a partial article update; nil fields are left untouched.
type ArticlePatch struct {
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	PublishedDate *string `json:"publishedDate,omitempty"`
	Author        *string `json:"author,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ArticlePatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.PublishedDate == nil && p.Author == nil
}

// ArticleFilter narrows article listings by exact match. Empty fields are
// not applied.
type ArticleFilter struct {
	Author        string `json:"author,omitempty"`
	PublishedDate string `json:"publishedDate,omitempty"`
}

// Fields returns the non-empty filter fields keyed by their wire name.
func (f ArticleFilter) Fields() map[string]string {
	m := make(map[string]string, 2)
	if f.Author != "" {
		m["author"] = f.Author
	}
	if f.PublishedDate != "" {
		m["publishedDate"] = f.PublishedDate
	}
	return m
}
