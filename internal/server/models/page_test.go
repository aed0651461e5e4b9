package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 7, 15},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit), "total=%d limit=%d", tt.total, tt.limit)
	}
}

func TestPageQuery_Offset(t *testing.T) {
	assert.Equal(t, 0, PageQuery{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, PageQuery{Page: 3, Limit: 10}.Offset())
}

func TestNewPage_NilDataBecomesEmpty(t *testing.T) {
	p := NewPage[Article](nil, 0, PageQuery{Page: 1, Limit: 10})
	assert.NotNil(t, p.Data)
	assert.Len(t, p.Data, 0)
	assert.Equal(t, 0, p.TotalPages)
}

func TestArticleFilter_Fields(t *testing.T) {
	assert.Empty(t, ArticleFilter{}.Fields())
	assert.Equal(t, map[string]string{"author": "X"}, ArticleFilter{Author: "X"}.Fields())
	assert.Equal(t,
		map[string]string{"author": "X", "publishedDate": "2024-01-01"},
		ArticleFilter{Author: "X", PublishedDate: "2024-01-01"}.Fields())
}

func TestArticlePatch_Empty(t *testing.T) {
	assert.True(t, ArticlePatch{}.Empty())
	title := "B"
	assert.False(t, ArticlePatch{Title: &title}.Empty())
}
