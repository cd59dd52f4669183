package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewsFromDocument(t *testing.T) {
	doc := map[string]any{
		"_id":         "news-1",
		"_type":       "newsArticle",
		"title":       "Cup final preview",
		"slug":        map[string]any{"current": "cup-final-preview"},
		"excerpt":     "Everything you need to know.",
		"body":        []any{map[string]any{"_type": "block", "children": []any{}}},
		"category":    "match-preview",
		"publishedAt": "2026-03-10T09:00:00Z",
	}

	req := NewsFromDocument(doc)
	assert.Equal(t, "news-1", req.SanityID)
	assert.Equal(t, "Cup final preview", req.Title)
	assert.Equal(t, "cup-final-preview", *req.Slug)
	assert.NotNil(t, req.Body)
	assert.JSONEq(t, `[{"_type":"block","children":[]}]`, *req.Body)
	assert.NotNil(t, req.PublishedAt)
}

func TestNewsFromDocumentSparse(t *testing.T) {
	req := NewsFromDocument(map[string]any{"_id": "news-2", "title": "Short one"})
	assert.Nil(t, req.Slug)
	assert.Nil(t, req.Body)
	assert.Nil(t, req.PublishedAt)
}
