package transform

import (
	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/sanity"
)

// NewsFromDocument maps a newsArticle document to an upsert request.
// Portable text body is stored serialized.
func NewsFromDocument(doc map[string]any) models.UpsertNewsArticleRequest {
	return models.UpsertNewsArticleRequest{
		SanityID:     models.BareID(stringField(doc, "_id")),
		Title:        stringField(doc, "title"),
		Slug:         slugField(doc, "slug"),
		Excerpt:      stringPtrField(doc, "excerpt"),
		Body:         jsonPtrField(doc, "body"),
		HeroImageURL: sanity.ResolveImageURL(doc["mainImage"]),
		Category:     stringPtrField(doc, "category"),
		PublishedAt:  timeField(doc, "publishedAt"),
	}
}
