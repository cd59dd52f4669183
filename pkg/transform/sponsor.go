package transform

import (
	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/sanity"
)

// SponsorFromDocument maps a sponsor document to an upsert request.
func SponsorFromDocument(doc map[string]any) models.UpsertSponsorRequest {
	return models.UpsertSponsorRequest{
		SanityID:    models.BareID(stringField(doc, "_id")),
		Name:        stringField(doc, "name"),
		LogoURL:     sanity.ResolveImageURL(doc["logo"]),
		WebsiteURL:  stringPtrField(doc, "website"),
		Tier:        stringPtrField(doc, "tier"),
		Description: stringPtrField(doc, "description"),
	}
}

// SponsorToDocument maps a sponsor row to a CMS document for the
// inbound import.
func SponsorToDocument(s *models.Sponsor) map[string]any {
	doc := map[string]any{
		"_type":      models.DocTypeSponsor,
		"supabaseId": s.ID,
		"name":       s.Name,
	}
	if s.WebsiteURL != nil {
		doc["website"] = *s.WebsiteURL
	}
	if s.Tier != nil {
		doc["tier"] = *s.Tier
	}
	if s.Description != nil {
		doc["description"] = *s.Description
	}
	return doc
}
