package transform

import (
	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/sanity"
)

// PersonFromDocument maps a playerProfile document to an upsert
// request. Role derivation: a playing position makes the profile a
// player even when a staff role is also set; a staff role alone makes
// it staff; neither leaves the role unset.
func PersonFromDocument(doc map[string]any) models.UpsertPersonRequest {
	req := models.UpsertPersonRequest{
		SanityID:        models.BareID(stringField(doc, "_id")),
		FirstName:       stringField(doc, "firstName"),
		LastName:        stringField(doc, "lastName"),
		PlayerPosition:  stringPtrField(doc, "playerPosition"),
		StaffRole:       stringPtrField(doc, "staffRole"),
		Nationality:     stringField(doc, "nationality"),
		ProfileImageURL: sanity.ResolveImageURL(doc["profileImage"]),
		Bio:             stringPtrField(doc, "bio"),
		DidYouKnow:      stringPtrField(doc, "didYouKnow"),
		SocialMediaURL:  stringPtrField(doc, "socialMedia"),
		FavoriteMoment:  stringPtrField(doc, "favoriteMoment"),
	}

	if req.PlayerPosition != nil {
		role := models.RolePlayer
		req.Role = &role
	} else if req.StaffRole != nil {
		role := models.RoleStaff
		req.Role = &role
	}

	if req.Nationality == "" {
		req.Nationality = models.DefaultNationality
	}

	return req
}

// PersonToDocument maps a person row to a CMS playerProfile document
// for the inbound import. The row ID travels in supabaseId so later
// imports update the same document instead of duplicating it.
func PersonToDocument(p *models.Person) map[string]any {
	doc := map[string]any{
		"_type":       models.DocTypePlayerProfile,
		"supabaseId":  p.ID,
		"firstName":   p.FirstName,
		"lastName":    p.LastName,
		"nationality": p.Nationality,
		"accolades":   []any{},
	}
	if p.PlayerPosition != nil {
		doc["playerPosition"] = *p.PlayerPosition
	}
	if p.StaffRole != nil {
		doc["staffRole"] = *p.StaffRole
	}
	if p.Bio != nil {
		doc["bio"] = *p.Bio
	}
	if p.DidYouKnow != nil {
		doc["personalFacts"] = []any{*p.DidYouKnow}
	}
	if p.SocialMediaURL != nil {
		doc["socialMedia"] = *p.SocialMediaURL
	}
	if p.FavoriteMoment != nil {
		doc["favoriteMoment"] = *p.FavoriteMoment
	}
	return doc
}
