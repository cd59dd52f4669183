package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/seatonfc/contentbridge/pkg/models"
)

func TestPersonFromDocumentPlayerRoleWinsOverStaff(t *testing.T) {
	doc := map[string]any{
		"_id":            "person-1",
		"_type":          "playerProfile",
		"firstName":      "Jamie",
		"lastName":       "Nairn",
		"playerPosition": "Midfielder",
		"staffRole":      "Assistant Coach",
	}

	req := PersonFromDocument(doc)
	assert.NotNil(t, req.Role)
	assert.Equal(t, models.RolePlayer, *req.Role)
	assert.Equal(t, "Midfielder", *req.PlayerPosition)
	assert.Equal(t, "Assistant Coach", *req.StaffRole)
}

func TestPersonFromDocumentStaffOnly(t *testing.T) {
	doc := map[string]any{
		"_id":       "person-2",
		"firstName": "Kenny",
		"lastName":  "Brown",
		"staffRole": "Physio",
	}

	req := PersonFromDocument(doc)
	assert.NotNil(t, req.Role)
	assert.Equal(t, models.RoleStaff, *req.Role)
}

func TestPersonFromDocumentNoRole(t *testing.T) {
	doc := map[string]any{
		"_id":       "person-3",
		"firstName": "Ann",
		"lastName":  "Reid",
	}

	req := PersonFromDocument(doc)
	assert.Nil(t, req.Role)
}

func TestPersonFromDocumentNationalityDefault(t *testing.T) {
	req := PersonFromDocument(map[string]any{"_id": "p", "firstName": "A", "lastName": "B"})
	assert.Equal(t, "Scotland", req.Nationality)

	req = PersonFromDocument(map[string]any{"_id": "p", "firstName": "A", "lastName": "B", "nationality": "Ireland"})
	assert.Equal(t, "Ireland", req.Nationality)
}

func TestPersonFromDocumentStripsDraftPrefix(t *testing.T) {
	req := PersonFromDocument(map[string]any{"_id": "drafts.person-9", "firstName": "A", "lastName": "B"})
	assert.Equal(t, "person-9", req.SanityID)
}

func TestPersonFromDocumentImageShapes(t *testing.T) {
	withURL := map[string]any{
		"_id": "p", "firstName": "A", "lastName": "B",
		"profileImage": map[string]any{"asset": map[string]any{"url": "https://cdn.example.com/a.jpg"}},
	}
	req := PersonFromDocument(withURL)
	assert.NotNil(t, req.ProfileImageURL)
	assert.Equal(t, "https://cdn.example.com/a.jpg", *req.ProfileImageURL)

	withRef := map[string]any{
		"_id": "p", "firstName": "A", "lastName": "B",
		"profileImage": map[string]any{"asset": map[string]any{"_ref": "image-abc-100x100-jpg"}},
	}
	assert.Nil(t, PersonFromDocument(withRef).ProfileImageURL)
}

func TestPersonToDocumentCrossRef(t *testing.T) {
	position := "Striker"
	fact := "Once scored from the halfway line"
	p := &models.Person{
		ID:             "row-1",
		SanityID:       "person-1",
		FirstName:      "Jamie",
		LastName:       "Nairn",
		Nationality:    "Scotland",
		PlayerPosition: &position,
		DidYouKnow:     &fact,
	}

	doc := PersonToDocument(p)
	assert.Equal(t, models.DocTypePlayerProfile, doc["_type"])
	assert.Equal(t, "row-1", doc["supabaseId"])
	assert.Equal(t, []any{}, doc["accolades"])
	assert.Equal(t, []any{fact}, doc["personalFacts"])
}
