package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFolderName(t *testing.T) {
	date := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	assert.Equal(t, "260314_Seaton_FC_Hermes_AFC", FolderName(&date, "Seaton FC", "Hermes AFC"))
	assert.Equal(t, "Unknown_Seaton_FC_Unknown", FolderName(nil, "Seaton FC", ""))
	assert.Equal(t, "260314_Unknown_Unknown", FolderName(&date, "  ", ""))
	assert.Equal(t, "260314_Banks_O'Dee_Seaton_FC", FolderName(&date, "Banks  O'Dee", " Seaton  FC "))
}

func TestGalleryFromDocument(t *testing.T) {
	doc := map[string]any{
		"_id":       "gallery-1",
		"_type":     "matchGallery",
		"matchDate": "2026-03-14",
		"homeTeam":  "Seaton FC",
		"awayTeam":  "Banks O' Dee",
		"photos":    []any{map[string]any{}, map[string]any{}, map[string]any{}},
	}

	req := GalleryFromDocument(doc)
	assert.Equal(t, "gallery-1", req.SanityID)
	assert.Equal(t, "260314_Seaton_FC_Banks_O'_Dee", req.FolderName)
	assert.Equal(t, 3, req.PhotoCount)
	assert.NotNil(t, req.MatchDate)
}
