package transform

import (
	"fmt"
	"strings"
	"time"

	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/sanity"
)

// GalleryFromDocument maps a matchGallery document to an upsert
// request. The storage folder name is derived from the match date and
// team names.
func GalleryFromDocument(doc map[string]any) models.UpsertMatchGalleryRequest {
	matchDate := timeField(doc, "matchDate")
	homeTeam := stringField(doc, "homeTeam")
	awayTeam := stringField(doc, "awayTeam")

	photos, _ := doc["photos"].([]any)

	return models.UpsertMatchGalleryRequest{
		SanityID:      models.BareID(stringField(doc, "_id")),
		MatchDate:     matchDate,
		HomeTeam:      homeTeam,
		AwayTeam:      awayTeam,
		FolderName:    FolderName(matchDate, homeTeam, awayTeam),
		CoverImageURL: sanity.ResolveImageURL(doc["coverImage"]),
		PhotoCount:    len(photos),
	}
}

// FolderName builds the storage folder for a match's photos:
// YYMMDD_Home_Team_Away_Team. Spaces in team names become underscores;
// missing values fall back to "Unknown".
func FolderName(matchDate *time.Time, homeTeam, awayTeam string) string {
	datePart := "Unknown"
	if matchDate != nil {
		datePart = matchDate.Format("060102")
	}
	return fmt.Sprintf("%s_%s_%s", datePart, folderPart(homeTeam), folderPart(awayTeam))
}

func folderPart(team string) string {
	// Runs of whitespace collapse to a single underscore.
	words := strings.Fields(team)
	if len(words) == 0 {
		return "Unknown"
	}
	return strings.Join(words, "_")
}
