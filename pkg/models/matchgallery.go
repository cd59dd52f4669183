package models

import "time"

// MatchGallery is one row of the match photo gallery mirror. FolderName
// is derived from the match date and team names and identifies the
// storage folder holding the photos.
type MatchGallery struct {
	ID                  string     `db:"id" json:"id"`
	SanityID            string     `db:"sanity_id" json:"sanity_id"`
	MatchDate           *time.Time `db:"match_date" json:"match_date,omitempty"`
	HomeTeam            string     `db:"home_team" json:"home_team"`
	AwayTeam            string     `db:"away_team" json:"away_team"`
	FolderName          string     `db:"folder_name" json:"folder_name"`
	CoverImageURL       *string    `db:"cover_image_url" json:"cover_image_url,omitempty"`
	PhotoCount          int        `db:"photo_count" json:"photo_count"`
	Fingerprint         string     `db:"fingerprint" json:"-"`
	PreviousFingerprint *string    `db:"previous_fingerprint" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type UpsertMatchGalleryRequest struct {
	SanityID      string     `json:"sanity_id" validate:"required"`
	MatchDate     *time.Time `json:"match_date,omitempty"`
	HomeTeam      string     `json:"home_team"`
	AwayTeam      string     `json:"away_team"`
	FolderName    string     `json:"folder_name" validate:"required"`
	CoverImageURL *string    `json:"cover_image_url,omitempty"`
	PhotoCount    int        `json:"photo_count"`
}
