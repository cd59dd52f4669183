package models

import "time"

// Sponsor is one row of the sponsors mirror.
type Sponsor struct {
	ID                  string     `db:"id" json:"id"`
	SanityID            string     `db:"sanity_id" json:"sanity_id"`
	Name                string     `db:"name" json:"name"`
	LogoURL             *string    `db:"logo_url" json:"logo_url,omitempty"`
	WebsiteURL          *string    `db:"website_url" json:"website_url,omitempty"`
	Tier                *string    `db:"tier" json:"tier,omitempty"`
	Description         *string    `db:"description" json:"description,omitempty"`
	Fingerprint         string     `db:"fingerprint" json:"-"`
	PreviousFingerprint *string    `db:"previous_fingerprint" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type UpsertSponsorRequest struct {
	SanityID    string  `json:"sanity_id" validate:"required"`
	Name        string  `json:"name" validate:"required"`
	LogoURL     *string `json:"logo_url,omitempty"`
	WebsiteURL  *string `json:"website_url,omitempty"`
	Tier        *string `json:"tier,omitempty"`
	Description *string `json:"description,omitempty"`
}
