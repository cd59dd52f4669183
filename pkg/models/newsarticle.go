package models

import "time"

// NewsArticle is one row of the news mirror. Body carries the portable
// text content serialized as JSON.
type NewsArticle struct {
	ID                  string     `db:"id" json:"id"`
	SanityID            string     `db:"sanity_id" json:"sanity_id"`
	Title               string     `db:"title" json:"title"`
	Slug                *string    `db:"slug" json:"slug,omitempty"`
	Excerpt             *string    `db:"excerpt" json:"excerpt,omitempty"`
	Body                *string    `db:"body" json:"body,omitempty"`
	HeroImageURL        *string    `db:"hero_image_url" json:"hero_image_url,omitempty"`
	Category            *string    `db:"category" json:"category,omitempty"`
	PublishedAt         *time.Time `db:"published_at" json:"published_at,omitempty"`
	Fingerprint         string     `db:"fingerprint" json:"-"`
	PreviousFingerprint *string    `db:"previous_fingerprint" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

type UpsertNewsArticleRequest struct {
	SanityID     string     `json:"sanity_id" validate:"required"`
	Title        string     `json:"title" validate:"required"`
	Slug         *string    `json:"slug,omitempty"`
	Excerpt      *string    `json:"excerpt,omitempty"`
	Body         *string    `json:"body,omitempty"`
	HeroImageURL *string    `json:"hero_image_url,omitempty"`
	Category     *string    `json:"category,omitempty"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
}
