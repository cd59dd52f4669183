package models

import "time"

// Role values derived from the CMS profile. A profile with a playing
// position is a player regardless of any staff role it also carries.
const (
	RolePlayer = "player"
	RoleStaff  = "staff"
)

// DefaultNationality is applied when the CMS profile leaves the field
// unset. The club is Scottish; so is almost everyone in the squad.
const DefaultNationality = "Scotland"

// Person is one row of the people mirror. SanityID is the bare CMS
// document ID and is unique across the table.
type Person struct {
	ID                  string     `db:"id" json:"id"`
	SanityID            string     `db:"sanity_id" json:"sanity_id"`
	FirstName           string     `db:"first_name" json:"first_name"`
	LastName            string     `db:"last_name" json:"last_name"`
	Role                *string    `db:"role" json:"role,omitempty"`
	PlayerPosition      *string    `db:"player_position" json:"player_position,omitempty"`
	StaffRole           *string    `db:"staff_role" json:"staff_role,omitempty"`
	Nationality         string     `db:"nationality" json:"nationality"`
	ProfileImageURL     *string    `db:"profile_image_url" json:"profile_image_url,omitempty"`
	Bio                 *string    `db:"bio" json:"bio,omitempty"`
	DidYouKnow          *string    `db:"did_you_know" json:"did_you_know,omitempty"`
	SocialMediaURL      *string    `db:"social_media_url" json:"social_media_url,omitempty"`
	FavoriteMoment      *string    `db:"favorite_moment" json:"favorite_moment,omitempty"`
	Fingerprint         string     `db:"fingerprint" json:"-"`
	PreviousFingerprint *string    `db:"previous_fingerprint" json:"-"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt           *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// IsPlayer reports whether the row represents a squad member.
func (p *Person) IsPlayer() bool {
	return p.Role != nil && *p.Role == RolePlayer
}

// UpsertPersonRequest carries the transformed CMS profile into the
// people repository. The fingerprint is computed over this struct.
type UpsertPersonRequest struct {
	SanityID        string  `json:"sanity_id" validate:"required"`
	FirstName       string  `json:"first_name" validate:"required"`
	LastName        string  `json:"last_name" validate:"required"`
	Role            *string `json:"role,omitempty"`
	PlayerPosition  *string `json:"player_position,omitempty"`
	StaffRole       *string `json:"staff_role,omitempty"`
	Nationality     string  `json:"nationality" validate:"required"`
	ProfileImageURL *string `json:"profile_image_url,omitempty"`
	Bio             *string `json:"bio,omitempty"`
	DidYouKnow      *string `json:"did_you_know,omitempty"`
	SocialMediaURL  *string `json:"social_media_url,omitempty"`
	FavoriteMoment  *string `json:"favorite_moment,omitempty"`
}
