package person

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/seatonfc/contentbridge/pkg/database"
	"github.com/seatonfc/contentbridge/pkg/fingerprint"
	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/tracing"
)

var columns = []string{
	"id", "sanity_id", "first_name", "last_name", "role", "player_position",
	"staff_role", "nationality", "profile_image_url", "bio", "did_you_know",
	"social_media_url", "favorite_moment", "fingerprint", "previous_fingerprint",
	"created_at", "updated_at", "deleted_at",
}

// Repository handles people persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new people repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// UpsertResult contains the result of an upsert operation
type UpsertResult struct {
	Person    *models.Person
	IsNew     bool
	IsChanged bool
}

// Upsert creates or updates a person keyed by sanity_id. A tombstoned
// row is revived when the document reappears.
func (r *Repository) Upsert(ctx context.Context, req models.UpsertPersonRequest) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "Upsert",
		"sanity_id": req.SanityID,
	})

	fp, err := fingerprint.ForRequest(req)
	if err != nil {
		log.WithError(err).Error("Failed to fingerprint person data")
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "invalid person data")
	}

	now := time.Now().UTC()
	id := uuid.New().String()

	query := `
		INSERT INTO people (
			id, sanity_id, first_name, last_name, role, player_position,
			staff_role, nationality, profile_image_url, bio, did_you_know,
			social_media_url, favorite_moment, fingerprint, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (sanity_id)
		DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			role = EXCLUDED.role,
			player_position = EXCLUDED.player_position,
			staff_role = EXCLUDED.staff_role,
			nationality = EXCLUDED.nationality,
			profile_image_url = EXCLUDED.profile_image_url,
			bio = EXCLUDED.bio,
			did_you_know = EXCLUDED.did_you_know,
			social_media_url = EXCLUDED.social_media_url,
			favorite_moment = EXCLUDED.favorite_moment,
			previous_fingerprint = people.fingerprint,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		RETURNING
			id, sanity_id, first_name, last_name, role, player_position,
			staff_role, nationality, profile_image_url, bio, did_you_know,
			social_media_url, favorite_moment, fingerprint, previous_fingerprint,
			created_at, updated_at, deleted_at,
			(xmax = 0) AS inserted
	`

	var result struct {
		models.Person
		Inserted bool `db:"inserted"`
	}

	err = r.db.GetContext(ctx, &result, query,
		id, req.SanityID, req.FirstName, req.LastName, req.Role, req.PlayerPosition,
		req.StaffRole, req.Nationality, req.ProfileImageURL, req.Bio, req.DidYouKnow,
		req.SocialMediaURL, req.FavoriteMoment, fp, now, now,
	)
	if err != nil {
		log.WithError(err).Error("Failed to upsert person")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert person")
	}

	if result.Inserted {
		log.WithFields(map[string]any{"id": result.ID}).Info("Created person")
		return &UpsertResult{Person: &result.Person, IsNew: true, IsChanged: true}, nil
	}

	changed := result.PreviousFingerprint == nil ||
		fingerprint.HasChanged(*result.PreviousFingerprint, result.Fingerprint)
	if changed {
		log.WithFields(map[string]any{"id": result.ID}).Info("Updated person")
	} else {
		log.WithFields(map[string]any{"id": result.ID}).Debug("Person unchanged")
	}
	return &UpsertResult{Person: &result.Person, IsNew: false, IsChanged: changed}, nil
}

// GetBySanityID retrieves a person by CMS document ID. Returns nil when
// no live row matches.
func (r *Repository) GetBySanityID(ctx context.Context, sanityID string) (*models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.GetBySanityID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("people")
	sb.Where(
		sb.Equal("sanity_id", sanityID),
		sb.IsNull("deleted_at"),
	)
	sb.Limit(1)

	query, args := sb.Build()
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sanity_id": sanityID}).Error("Failed to get person by sanity_id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get person")
	}
	return &person, nil
}

// Get retrieves a person by row ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("people")
	sb.Where(
		sb.Equal("id", id),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var person models.Person
	if err := r.db.GetContext(ctx, &person, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "person %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get person")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get person")
	}
	return &person, nil
}

// List retrieves all live people, optionally filtered by role.
func (r *Repository) List(ctx context.Context, role *string) ([]models.Person, error) {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("people")
	where := []string{sb.IsNull("deleted_at")}
	if role != nil {
		where = append(where, sb.Equal("role", *role))
	}
	sb.Where(where...)
	sb.OrderBy("last_name", "first_name")

	query, args := sb.Build()
	var people []models.Person
	if err := r.db.SelectContext(ctx, &people, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"role": role}).Error("Failed to list people")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list people")
	}
	return people, nil
}

// ListPlayers retrieves the current squad.
func (r *Repository) ListPlayers(ctx context.Context) ([]models.Person, error) {
	role := models.RolePlayer
	return r.List(ctx, &role)
}

// Tombstone soft deletes the person for the given CMS document. Deleting
// a document the mirror never saw is a no-op.
func (r *Repository) Tombstone(ctx context.Context, sanityID string) error {
	ctx, span := tracing.StartSpan(ctx, "person.Repository.Tombstone")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("people")
	sb.Set(sb.Assign("deleted_at", now), sb.Assign("updated_at", now))
	sb.Where(
		sb.Equal("sanity_id", sanityID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sanity_id": sanityID}).Error("Failed to tombstone person")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete person")
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		r.logger.WithContext(ctx).WithFields(map[string]any{"sanity_id": sanityID}).Info("Tombstoned person")
	}
	return nil
}
