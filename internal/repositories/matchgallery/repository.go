package matchgallery

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
	"id", "sanity_id", "match_date", "home_team", "away_team", "folder_name",
	"cover_image_url", "photo_count", "fingerprint", "previous_fingerprint",
	"created_at", "updated_at", "deleted_at",
}

// Repository handles match gallery persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

type UpsertResult struct {
	Gallery   *models.MatchGallery
	IsNew     bool
	IsChanged bool
}

// Upsert creates or updates a gallery keyed by sanity_id.
func (r *Repository) Upsert(ctx context.Context, req models.UpsertMatchGalleryRequest) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matchgallery.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "Upsert",
		"sanity_id": req.SanityID,
	})

	fp, err := fingerprint.ForRequest(req)
	if err != nil {
		log.WithError(err).Error("Failed to fingerprint gallery data")
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "invalid gallery data")
	}

	now := time.Now().UTC()
	id := uuid.New().String()

	query := `
		INSERT INTO match_galleries (
			id, sanity_id, match_date, home_team, away_team, folder_name,
			cover_image_url, photo_count, fingerprint, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (sanity_id)
		DO UPDATE SET
			match_date = EXCLUDED.match_date,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			folder_name = EXCLUDED.folder_name,
			cover_image_url = EXCLUDED.cover_image_url,
			photo_count = EXCLUDED.photo_count,
			previous_fingerprint = match_galleries.fingerprint,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		RETURNING
			id, sanity_id, match_date, home_team, away_team, folder_name,
			cover_image_url, photo_count, fingerprint, previous_fingerprint,
			created_at, updated_at, deleted_at,
			(xmax = 0) AS inserted
	`

	var result struct {
		models.MatchGallery
		Inserted bool `db:"inserted"`
	}

	err = r.db.GetContext(ctx, &result, query,
		id, req.SanityID, req.MatchDate, req.HomeTeam, req.AwayTeam, req.FolderName,
		req.CoverImageURL, req.PhotoCount, fp, now, now,
	)
	if err != nil {
		log.WithError(err).Error("Failed to upsert gallery")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert gallery")
	}

	if result.Inserted {
		log.WithFields(map[string]any{"id": result.ID}).Info("Created gallery")
		return &UpsertResult{Gallery: &result.MatchGallery, IsNew: true, IsChanged: true}, nil
	}

	changed := result.PreviousFingerprint == nil ||
		fingerprint.HasChanged(*result.PreviousFingerprint, result.Fingerprint)
	if changed {
		log.WithFields(map[string]any{"id": result.ID}).Info("Updated gallery")
	}
	return &UpsertResult{Gallery: &result.MatchGallery, IsNew: false, IsChanged: changed}, nil
}

// GetBySanityID retrieves a gallery by CMS document ID. Returns nil when
// no live row matches.
func (r *Repository) GetBySanityID(ctx context.Context, sanityID string) (*models.MatchGallery, error) {
	ctx, span := tracing.StartSpan(ctx, "matchgallery.Repository.GetBySanityID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("match_galleries")
	sb.Where(
		sb.Equal("sanity_id", sanityID),
		sb.IsNull("deleted_at"),
	)
	sb.Limit(1)

	query, args := sb.Build()
	var gallery models.MatchGallery
	if err := r.db.GetContext(ctx, &gallery, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sanity_id": sanityID}).Error("Failed to get gallery by sanity_id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get gallery")
	}
	return &gallery, nil
}

// List retrieves live galleries newest match first.
func (r *Repository) List(ctx context.Context) ([]models.MatchGallery, error) {
	ctx, span := tracing.StartSpan(ctx, "matchgallery.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("match_galleries")
	sb.Where(sb.IsNull("deleted_at"))
	sb.OrderBy("match_date DESC NULLS LAST")

	query, args := sb.Build()
	var galleries []models.MatchGallery
	if err := r.db.SelectContext(ctx, &galleries, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list galleries")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list galleries")
	}
	return galleries, nil
}

// Tombstone soft deletes the gallery for the given CMS document.
func (r *Repository) Tombstone(ctx context.Context, sanityID string) error {
	ctx, span := tracing.StartSpan(ctx, "matchgallery.Repository.Tombstone")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("match_galleries")
	sb.Set(sb.Assign("deleted_at", now), sb.Assign("updated_at", now))
	sb.Where(
		sb.Equal("sanity_id", sanityID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sanity_id": sanityID}).Error("Failed to tombstone gallery")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete gallery")
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		r.logger.WithContext(ctx).WithFields(map[string]any{"sanity_id": sanityID}).Info("Tombstoned gallery")
	}
	return nil
}
