package sponsor

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
	"id", "sanity_id", "name", "logo_url", "website_url", "tier", "description",
	"fingerprint", "previous_fingerprint", "created_at", "updated_at", "deleted_at",
}

// Repository handles sponsor persistence
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
	Sponsor   *models.Sponsor
	IsNew     bool
	IsChanged bool
}

// Upsert creates or updates a sponsor keyed by sanity_id.
func (r *Repository) Upsert(ctx context.Context, req models.UpsertSponsorRequest) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "sponsor.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "Upsert",
		"sanity_id": req.SanityID,
	})

	fp, err := fingerprint.ForRequest(req)
	if err != nil {
		log.WithError(err).Error("Failed to fingerprint sponsor data")
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "invalid sponsor data")
	}

	now := time.Now().UTC()
	id := uuid.New().String()

	query := `
		INSERT INTO sponsors (
			id, sanity_id, name, logo_url, website_url, tier, description,
			fingerprint, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (sanity_id)
		DO UPDATE SET
			name = EXCLUDED.name,
			logo_url = EXCLUDED.logo_url,
			website_url = EXCLUDED.website_url,
			tier = EXCLUDED.tier,
			description = EXCLUDED.description,
			previous_fingerprint = sponsors.fingerprint,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		RETURNING
			id, sanity_id, name, logo_url, website_url, tier, description,
			fingerprint, previous_fingerprint, created_at, updated_at, deleted_at,
			(xmax = 0) AS inserted
	`

	var result struct {
		models.Sponsor
		Inserted bool `db:"inserted"`
	}

	err = r.db.GetContext(ctx, &result, query,
		id, req.SanityID, req.Name, req.LogoURL, req.WebsiteURL, req.Tier, req.Description,
		fp, now, now,
	)
	if err != nil {
		log.WithError(err).Error("Failed to upsert sponsor")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert sponsor")
	}

	if result.Inserted {
		log.WithFields(map[string]any{"id": result.ID}).Info("Created sponsor")
		return &UpsertResult{Sponsor: &result.Sponsor, IsNew: true, IsChanged: true}, nil
	}

	changed := result.PreviousFingerprint == nil ||
		fingerprint.HasChanged(*result.PreviousFingerprint, result.Fingerprint)
	if changed {
		log.WithFields(map[string]any{"id": result.ID}).Info("Updated sponsor")
	}
	return &UpsertResult{Sponsor: &result.Sponsor, IsNew: false, IsChanged: changed}, nil
}

// GetBySanityID retrieves a sponsor by CMS document ID. Returns nil when
// no live row matches.
func (r *Repository) GetBySanityID(ctx context.Context, sanityID string) (*models.Sponsor, error) {
	ctx, span := tracing.StartSpan(ctx, "sponsor.Repository.GetBySanityID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("sponsors")
	sb.Where(
		sb.Equal("sanity_id", sanityID),
		sb.IsNull("deleted_at"),
	)
	sb.Limit(1)

	query, args := sb.Build()
	var sponsor models.Sponsor
	if err := r.db.GetContext(ctx, &sponsor, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sanity_id": sanityID}).Error("Failed to get sponsor by sanity_id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get sponsor")
	}
	return &sponsor, nil
}

// Get retrieves a sponsor by row ID
func (r *Repository) Get(ctx context.Context, id string) (*models.Sponsor, error) {
	ctx, span := tracing.StartSpan(ctx, "sponsor.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("sponsors")
	sb.Where(
		sb.Equal("id", id),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var sponsor models.Sponsor
	if err := r.db.GetContext(ctx, &sponsor, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "sponsor %s not found", id)
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to get sponsor")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get sponsor")
	}
	return &sponsor, nil
}

// List retrieves all live sponsors ordered by name.
func (r *Repository) List(ctx context.Context) ([]models.Sponsor, error) {
	ctx, span := tracing.StartSpan(ctx, "sponsor.Repository.List")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("sponsors")
	sb.Where(sb.IsNull("deleted_at"))
	sb.OrderBy("name")

	query, args := sb.Build()
	var sponsors []models.Sponsor
	if err := r.db.SelectContext(ctx, &sponsors, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list sponsors")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list sponsors")
	}
	return sponsors, nil
}

// Tombstone soft deletes the sponsor for the given CMS document.
func (r *Repository) Tombstone(ctx context.Context, sanityID string) error {
	ctx, span := tracing.StartSpan(ctx, "sponsor.Repository.Tombstone")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("sponsors")
	sb.Set(sb.Assign("deleted_at", now), sb.Assign("updated_at", now))
	sb.Where(
		sb.Equal("sanity_id", sanityID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sanity_id": sanityID}).Error("Failed to tombstone sponsor")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete sponsor")
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		r.logger.WithContext(ctx).WithFields(map[string]any{"sanity_id": sanityID}).Info("Tombstoned sponsor")
	}
	return nil
}
