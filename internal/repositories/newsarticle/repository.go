package newsarticle

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
	"id", "sanity_id", "title", "slug", "excerpt", "body", "hero_image_url",
	"category", "published_at", "fingerprint", "previous_fingerprint",
	"created_at", "updated_at", "deleted_at",
}

// Repository handles news article persistence
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
	Article   *models.NewsArticle
	IsNew     bool
	IsChanged bool
}

// Upsert creates or updates an article keyed by sanity_id.
func (r *Repository) Upsert(ctx context.Context, req models.UpsertNewsArticleRequest) (*UpsertResult, error) {
	ctx, span := tracing.StartSpan(ctx, "newsarticle.Repository.Upsert")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "Upsert",
		"sanity_id": req.SanityID,
	})

	fp, err := fingerprint.ForRequest(req)
	if err != nil {
		log.WithError(err).Error("Failed to fingerprint article data")
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "invalid article data")
	}

	now := time.Now().UTC()
	id := uuid.New().String()

	query := `
		INSERT INTO news_articles (
			id, sanity_id, title, slug, excerpt, body, hero_image_url,
			category, published_at, fingerprint, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (sanity_id)
		DO UPDATE SET
			title = EXCLUDED.title,
			slug = EXCLUDED.slug,
			excerpt = EXCLUDED.excerpt,
			body = EXCLUDED.body,
			hero_image_url = EXCLUDED.hero_image_url,
			category = EXCLUDED.category,
			published_at = EXCLUDED.published_at,
			previous_fingerprint = news_articles.fingerprint,
			fingerprint = EXCLUDED.fingerprint,
			updated_at = EXCLUDED.updated_at,
			deleted_at = NULL
		RETURNING
			id, sanity_id, title, slug, excerpt, body, hero_image_url,
			category, published_at, fingerprint, previous_fingerprint,
			created_at, updated_at, deleted_at,
			(xmax = 0) AS inserted
	`

	var result struct {
		models.NewsArticle
		Inserted bool `db:"inserted"`
	}

	err = r.db.GetContext(ctx, &result, query,
		id, req.SanityID, req.Title, req.Slug, req.Excerpt, req.Body, req.HeroImageURL,
		req.Category, req.PublishedAt, fp, now, now,
	)
	if err != nil {
		log.WithError(err).Error("Failed to upsert article")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert article")
	}

	if result.Inserted {
		log.WithFields(map[string]any{"id": result.ID}).Info("Created article")
		return &UpsertResult{Article: &result.NewsArticle, IsNew: true, IsChanged: true}, nil
	}

	changed := result.PreviousFingerprint == nil ||
		fingerprint.HasChanged(*result.PreviousFingerprint, result.Fingerprint)
	if changed {
		log.WithFields(map[string]any{"id": result.ID}).Info("Updated article")
	}
	return &UpsertResult{Article: &result.NewsArticle, IsNew: false, IsChanged: changed}, nil
}

// GetBySanityID retrieves an article by CMS document ID. Returns nil
// when no live row matches.
func (r *Repository) GetBySanityID(ctx context.Context, sanityID string) (*models.NewsArticle, error) {
	ctx, span := tracing.StartSpan(ctx, "newsarticle.Repository.GetBySanityID")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("news_articles")
	sb.Where(
		sb.Equal("sanity_id", sanityID),
		sb.IsNull("deleted_at"),
	)
	sb.Limit(1)

	query, args := sb.Build()
	var article models.NewsArticle
	if err := r.db.GetContext(ctx, &article, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, nil
		}
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sanity_id": sanityID}).Error("Failed to get article by sanity_id")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get article")
	}
	return &article, nil
}

// List retrieves live articles newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]models.NewsArticle, error) {
	ctx, span := tracing.StartSpan(ctx, "newsarticle.Repository.List")
	defer span.End()

	if limit < 1 || limit > 100 {
		limit = 20
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("news_articles")
	sb.Where(sb.IsNull("deleted_at"))
	sb.OrderBy("published_at DESC NULLS LAST")
	sb.Limit(limit)

	query, args := sb.Build()
	var articles []models.NewsArticle
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list articles")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list articles")
	}
	return articles, nil
}

// Tombstone soft deletes the article for the given CMS document.
func (r *Repository) Tombstone(ctx context.Context, sanityID string) error {
	ctx, span := tracing.StartSpan(ctx, "newsarticle.Repository.Tombstone")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("news_articles")
	sb.Set(sb.Assign("deleted_at", now), sb.Assign("updated_at", now))
	sb.Where(
		sb.Equal("sanity_id", sanityID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sanity_id": sanityID}).Error("Failed to tombstone article")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete article")
	}

	rows, _ := result.RowsAffected()
	if rows > 0 {
		r.logger.WithContext(ctx).WithFields(map[string]any{"sanity_id": sanityID}).Info("Tombstoned article")
	}
	return nil
}
