package webhooklog

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/seatonfc/contentbridge/pkg/database"
	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/tracing"
)

var columns = []string{
	"id", "sanity_id", "document_type", "operation", "status", "error",
	"payload", "received_at", "processed_at",
}

// Repository handles the webhook delivery log
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

// Insert records an incoming delivery with status received.
func (r *Repository) Insert(ctx context.Context, req models.CreateWebhookLogRequest) (*models.WebhookLog, error) {
	ctx, span := tracing.StartSpan(ctx, "webhooklog.Repository.Insert")
	defer span.End()

	now := time.Now().UTC()
	entry := models.WebhookLog{
		ID:           uuid.New().String(),
		SanityID:     req.SanityID,
		DocumentType: req.DocumentType,
		Operation:    req.Operation,
		Status:       models.WebhookStatusReceived,
		Payload:      database.JSONB[map[string]any]{Data: req.Payload},
		ReceivedAt:   now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("webhook_logs")
	sb.Cols("id", "sanity_id", "document_type", "operation", "status", "payload", "received_at")
	sb.Values(entry.ID, entry.SanityID, entry.DocumentType, entry.Operation, entry.Status, entry.Payload, entry.ReceivedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"sanity_id": req.SanityID}).Error("Failed to insert webhook log")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to record webhook")
	}
	return &entry, nil
}

// MarkProcessed finalizes a delivery record with the given terminal
// status (processed or ignored).
func (r *Repository) MarkProcessed(ctx context.Context, id, status string) error {
	ctx, span := tracing.StartSpan(ctx, "webhooklog.Repository.MarkProcessed")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("webhook_logs")
	sb.Set(sb.Assign("status", status), sb.Assign("processed_at", now))
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id, "status": status}).Error("Failed to mark webhook log processed")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update webhook log")
	}
	return nil
}

// MarkFailed finalizes a delivery record with the failure message.
func (r *Repository) MarkFailed(ctx context.Context, id, message string) error {
	ctx, span := tracing.StartSpan(ctx, "webhooklog.Repository.MarkFailed")
	defer span.End()

	now := time.Now().UTC()
	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("webhook_logs")
	sb.Set(
		sb.Assign("status", models.WebhookStatusFailed),
		sb.Assign("error", message),
		sb.Assign("processed_at", now),
	)
	sb.Where(sb.Equal("id", id))

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"id": id}).Error("Failed to mark webhook log failed")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to update webhook log")
	}
	return nil
}

// ListRecent returns the newest deliveries, optionally filtered by
// status.
func (r *Repository) ListRecent(ctx context.Context, status *string, limit int) ([]models.WebhookLog, error) {
	ctx, span := tracing.StartSpan(ctx, "webhooklog.Repository.ListRecent")
	defer span.End()

	if limit < 1 || limit > 500 {
		limit = 50
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(columns...)
	sb.From("webhook_logs")
	if status != nil {
		sb.Where(sb.Equal("status", *status))
	}
	sb.OrderBy("received_at DESC")
	sb.Limit(limit)

	query, args := sb.Build()
	var logs []models.WebhookLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"status": status, "limit": limit}).Error("Failed to list webhook logs")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list webhook logs")
	}
	return logs, nil
}
