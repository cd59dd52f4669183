package models

import (
	"time"

	"github.com/seatonfc/contentbridge/pkg/database"
)

// Webhook log statuses.
const (
	WebhookStatusReceived  = "received"
	WebhookStatusProcessed = "processed"
	WebhookStatusFailed    = "failed"
	WebhookStatusIgnored   = "ignored"
)

// WebhookLog records one webhook delivery for replay and debugging.
// Payload keeps the raw document as delivered.
type WebhookLog struct {
	ID           string                         `db:"id" json:"id"`
	SanityID     string                         `db:"sanity_id" json:"sanity_id"`
	DocumentType string                         `db:"document_type" json:"document_type"`
	Operation    string                         `db:"operation" json:"operation"`
	Status       string                         `db:"status" json:"status"`
	Error        *string                        `db:"error" json:"error,omitempty"`
	Payload      database.JSONB[map[string]any] `db:"payload" json:"payload"`
	ReceivedAt   time.Time                      `db:"received_at" json:"received_at"`
	ProcessedAt  *time.Time                     `db:"processed_at" json:"processed_at,omitempty"`
}

type CreateWebhookLogRequest struct {
	SanityID     string         `json:"sanity_id" validate:"required"`
	DocumentType string         `json:"document_type" validate:"required"`
	Operation    string         `json:"operation"`
	Payload      map[string]any `json:"payload"`
}
