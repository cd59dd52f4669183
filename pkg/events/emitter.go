// Package events emits content lifecycle events. A nil Emitter is
// valid and drops everything; the bridge runs fine without Kafka.
package events

import (
	"context"
	"encoding/json"

	"github.com/Gobusters/ectologger"

	"github.com/seatonfc/contentbridge/pkg/kafka"
	"github.com/seatonfc/contentbridge/pkg/tracing"
)

const (
	EventContentSynced  = "content.synced"
	EventContentDeleted = "content.deleted"
)

// Emitter publishes content events. Emission failures are logged, not
// propagated; a broken broker must never fail a webhook.
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitContentSynced announces a created or updated mirror row.
func (e *Emitter) EmitContentSynced(ctx context.Context, docType, sanityID, recordID string, isNew bool, record any) {
	if e == nil || e.producer == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitContentSynced")
	defer span.End()

	var data json.RawMessage
	if record != nil {
		data, _ = json.Marshal(record)
	}

	event := &kafka.ContentEvent{
		EventType:    EventContentSynced,
		DocumentType: docType,
		SanityID:     sanityID,
		RecordID:     recordID,
		IsNew:        isNew,
		Data:         data,
	}

	if err := e.producer.PublishContentEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_type": docType,
			"sanity_id":     sanityID,
		}).Error("Failed to emit content.synced event")
	}
}

// EmitContentDeleted announces a tombstoned mirror row.
func (e *Emitter) EmitContentDeleted(ctx context.Context, docType, sanityID string) {
	if e == nil || e.producer == nil {
		return
	}

	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitContentDeleted")
	defer span.End()

	event := &kafka.ContentEvent{
		EventType:    EventContentDeleted,
		DocumentType: docType,
		SanityID:     sanityID,
	}

	if err := e.producer.PublishContentEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"document_type": docType,
			"sanity_id":     sanityID,
		}).Error("Failed to emit content.deleted event")
	}
}
