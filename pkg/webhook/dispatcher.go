// Package webhook turns CMS change deliveries into mirror writes. The
// dispatcher routes by document type; handlers own the per-type
// transform and persistence.
package webhook

import (
	"context"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/seatonfc/contentbridge/pkg/events"
	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/tracing"
)

// Outcome describes what a delivery did to the mirror.
type Outcome struct {
	DocumentType string `json:"document_type"`
	SanityID     string `json:"sanity_id"`
	RecordID     string `json:"record_id,omitempty"`
	IsNew        bool   `json:"is_new"`
	IsChanged    bool   `json:"is_changed"`
	Deleted      bool   `json:"deleted"`
	Ignored      bool   `json:"ignored"`

	// Record is the row after the write, for event emission.
	Record any `json:"-"`
}

// Handler processes deliveries for one document type.
type Handler interface {
	DocumentType() string
	Upsert(ctx context.Context, doc map[string]any) (*Outcome, error)
	Delete(ctx context.Context, bareID string) error
}

// DocumentFetcher fetches a full document when a delivery only carried
// the envelope.
type DocumentFetcher interface {
	GetDocument(ctx context.Context, id string) (map[string]any, error)
}

// DeliveryLog records deliveries for replay and debugging.
type DeliveryLog interface {
	Insert(ctx context.Context, req models.CreateWebhookLogRequest) (*models.WebhookLog, error)
	MarkProcessed(ctx context.Context, id, status string) error
	MarkFailed(ctx context.Context, id, message string) error
}

// Dispatcher routes webhook events to their type handler.
type Dispatcher struct {
	handlers map[string]Handler
	fetcher  DocumentFetcher
	log      DeliveryLog
	emitter  *events.Emitter
	logger   ectologger.Logger
}

func NewDispatcher(fetcher DocumentFetcher, log DeliveryLog, emitter *events.Emitter, logger ectologger.Logger, handlers ...Handler) *Dispatcher {
	byType := make(map[string]Handler, len(handlers))
	for _, h := range handlers {
		byType[h.DocumentType()] = h
	}
	return &Dispatcher{
		handlers: byType,
		fetcher:  fetcher,
		log:      log,
		emitter:  emitter,
		logger:   logger,
	}
}

// Dispatch processes one delivery. Unknown document types succeed
// without touching the mirror so the CMS never retries them.
func (d *Dispatcher) Dispatch(ctx context.Context, event *models.WebhookEvent) (*Outcome, error) {
	ctx, span := tracing.StartSpan(ctx, "webhook.Dispatcher.Dispatch")
	defer span.End()

	log := d.logger.WithContext(ctx).WithFields(map[string]any{
		"sanity_id":     event.ID,
		"document_type": event.Type,
		"operation":     event.Operation,
	})

	// The log is an audit trail. Losing an entry never blocks the
	// mirror write.
	entry, err := d.log.Insert(ctx, models.CreateWebhookLogRequest{
		SanityID:     event.BareID(),
		DocumentType: event.Type,
		Operation:    event.Operation,
		Payload:      event.Document,
	})
	if err != nil {
		log.WithError(err).Warn("Failed to record webhook delivery")
		entry = nil
	}

	handler, ok := d.handlers[event.Type]
	if !ok {
		log.Info("Ignoring webhook for unhandled document type")
		if entry != nil {
			if err := d.log.MarkProcessed(ctx, entry.ID, models.WebhookStatusIgnored); err != nil {
				log.WithError(err).Warn("Failed to finalize webhook log")
			}
		}
		return &Outcome{DocumentType: event.Type, SanityID: event.BareID(), Ignored: true}, nil
	}

	outcome, err := d.process(ctx, handler, event)
	if err != nil {
		if entry != nil {
			if markErr := d.log.MarkFailed(ctx, entry.ID, err.Error()); markErr != nil {
				log.WithError(markErr).Warn("Failed to finalize webhook log")
			}
		}
		return nil, err
	}

	if entry != nil {
		if err := d.log.MarkProcessed(ctx, entry.ID, models.WebhookStatusProcessed); err != nil {
			log.WithError(err).Warn("Failed to finalize webhook log")
		}
	}
	return outcome, nil
}

func (d *Dispatcher) process(ctx context.Context, handler Handler, event *models.WebhookEvent) (*Outcome, error) {
	if event.Operation == models.OperationDelete {
		if err := handler.Delete(ctx, event.BareID()); err != nil {
			return nil, err
		}
		d.emitter.EmitContentDeleted(ctx, event.Type, event.BareID())
		return &Outcome{DocumentType: event.Type, SanityID: event.BareID(), Deleted: true, IsChanged: true}, nil
	}

	doc := event.Document
	if !event.HasDocumentBody() {
		if d.fetcher == nil {
			return nil, httperror.NewHTTPError(http.StatusBadRequest, "webhook delivered no document body")
		}
		fetched, err := d.fetcher.GetDocument(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		if fetched == nil {
			// Deleted between delivery and fetch. Next delivery settles it.
			return nil, httperror.NewHTTPErrorf(http.StatusNotFound, "document %s not found in cms", event.ID)
		}
		doc = fetched
	}

	outcome, err := handler.Upsert(ctx, doc)
	if err != nil {
		return nil, err
	}

	if outcome.IsChanged {
		d.emitter.EmitContentSynced(ctx, outcome.DocumentType, outcome.SanityID, outcome.RecordID, outcome.IsNew, outcome.Record)
	}
	return outcome, nil
}
