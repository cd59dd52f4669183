package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Document types the bridge knows how to mirror. Webhooks for any other
// type are accepted and ignored; the CMS schema grows faster than this
// service does.
const (
	DocTypePlayerProfile = "playerProfile"
	DocTypeSponsor       = "sponsor"
	DocTypeMatchGallery  = "matchGallery"
	DocTypeNewsArticle   = "newsArticle"
)

// Webhook operations. The CMS omits the field on some delivery
// configurations; an absent operation is treated as an update.
const (
	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// DraftPrefix marks the unpublished variant of a document. The bare ID
// (prefix stripped) identifies the logical document across both variants
// and is the only form stored in the relational mirror.
const DraftPrefix = "drafts."

// BareID strips the draft marker from a CMS document ID.
func BareID(id string) string {
	return strings.TrimPrefix(id, DraftPrefix)
}

// IsDraftID reports whether the ID names the draft variant.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, DraftPrefix)
}

// WebhookEvent is one change notification delivered by the CMS.
type WebhookEvent struct {
	ID        string `json:"_id"`
	Type      string `json:"_type"`
	Operation string `json:"operation,omitempty"`
	Revision  string `json:"_rev,omitempty"`

	// Document holds the full delivered payload, including the meta
	// fields above. Deliveries may be partial (IDs only); the dispatcher
	// fetches the full document in that case.
	Document map[string]any `json:"-"`
}

// ParseWebhookEvent decodes a webhook body. It returns an error when the
// payload is not a JSON object or is missing _id or _type.
func ParseWebhookEvent(body []byte) (*WebhookEvent, error) {
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse webhook body: %w", err)
	}

	event := &WebhookEvent{Document: doc}
	event.ID, _ = doc["_id"].(string)
	event.Type, _ = doc["_type"].(string)
	event.Operation, _ = doc["operation"].(string)
	event.Revision, _ = doc["_rev"].(string)

	if event.ID == "" || event.Type == "" {
		return nil, fmt.Errorf("webhook payload missing _id or _type")
	}

	switch event.Operation {
	case "", OperationCreate, OperationUpdate, OperationDelete:
	default:
		return nil, fmt.Errorf("unsupported webhook operation %q", event.Operation)
	}

	return event, nil
}

// BareID returns the event's document ID with any draft marker stripped.
func (e *WebhookEvent) BareID() string {
	return BareID(e.ID)
}

// HasDocumentBody reports whether the delivery carried content fields
// beyond the meta envelope. Partial deliveries require a follow-up fetch
// before transforming.
func (e *WebhookEvent) HasDocumentBody() bool {
	for k := range e.Document {
		if k == "operation" || strings.HasPrefix(k, "_") {
			continue
		}
		return true
	}
	return false
}
