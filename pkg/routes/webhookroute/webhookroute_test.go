package webhookroute

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatonfc/contentbridge/internal/repositories/person"
	"github.com/seatonfc/contentbridge/pkg/logging"
	"github.com/seatonfc/contentbridge/pkg/models"
	"github.com/seatonfc/contentbridge/pkg/webhook"
)

const testSecret = "hooksecret"

type stubPersonStore struct {
	upserts    int
	tombstones int
	upsertErr  error
}

func (s *stubPersonStore) Upsert(_ context.Context, req models.UpsertPersonRequest) (*person.UpsertResult, error) {
	if s.upsertErr != nil {
		return nil, s.upsertErr
	}
	s.upserts++
	return &person.UpsertResult{
		Person:    &models.Person{ID: "row-1", SanityID: req.SanityID},
		IsNew:     true,
		IsChanged: true,
	}, nil
}

func (s *stubPersonStore) Tombstone(context.Context, string) error {
	s.tombstones++
	return nil
}

type stubDeliveryLog struct{}

func (stubDeliveryLog) Insert(_ context.Context, req models.CreateWebhookLogRequest) (*models.WebhookLog, error) {
	return &models.WebhookLog{ID: "log-1"}, nil
}
func (stubDeliveryLog) MarkProcessed(context.Context, string, string) error { return nil }
func (stubDeliveryLog) MarkFailed(context.Context, string, string) error    { return nil }

func sign(body string) string {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestHandler(store *stubPersonStore) *Handler {
	logger := logging.Noop()
	dispatcher := webhook.NewDispatcher(nil, stubDeliveryLog{}, nil, logger,
		webhook.NewPersonHandler(store, validator.New()))
	return NewHandler(dispatcher, testSecret, logger)
}

func post(t *testing.T, h *Handler, body, signature string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/cms", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(webhook.SignatureHeader, signature)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Receive(c)
	require.NoError(t, err)
	return rec
}

func TestReceiveValidDelivery(t *testing.T) {
	store := &stubPersonStore{}
	h := newTestHandler(store)

	body := `{"_id":"person-1","_type":"playerProfile","operation":"create","firstName":"Jamie","lastName":"Nairn"}`
	rec := post(t, h, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, 1, store.upserts)
}

func TestReceiveRejectsBadSignature(t *testing.T) {
	store := &stubPersonStore{}
	h := newTestHandler(store)

	body := `{"_id":"person-1","_type":"playerProfile"}`
	rec := post(t, h, body, sign(body+"tampered"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, store.upserts)
}

func TestReceiveRejectsMissingSignature(t *testing.T) {
	store := &stubPersonStore{}
	h := newTestHandler(store)

	body := `{"_id":"person-1","_type":"playerProfile"}`
	rec := post(t, h, body, "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestReceiveRejectsMalformedPayload(t *testing.T) {
	store := &stubPersonStore{}
	h := newTestHandler(store)

	body := `{"_type":"playerProfile"}` // no _id
	rec := post(t, h, body, sign(body))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Invalid webhook payload", resp["error"])
}

func TestReceiveStoreFailureKeepsResponseShape(t *testing.T) {
	store := &stubPersonStore{
		upsertErr: httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert person"),
	}
	h := newTestHandler(store)

	body := `{"_id":"person-1","_type":"playerProfile","operation":"create","firstName":"Jamie","lastName":"Nairn"}`
	rec := post(t, h, body, sign(body))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "failed to upsert person", resp["error"])
	assert.NotContains(t, resp, "message")
}

func TestReceiveUnknownTypeSucceeds(t *testing.T) {
	store := &stubPersonStore{}
	h := newTestHandler(store)

	body := `{"_id":"fixture-1","_type":"fixture","homeTeam":"Seaton FC"}`
	rec := post(t, h, body, sign(body))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, store.upserts)
}
