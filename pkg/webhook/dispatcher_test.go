package webhook

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatonfc/contentbridge/internal/repositories/person"
	"github.com/seatonfc/contentbridge/pkg/logging"
	"github.com/seatonfc/contentbridge/pkg/models"
)

type fakePersonStore struct {
	upserts    []models.UpsertPersonRequest
	tombstones []string
	isNew      bool
}

func (f *fakePersonStore) Upsert(_ context.Context, req models.UpsertPersonRequest) (*person.UpsertResult, error) {
	f.upserts = append(f.upserts, req)
	return &person.UpsertResult{
		Person:    &models.Person{ID: "row-1", SanityID: req.SanityID},
		IsNew:     f.isNew,
		IsChanged: true,
	}, nil
}

func (f *fakePersonStore) Tombstone(_ context.Context, sanityID string) error {
	f.tombstones = append(f.tombstones, sanityID)
	return nil
}

type fakeDeliveryLog struct {
	statuses  map[string]string
	insertErr error
}

func newFakeDeliveryLog() *fakeDeliveryLog {
	return &fakeDeliveryLog{statuses: map[string]string{}}
}

func (f *fakeDeliveryLog) Insert(_ context.Context, req models.CreateWebhookLogRequest) (*models.WebhookLog, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	entry := &models.WebhookLog{ID: "log-" + req.SanityID, Status: models.WebhookStatusReceived}
	f.statuses[entry.ID] = entry.Status
	return entry, nil
}

func (f *fakeDeliveryLog) MarkProcessed(_ context.Context, id, status string) error {
	f.statuses[id] = status
	return nil
}

func (f *fakeDeliveryLog) MarkFailed(_ context.Context, id, message string) error {
	f.statuses[id] = models.WebhookStatusFailed
	return nil
}

type fakeFetcher struct {
	docs    map[string]map[string]any
	fetched []string
}

func (f *fakeFetcher) GetDocument(_ context.Context, id string) (map[string]any, error) {
	f.fetched = append(f.fetched, id)
	return f.docs[id], nil
}

func newDispatcher(t *testing.T, store *fakePersonStore, fetcher DocumentFetcher, log *fakeDeliveryLog) *Dispatcher {
	t.Helper()
	handler := NewPersonHandler(store, validator.New())
	return NewDispatcher(fetcher, log, nil, logging.Noop(), handler)
}

func TestDispatchUpsertsFullDelivery(t *testing.T) {
	store := &fakePersonStore{isNew: true}
	log := newFakeDeliveryLog()
	d := newDispatcher(t, store, &fakeFetcher{}, log)

	event, err := models.ParseWebhookEvent([]byte(`{
		"_id": "person-1",
		"_type": "playerProfile",
		"operation": "create",
		"firstName": "Jamie",
		"lastName": "Nairn",
		"playerPosition": "Midfielder"
	}`))
	require.NoError(t, err)

	outcome, err := d.Dispatch(context.Background(), event)
	require.NoError(t, err)

	assert.True(t, outcome.IsNew)
	assert.True(t, outcome.IsChanged)
	assert.Equal(t, "row-1", outcome.RecordID)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "player", *store.upserts[0].Role)
	assert.Equal(t, models.WebhookStatusProcessed, log.statuses["log-person-1"])
}

func TestDispatchFetchesPartialDelivery(t *testing.T) {
	store := &fakePersonStore{}
	fetcher := &fakeFetcher{docs: map[string]map[string]any{
		"person-2": {
			"_id":       "person-2",
			"_type":     "playerProfile",
			"firstName": "Kenny",
			"lastName":  "Brown",
			"staffRole": "Physio",
		},
	}}
	d := newDispatcher(t, store, fetcher, newFakeDeliveryLog())

	event, err := models.ParseWebhookEvent([]byte(`{"_id":"person-2","_type":"playerProfile","operation":"update"}`))
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), event)
	require.NoError(t, err)

	assert.Equal(t, []string{"person-2"}, fetcher.fetched)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "staff", *store.upserts[0].Role)
}

func TestDispatchDeleteTombstonesBareID(t *testing.T) {
	store := &fakePersonStore{}
	d := newDispatcher(t, store, &fakeFetcher{}, newFakeDeliveryLog())

	event, err := models.ParseWebhookEvent([]byte(`{"_id":"drafts.person-3","_type":"playerProfile","operation":"delete"}`))
	require.NoError(t, err)

	outcome, err := d.Dispatch(context.Background(), event)
	require.NoError(t, err)

	assert.True(t, outcome.Deleted)
	assert.Equal(t, []string{"person-3"}, store.tombstones)
	assert.Empty(t, store.upserts)
}

func TestDispatchUnknownTypeIsBenign(t *testing.T) {
	store := &fakePersonStore{}
	log := newFakeDeliveryLog()
	d := newDispatcher(t, store, &fakeFetcher{}, log)

	event, err := models.ParseWebhookEvent([]byte(`{"_id":"fixture-1","_type":"fixture","operation":"update","homeTeam":"Seaton FC"}`))
	require.NoError(t, err)

	outcome, err := d.Dispatch(context.Background(), event)
	require.NoError(t, err)

	assert.True(t, outcome.Ignored)
	assert.Empty(t, store.upserts)
	assert.Equal(t, models.WebhookStatusIgnored, log.statuses["log-fixture-1"])
}

func TestDispatchSurvivesDeliveryLogInsertFailure(t *testing.T) {
	store := &fakePersonStore{isNew: true}
	log := newFakeDeliveryLog()
	log.insertErr = errors.New("webhook_logs insert failed")
	d := newDispatcher(t, store, &fakeFetcher{}, log)

	event, err := models.ParseWebhookEvent([]byte(`{
		"_id": "person-5",
		"_type": "playerProfile",
		"operation": "create",
		"firstName": "Jamie",
		"lastName": "Nairn"
	}`))
	require.NoError(t, err)

	outcome, err := d.Dispatch(context.Background(), event)
	require.NoError(t, err)

	assert.True(t, outcome.IsNew)
	require.Len(t, store.upserts, 1)
	assert.Equal(t, "person-5", store.upserts[0].SanityID)
	assert.Empty(t, log.statuses)
}

func TestDispatchValidationFailureMarksLogFailed(t *testing.T) {
	store := &fakePersonStore{}
	log := newFakeDeliveryLog()
	d := newDispatcher(t, store, &fakeFetcher{}, log)

	// lastName missing
	event, err := models.ParseWebhookEvent([]byte(`{"_id":"person-4","_type":"playerProfile","operation":"create","firstName":"Solo"}`))
	require.NoError(t, err)

	_, err = d.Dispatch(context.Background(), event)
	require.Error(t, err)
	assert.Equal(t, models.WebhookStatusFailed, log.statuses["log-person-4"])
	assert.Empty(t, store.upserts)
}
