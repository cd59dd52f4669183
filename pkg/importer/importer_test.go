package importer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatonfc/contentbridge/pkg/logging"
	"github.com/seatonfc/contentbridge/pkg/models"
)

type fakeCMS struct {
	mu       sync.Mutex
	token    bool
	existing map[string]string // supabaseId -> document id
	created  []map[string]any
	updated  map[string]map[string]any
	lookups  int
	failNext error
}

func newFakeCMS(token bool) *fakeCMS {
	return &fakeCMS{
		token:    token,
		existing: map[string]string{},
		updated:  map[string]map[string]any{},
	}
}

func (f *fakeCMS) CanWrite() bool { return f.token }

func (f *fakeCMS) FindIDByCrossRef(_ context.Context, _, supabaseID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	return f.existing[supabaseID], nil
}

func (f *fakeCMS) Create(_ context.Context, doc map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return "", err
	}
	f.created = append(f.created, doc)
	return "new-doc", nil
}

func (f *fakeCMS) Update(_ context.Context, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated[id] = fields
	return nil
}

type fakePeople struct {
	players []models.Person
	err     error
}

func (f *fakePeople) ListPlayers(context.Context) ([]models.Person, error) {
	return f.players, f.err
}

type fakeSponsors struct {
	sponsors []models.Sponsor
	err      error
}

func (f *fakeSponsors) List(context.Context) ([]models.Sponsor, error) {
	return f.sponsors, f.err
}

func player(id, first, last string) models.Person {
	return models.Person{ID: id, FirstName: first, LastName: last, Nationality: "Scotland"}
}

func TestImportPlayersWithoutTokenFailsFast(t *testing.T) {
	cms := newFakeCMS(false)
	people := &fakePeople{players: []models.Person{player("p1", "Jamie", "Nairn")}}
	imp := NewImporter(cms, people, &fakeSponsors{}, logging.Noop(), Options{})

	result := imp.ImportPlayers(context.Background(), nil)

	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Errors, "auth")
	assert.Equal(t, 0, result.Stats.Total)
	assert.Zero(t, cms.lookups)
}

func TestImportPlayersCreatesAndUpdates(t *testing.T) {
	cms := newFakeCMS(true)
	cms.existing["p2"] = "doc-existing"
	people := &fakePeople{players: []models.Person{
		player("p1", "Jamie", "Nairn"),
		player("p2", "Kenny", "Brown"),
	}}
	imp := NewImporter(cms, people, &fakeSponsors{}, logging.Noop(), Options{})

	result := imp.ImportPlayers(context.Background(), nil)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Zero(t, result.Failed)
	assert.Equal(t, 2, result.Stats.Total)
	assert.Equal(t, 2, result.Stats.Processed)
	require.Len(t, cms.created, 1)
	assert.Equal(t, "playerProfile", cms.created[0]["_type"])
	assert.Equal(t, "p1", cms.created[0]["supabaseId"])
	assert.Contains(t, cms.updated, "doc-existing")
}

func TestImportPlayersRecordsPerRecordFailures(t *testing.T) {
	cms := newFakeCMS(true)
	people := &fakePeople{players: []models.Person{
		player("p1", "", "Nairn"),
		player("p2", "Kenny", "Brown"),
	}}
	imp := NewImporter(cms, people, &fakeSponsors{}, logging.Noop(), Options{})

	result := imp.ImportPlayers(context.Background(), nil)

	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, 1, result.Created)
	assert.Contains(t, result.Errors, "p1")
	assert.Equal(t, 2, result.Stats.Processed)
}

func TestImportPlayersListFailure(t *testing.T) {
	cms := newFakeCMS(true)
	people := &fakePeople{err: errors.New("connection refused")}
	imp := NewImporter(cms, people, &fakeSponsors{}, logging.Noop(), Options{})

	result := imp.ImportPlayers(context.Background(), nil)

	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Errors, "fetch")
	assert.Equal(t, 0, result.Stats.Total)
}

func TestImportPlayersDryRunWritesNothing(t *testing.T) {
	cms := newFakeCMS(true)
	cms.existing["p2"] = "doc-existing"
	people := &fakePeople{players: []models.Person{
		player("p1", "Jamie", "Nairn"),
		player("p2", "Kenny", "Brown"),
	}}
	imp := NewImporter(cms, people, &fakeSponsors{}, logging.Noop(), Options{})

	result := imp.ImportPlayers(context.Background(), &Options{DryRun: true})

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, cms.created)
	assert.Empty(t, cms.updated)
}

func TestImportPlayersReportsProgress(t *testing.T) {
	cms := newFakeCMS(true)
	people := &fakePeople{players: []models.Person{
		player("p1", "Jamie", "Nairn"),
		player("p2", "Kenny", "Brown"),
		player("p3", "Ross", "Tait"),
	}}
	imp := NewImporter(cms, people, &fakeSponsors{}, logging.Noop(), Options{})

	var mu sync.Mutex
	var snapshots []models.ImportResult
	result := imp.ImportPlayers(context.Background(), &Options{
		BatchSize: 1,
		OnProgress: func(snapshot models.ImportResult) {
			mu.Lock()
			defer mu.Unlock()
			snapshots = append(snapshots, snapshot)
		},
	})

	require.Len(t, snapshots, 3)
	assert.Equal(t, 1, snapshots[0].Stats.Processed)
	assert.Equal(t, 3, snapshots[2].Stats.Processed)
	assert.Equal(t, 3, result.Created)
}

func TestImportSponsors(t *testing.T) {
	cms := newFakeCMS(true)
	sponsors := &fakeSponsors{sponsors: []models.Sponsor{
		{ID: "s1", Name: "Harbour Motors"},
		{ID: "s2"},
	}}
	imp := NewImporter(cms, &fakePeople{}, sponsors, logging.Noop(), Options{})

	result := imp.ImportSponsors(context.Background(), nil)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Failed)
	assert.Contains(t, result.Errors, "s2")
	require.Len(t, cms.created, 1)
	assert.Equal(t, "sponsor", cms.created[0]["_type"])
}
