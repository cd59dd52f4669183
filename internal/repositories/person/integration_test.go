//go:build integration

package person

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/seatonfc/contentbridge/pkg/database"
	"github.com/seatonfc/contentbridge/pkg/logging"
	"github.com/seatonfc/contentbridge/pkg/models"
)

type PersonRepositorySuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        database.DB
	repo      *Repository
}

func (s *PersonRepositorySuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../db/pg")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "000001_create_people.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	sqlxDB, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)

	s.db = database.NewDatabaseInstance(sqlxDB, logging.Noop())
	s.repo = NewRepository(s.db, logging.Noop())
}

func (s *PersonRepositorySuite) TearDownSuite() {
	if s.db != nil {
		_ = s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PersonRepositorySuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM people")
}

func TestPersonRepositorySuite(t *testing.T) {
	suite.Run(t, new(PersonRepositorySuite))
}

func playerRequest(sanityID, position string) models.UpsertPersonRequest {
	role := models.RolePlayer
	return models.UpsertPersonRequest{
		SanityID:       sanityID,
		FirstName:      "Jamie",
		LastName:       "Nairn",
		Role:           &role,
		PlayerPosition: &position,
		Nationality:    models.DefaultNationality,
	}
}

func (s *PersonRepositorySuite) TestUpsert_SecondDeliveryUpdatesNotInserts() {
	first, err := s.repo.Upsert(s.ctx, playerRequest("person-1", "Midfielder"))
	s.NoError(err)
	s.True(first.IsNew)
	s.True(first.IsChanged)

	second, err := s.repo.Upsert(s.ctx, playerRequest("person-1", "Striker"))
	s.NoError(err)
	s.False(second.IsNew)
	s.True(second.IsChanged)
	s.Equal(first.Person.ID, second.Person.ID)

	var count int
	s.NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM people WHERE sanity_id = $1", "person-1"))
	s.Equal(1, count)

	var position string
	s.NoError(s.db.GetContext(s.ctx, &position, "SELECT player_position FROM people WHERE sanity_id = $1", "person-1"))
	s.Equal("Striker", position)
}

func (s *PersonRepositorySuite) TestUpsert_DraftAndPublishedShareOneRow() {
	// Deliveries for drafts.person-2 and person-2 carry the same bare
	// ID once the draft prefix is stripped.
	draft, err := s.repo.Upsert(s.ctx, playerRequest(models.BareID("drafts.person-2"), "Keeper"))
	s.NoError(err)
	s.True(draft.IsNew)

	published, err := s.repo.Upsert(s.ctx, playerRequest(models.BareID("person-2"), "Keeper"))
	s.NoError(err)
	s.False(published.IsNew)
	s.Equal(draft.Person.ID, published.Person.ID)

	var count int
	s.NoError(s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM people"))
	s.Equal(1, count)
}

func (s *PersonRepositorySuite) TestUpsert_IdenticalPayloadIsUnchanged() {
	_, err := s.repo.Upsert(s.ctx, playerRequest("person-3", "Winger"))
	s.NoError(err)

	replay, err := s.repo.Upsert(s.ctx, playerRequest("person-3", "Winger"))
	s.NoError(err)
	s.False(replay.IsNew)
	s.False(replay.IsChanged)
}

func (s *PersonRepositorySuite) TestUpsert_RevivesTombstonedRow() {
	created, err := s.repo.Upsert(s.ctx, playerRequest("person-4", "Defender"))
	s.NoError(err)

	s.NoError(s.repo.Tombstone(s.ctx, "person-4"))

	gone, err := s.repo.GetBySanityID(s.ctx, "person-4")
	s.NoError(err)
	s.Nil(gone)

	revived, err := s.repo.Upsert(s.ctx, playerRequest("person-4", "Defender"))
	s.NoError(err)
	s.False(revived.IsNew)
	s.Equal(created.Person.ID, revived.Person.ID)
	s.Nil(revived.Person.DeletedAt)
}
