package sqlstore

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
	"planets/internal/platform/migrations"
	id "planets/pkg/domain"
	"planets/pkg/platform/sentinel"
)

// SQLiteStoreSuite runs the store against a real embedded database.
type SQLiteStoreSuite struct {
	suite.Suite
	db    *sql.DB
	store *Store
	ctx   context.Context
}

func TestSQLiteStoreSuite(t *testing.T) {
	suite.Run(t, new(SQLiteStoreSuite))
}

func (s *SQLiteStoreSuite) SetupTest() {
	s.ctx = context.Background()
	db, err := Open(s.ctx, SQLite, filepath.Join(s.T().TempDir(), "planets.db"), 0)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = db.Close() })
	s.Require().NoError(migrations.Apply(s.ctx, db, string(SQLite)))
	s.db = db
	s.store = NewSQLite(db)
}

func (s *SQLiteStoreSuite) insert(name, climate, terrain string) *models.Planet {
	now := time.Now().UTC().Truncate(time.Millisecond)
	p, err := s.store.Insert(s.ctx, &models.Planet{Name: name, Climate: climate, Terrain: terrain, CreatedAt: now, UpdatedAt: now})
	s.Require().NoError(err)
	return p
}

func (s *SQLiteStoreSuite) TestRoundTrip() {
	p := s.insert("Tatooine", "arid", "desert")

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)
	s.Equal("Tatooine", found.Name)
	s.True(p.CreatedAt.Equal(found.CreatedAt))

	_, err = s.store.FindByID(s.ctx, id.NewPlanetID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *SQLiteStoreSuite) TestFindByNameSubstring() {
	s.insert("Tatooine", "arid", "desert")
	alderaan := s.insert("Alderaan", "temperate", "grasslands")

	found, err := s.store.FindOneByNameSubstring(s.ctx, "DERA")
	s.Require().NoError(err)
	s.Equal(alderaan.ID, found.ID)

	found, err = s.store.FindOneByNameSubstring(s.ctx, "a")
	s.Require().NoError(err)
	s.Equal("Alderaan", found.Name, "first by name")

	_, err = s.store.FindOneByNameSubstring(s.ctx, "kamino")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *SQLiteStoreSuite) TestScanConjunctionAndPaging() {
	s.insert("Tatooine", "arid", "desert")
	s.insert("Geonosis", "temperate, arid", "rock, desert, mountain")
	s.insert("Hoth", "frozen", "tundra")
	s.insert("Jakku", "arid", "desert")

	pred := predicate.MatchAll().And(predicate.FieldClimate, "ARID").And(predicate.FieldTerrain, "desert")
	planets, total, err := s.store.Scan(s.ctx, pred, models.PageRequest{Size: 2})
	s.Require().NoError(err)
	s.Equal(int64(3), total)
	s.Require().Len(planets, 2)
	s.Equal("Geonosis", planets[0].Name)
	s.Equal("Jakku", planets[1].Name)

	planets, _, err = s.store.Scan(s.ctx, pred, models.PageRequest{Page: 1, Size: 2})
	s.Require().NoError(err)
	s.Require().Len(planets, 1)
	s.Equal("Tatooine", planets[0].Name)

	all, total, err := s.store.Scan(s.ctx, predicate.MatchAll(), models.PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(4), total)
	s.Len(all, 4)
}

func (s *SQLiteStoreSuite) TestScanHugePageIsEmpty() {
	s.insert("Tatooine", "arid", "desert")
	s.insert("Hoth", "frozen", "tundra")

	planets, total, err := s.store.Scan(s.ctx, predicate.MatchAll(), models.PageRequest{Page: math.MaxInt / 2, Size: 15})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Empty(planets)
}

func (s *SQLiteStoreSuite) TestNonASCIIFoldsCase() {
	eriadu := s.insert("ÉRIADU", "polluted", "urban")
	s.insert("ÖDLAND", "ÅRID", "dünes")
	s.insert("Hoth", "frozen", "tundra")

	found, err := s.store.FindOneByNameSubstring(s.ctx, "éri")
	s.Require().NoError(err)
	s.Equal(eriadu.ID, found.ID)

	planets, total, err := s.store.Scan(s.ctx, predicate.MatchAll().And(predicate.FieldName, "ödl").And(predicate.FieldClimate, "årid").And(predicate.FieldTerrain, "DÜN"), models.PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(planets, 1)
	s.Equal("ÖDLAND", planets[0].Name)

	all, _, err := s.store.Scan(s.ctx, predicate.MatchAll(), models.PageRequest{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal([]string{"Hoth", "ÉRIADU", "ÖDLAND"}, []string{all[0].Name, all[1].Name, all[2].Name}, "sorted on the folded name")
}

func (s *SQLiteStoreSuite) TestLikeWildcardsAreLiteral() {
	s.insert("Percent", "100% humid", "bog")
	s.insert("Plain", "1000 humid", "bog")

	planets, total, err := s.store.Scan(s.ctx, predicate.MatchAll().And(predicate.FieldClimate, "100%"), models.PageRequest{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Equal("Percent", planets[0].Name)
}

func (s *SQLiteStoreSuite) TestExecuteAndDelete() {
	p := s.insert("X", "cold", "rock")

	updated, err := s.store.Execute(s.ctx, p.ID, nil, func(pl *models.Planet) {
		pl.ApplyPatch(models.PlanetPatch{Climate: models.StringPtr("hot")}, time.Now())
	})
	s.Require().NoError(err)
	s.Equal("hot", updated.Climate)
	s.Equal("X", updated.Name)

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("hot", found.Climate)

	s.Require().NoError(s.store.Delete(s.ctx, p.ID))
	s.ErrorIs(s.store.Delete(s.ctx, p.ID), sentinel.ErrNotFound)

	_, err = s.store.Execute(s.ctx, p.ID, nil, func(*models.Planet) {})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *SQLiteStoreSuite) TestPing() {
	s.NoError(s.store.Ping(s.ctx))
}
