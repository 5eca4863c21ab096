package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
	id "planets/pkg/domain"
	"planets/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) insert(name, climate, terrain string) *models.Planet {
	p, err := s.store.Insert(s.ctx, &models.Planet{Name: name, Climate: climate, Terrain: terrain})
	s.Require().NoError(err)
	return p
}

// TestInsertAndLookups verifies id assignment and both lookups.
func (s *InMemoryStoreSuite) TestInsertAndLookups() {
	s.Run("insert assigns an id and find returns it", func() {
		p := s.insert("Tatooine", "arid", "desert")
		s.False(p.ID.IsNil())

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(p, found)
	})

	s.Run("unknown id is ErrNotFound", func() {
		_, err := s.store.FindByID(s.ctx, id.NewPlanetID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("name lookup is a case-insensitive substring match", func() {
		p := s.insert("Alderaan", "temperate", "grasslands")
		found, err := s.store.FindOneByNameSubstring(s.ctx, "DERA")
		s.Require().NoError(err)
		s.Equal(p.ID, found.ID)

		_, err = s.store.FindOneByNameSubstring(s.ctx, "Kamino")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("duplicate explicit id conflicts", func() {
		p := s.insert("Hoth", "frozen", "tundra")
		_, err := s.store.Insert(s.ctx, &models.Planet{ID: p.ID, Name: "Other"})
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

// TestIsolation verifies callers never share memory with the store.
func (s *InMemoryStoreSuite) TestIsolation() {
	p := s.insert("Dagobah", "murky", "swamp")
	p.Name = "changed outside"

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("Dagobah", found.Name)

	found.Name = "changed again"
	again, _ := s.store.FindByID(s.ctx, p.ID)
	s.Equal("Dagobah", again.Name)
}

// TestExecute verifies atomic validate-then-mutate semantics.
func (s *InMemoryStoreSuite) TestExecute() {
	s.Run("applies mutation and keeps id and creation time", func() {
		p := s.insert("X", "cold", "rock")
		updated, err := s.store.Execute(s.ctx, p.ID,
			func(*models.Planet) error { return nil },
			func(pl *models.Planet) {
				pl.Climate = "hot"
				pl.ID = id.NewPlanetID()
			},
		)
		s.Require().NoError(err)
		s.Equal(p.ID, updated.ID)
		s.Equal("hot", updated.Climate)
	})

	s.Run("validation failure leaves the record untouched", func() {
		p := s.insert("Y", "cold", "rock")
		boom := errors.New("rejected")
		_, err := s.store.Execute(s.ctx, p.ID,
			func(*models.Planet) error { return boom },
			func(pl *models.Planet) { pl.Name = "never" },
		)
		s.ErrorIs(err, boom)

		found, _ := s.store.FindByID(s.ctx, p.ID)
		s.Equal("Y", found.Name)
	})

	s.Run("unknown id is ErrNotFound and mutate never runs", func() {
		called := false
		_, err := s.store.Execute(s.ctx, id.NewPlanetID(), nil, func(*models.Planet) { called = true })
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.False(called)
	})

	s.Run("concurrent mutations are serialized", func() {
		p := s.insert("Counter", "", "")
		var wg sync.WaitGroup
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = s.store.Execute(s.ctx, p.ID, nil, func(pl *models.Planet) { pl.Terrain += "x" })
			}()
		}
		wg.Wait()
		found, _ := s.store.FindByID(s.ctx, p.ID)
		s.Len(found.Terrain, 50)
	})
}

func (s *InMemoryStoreSuite) TestDelete() {
	p := s.insert("Alderaan", "temperate", "grasslands")
	s.Require().NoError(s.store.Delete(s.ctx, p.ID))

	_, err := s.store.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, p.ID), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestScan() {
	s.insert("Tatooine", "arid", "desert")
	s.insert("Geonosis", "temperate, arid", "rock, desert, mountain")
	s.insert("Hoth", "frozen", "tundra")

	s.Run("conjunction of climate and terrain", func() {
		pred := predicate.MatchAll().And(predicate.FieldClimate, "arid").And(predicate.FieldTerrain, "mountain")
		got, total, err := s.store.Scan(s.ctx, pred, models.PageRequest{})
		s.Require().NoError(err)
		s.Equal(int64(1), total)
		s.Equal("Geonosis", got[0].Name)
	})

	s.Run("match all returns every record", func() {
		got, total, err := s.store.Scan(s.ctx, predicate.MatchAll(), models.PageRequest{})
		s.Require().NoError(err)
		s.Equal(int64(3), total)
		s.Len(got, 3)
		s.Equal("Geonosis", got[0].Name)
	})
}
