//go:build integration

package redisstore_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
	"planets/internal/planet/store/redisstore"
	id "planets/pkg/domain"
	"planets/pkg/platform/sentinel"
	"planets/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *redisstore.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.store = redisstore.NewRedis(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) insert(name, climate, terrain string) *models.Planet {
	now := time.Now().UTC()
	p, err := s.store.Insert(context.Background(), &models.Planet{
		Name: name, Climate: climate, Terrain: terrain, CreatedAt: now, UpdatedAt: now,
	})
	s.Require().NoError(err)
	return p
}

func (s *RedisStoreSuite) TestRoundTrip() {
	ctx := context.Background()
	p := s.insert("Tatooine", "arid", "desert")

	found, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.ID, found.ID)
	s.Equal("Tatooine", found.Name)
	s.True(p.CreatedAt.Equal(found.CreatedAt))

	_, err = s.store.FindByID(ctx, id.NewPlanetID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.Insert(ctx, p)
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *RedisStoreSuite) TestScanAndNameLookup() {
	ctx := context.Background()
	s.insert("Tatooine", "arid", "desert")
	s.insert("Geonosis", "temperate, arid", "rock, desert, mountain")
	s.insert("Hoth", "frozen", "tundra")

	pred := predicate.MatchAll().And(predicate.FieldClimate, "arid")
	planets, total, err := s.store.Scan(ctx, pred, models.PageRequest{Size: 1})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	s.Require().Len(planets, 1)
	s.Equal("Geonosis", planets[0].Name)

	found, err := s.store.FindOneByNameSubstring(ctx, "HOT")
	s.Require().NoError(err)
	s.Equal("Hoth", found.Name)
}

func (s *RedisStoreSuite) TestExecute() {
	ctx := context.Background()
	p := s.insert("X", "cold", "rock")

	updated, err := s.store.Execute(ctx, p.ID, nil, func(pl *models.Planet) { pl.Climate = "hot" })
	s.Require().NoError(err)
	s.Equal("hot", updated.Climate)

	boom := errors.New("rejected")
	_, err = s.store.Execute(ctx, p.ID, func(*models.Planet) error { return boom }, func(*models.Planet) {})
	s.ErrorIs(err, boom)

	_, err = s.store.Execute(ctx, id.NewPlanetID(), nil, func(*models.Planet) {})
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestWATCHConflictDetection verifies concurrent updates either commit or
// fail with ErrConflict; none are silently lost.
func (s *RedisStoreSuite) TestWATCHConflictDetection() {
	ctx := context.Background()
	p := s.insert("Counter", "", "")

	const goroutines = 20
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
		others    atomic.Int32
	)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.Execute(ctx, p.ID,
				func(*models.Planet) error {
					time.Sleep(2 * time.Millisecond)
					return nil
				},
				func(pl *models.Planet) { pl.Terrain += "x" },
			)
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflicts.Add(1)
			default:
				others.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(0), others.Load())
	s.Equal(int32(goroutines), successes.Load()+conflicts.Load())

	found, err := s.store.FindByID(ctx, p.ID)
	s.Require().NoError(err)
	s.Len(found.Terrain, int(successes.Load()), "every committed update is visible")
}

func (s *RedisStoreSuite) TestDelete() {
	ctx := context.Background()
	p := s.insert("Alderaan", "temperate", "grasslands")
	s.Require().NoError(s.store.Delete(ctx, p.ID))
	s.ErrorIs(s.store.Delete(ctx, p.ID), sentinel.ErrNotFound)

	planets, total, err := s.store.Scan(ctx, predicate.MatchAll(), models.PageRequest{})
	s.Require().NoError(err)
	s.Zero(total)
	s.Empty(planets)
}
