// Package redisstore keeps planets as JSON documents in Redis.
//
// Layout:
//
//	planet:<id>   JSON-encoded planet
//	planets:ids   set of every stored id
//
// Updates use WATCH/MULTI optimistic locking. A concurrent write between the
// read and the commit aborts the update with sentinel.ErrConflict; the store
// never retries.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
	"planets/internal/planet/store"
	id "planets/pkg/domain"
	"planets/pkg/platform/sentinel"
)

const (
	keyPrefix = "planet:"
	idsKey    = "planets:ids"
)

type RedisStore struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func planetKey(planetID id.PlanetID) string {
	return keyPrefix + planetID.String()
}

func (s *RedisStore) FindByID(ctx context.Context, planetID id.PlanetID) (*models.Planet, error) {
	raw, err := s.client.Get(ctx, planetKey(planetID)).Bytes()
	if err != nil {
		return nil, classify(err, "get planet")
	}
	return decode(raw)
}

func (s *RedisStore) FindOneByNameSubstring(ctx context.Context, name string) (*models.Planet, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := store.FirstByName(all, name)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p, nil
}

// Insert assigns a fresh id when the planet has none.
func (s *RedisStore) Insert(ctx context.Context, planet *models.Planet) (*models.Planet, error) {
	p := planet.Clone()
	if p.ID.IsNil() {
		p.ID = id.NewPlanetID()
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("marshal planet: %w", err)
	}

	var created *redis.BoolCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, planetKey(p.ID), payload, 0)
		pipe.SAdd(ctx, idsKey, p.ID.String())
		return nil
	})
	if err != nil {
		return nil, classify(err, "insert planet")
	}
	if !created.Val() {
		return nil, sentinel.ErrConflict
	}
	return p, nil
}

// Execute reads, validates and writes under WATCH on the planet key.
func (s *RedisStore) Execute(ctx context.Context, planetID id.PlanetID, validate func(*models.Planet) error, mutate func(*models.Planet)) (*models.Planet, error) {
	key := planetKey(planetID)
	var (
		result *models.Planet
		fnErr  error
	)
	fail := func(err error) error {
		fnErr = err
		return err
	}

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			return fail(classify(err, "get planet for update"))
		}
		current, err := decode(raw)
		if err != nil {
			return fail(err)
		}
		if validate != nil {
			if err := validate(current); err != nil {
				return fail(err)
			}
		}
		createdAt := current.CreatedAt
		mutate(current)
		current.ID = planetID
		current.CreatedAt = createdAt

		payload, err := json.Marshal(current)
		if err != nil {
			return fail(fmt.Errorf("marshal planet: %w", err))
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			return nil
		})
		if err != nil {
			return err
		}
		result = current
		return nil
	}, key)
	switch {
	case errors.Is(err, redis.TxFailedErr):
		return nil, fmt.Errorf("update planet %s: %w", planetID, sentinel.ErrConflict)
	case fnErr != nil:
		return nil, fnErr
	case err != nil:
		return nil, classify(err, "update planet")
	}
	return result, nil
}

func (s *RedisStore) Delete(ctx context.Context, planetID id.PlanetID) error {
	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.Del(ctx, planetKey(planetID))
		pipe.SRem(ctx, idsKey, planetID.String())
		return nil
	})
	if err != nil {
		return classify(err, "delete planet")
	}
	if removed.Val() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Scan loads every planet and filters, orders and pages in process. Redis
// has no secondary indexes for substring search.
func (s *RedisStore) Scan(ctx context.Context, pred predicate.Predicate, page models.PageRequest) ([]*models.Planet, int64, error) {
	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	content, total := store.Paginate(all, pred, page)
	return content, total, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) loadAll(ctx context.Context) ([]*models.Planet, error) {
	ids, err := s.client.SMembers(ctx, idsKey).Result()
	if err != nil {
		return nil, classify(err, "list planet ids")
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(ids))
	for _, raw := range ids {
		keys = append(keys, keyPrefix+raw)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, classify(err, "load planets")
	}
	out := make([]*models.Planet, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			// id set and key raced with a delete
			continue
		}
		p, err := decode([]byte(str))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func decode(raw []byte) (*models.Planet, error) {
	var p models.Planet
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode planet: %w", err)
	}
	return &p, nil
}

func classify(err error, op string) error {
	if errors.Is(err, redis.Nil) {
		return sentinel.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var redisErr redis.Error
	if errors.As(err, &redisErr) {
		return fmt.Errorf("%s: %w", op, err)
	}
	// Anything that is not a server reply is a transport failure.
	return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
}
