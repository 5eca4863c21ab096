package memory

import (
	"context"
	"sync"

	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
	"planets/internal/planet/store"
	id "planets/pkg/domain"
	"planets/pkg/platform/sentinel"
)

// InMemory is a map-backed planet store. Records are cloned on the way in and
// out so callers never share memory with the store.
type InMemory struct {
	mu      sync.RWMutex
	planets map[id.PlanetID]*models.Planet
}

func New() *InMemory {
	return &InMemory{planets: make(map[id.PlanetID]*models.Planet)}
}

func (s *InMemory) FindByID(_ context.Context, planetID id.PlanetID) (*models.Planet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.planets[planetID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

func (s *InMemory) FindOneByNameSubstring(_ context.Context, name string) (*models.Planet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := store.FirstByName(s.snapshot(), name)
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return p.Clone(), nil
}

// Insert assigns a fresh id when the planet has none.
func (s *InMemory) Insert(_ context.Context, planet *models.Planet) (*models.Planet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := planet.Clone()
	if p.ID.IsNil() {
		p.ID = id.NewPlanetID()
	}
	if _, exists := s.planets[p.ID]; exists {
		return nil, sentinel.ErrConflict
	}
	s.planets[p.ID] = p
	return p.Clone(), nil
}

// Execute validates and mutates under the write lock. When validate fails
// the stored planet is untouched.
func (s *InMemory) Execute(_ context.Context, planetID id.PlanetID, validate func(*models.Planet) error, mutate func(*models.Planet)) (*models.Planet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.planets[planetID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := current.Clone()
	if validate != nil {
		if err := validate(working); err != nil {
			return nil, err
		}
	}
	mutate(working)
	working.ID = current.ID
	working.CreatedAt = current.CreatedAt
	s.planets[planetID] = working
	return working.Clone(), nil
}

func (s *InMemory) Delete(_ context.Context, planetID id.PlanetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.planets[planetID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.planets, planetID)
	return nil
}

func (s *InMemory) Scan(_ context.Context, pred predicate.Predicate, page models.PageRequest) ([]*models.Planet, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, total := store.Paginate(s.snapshot(), pred, page)
	out := make([]*models.Planet, 0, len(content))
	for _, p := range content {
		out = append(out, p.Clone())
	}
	return out, total, nil
}

// Count returns the number of stored planets.
func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.planets), nil
}

// Ping always succeeds; it satisfies the health checker.
func (s *InMemory) Ping(context.Context) error {
	return nil
}

// snapshot must be called with the lock held.
func (s *InMemory) snapshot() []*models.Planet {
	out := make([]*models.Planet, 0, len(s.planets))
	for _, p := range s.planets {
		out = append(out, p)
	}
	return out
}
