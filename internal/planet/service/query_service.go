package service

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	planetmetrics "planets/internal/planet/metrics"
	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
	id "planets/pkg/domain"
	dErrors "planets/pkg/domain-errors"
)

// QueryService answers read-only planet queries. It holds no state beyond
// its collaborators and is safe for concurrent use.
type QueryService struct {
	store Store
	cfg   *serviceConfig
}

func NewQueryService(store Store, opts ...Option) (*QueryService, error) {
	cfg, err := newConfig(store, opts)
	if err != nil {
		return nil, err
	}
	return &QueryService{store: store, cfg: cfg}, nil
}

func (s *QueryService) FindByID(ctx context.Context, planetID id.PlanetID) (_ *models.PlanetResponse, err error) {
	ctx, done := s.cfg.observe(ctx, planetmetrics.OpFindByID, attribute.String("planet.id", planetID.String()))
	defer func() { done(err) }()

	planet, err := s.store.FindByID(ctx, planetID)
	if err != nil {
		return nil, wrapLookupErr(err, "id", planetID.String(), "failed to load planet")
	}
	return models.ToResponse(planet), nil
}

// FindByName returns the first planet whose name contains name,
// case-insensitively. Stores order candidates by name, then id.
func (s *QueryService) FindByName(ctx context.Context, name string) (_ *models.PlanetResponse, err error) {
	ctx, done := s.cfg.observe(ctx, planetmetrics.OpFindByName)
	defer func() { done(err) }()

	if strings.TrimSpace(name) == "" {
		return nil, dErrors.NewFieldErrors("planet name is required", map[string][]string{
			"name": {"name is required"},
		})
	}
	planet, err := s.store.FindOneByNameSubstring(ctx, name)
	if err != nil {
		return nil, wrapLookupErr(err, "name", name, "failed to load planet")
	}
	return models.ToResponse(planet), nil
}

// Search returns one page of planets whose climate and terrain contain the
// given substrings. Blank filters impose no constraint; zero page fields take
// their defaults.
func (s *QueryService) Search(ctx context.Context, climate, terrain string, page models.PageRequest) (_ models.Page[*models.PlanetResponse], err error) {
	page = page.WithDefaults()
	ctx, done := s.cfg.observe(ctx, planetmetrics.OpSearch,
		attribute.Int("page.number", page.Page),
		attribute.Int("page.size", page.Size),
	)
	defer func() { done(err) }()

	pred := predicate.MatchAll().
		And(predicate.FieldClimate, climate).
		And(predicate.FieldTerrain, terrain)

	planets, total, err := s.store.Scan(ctx, pred, page)
	if err != nil {
		return models.Page[*models.PlanetResponse]{}, wrapStoreErr(err, "failed to search planets")
	}
	s.cfg.metrics.ObserveSearchResults(len(planets))
	return models.MapPage(models.NewPage(planets, page, total), models.ToResponse), nil
}
