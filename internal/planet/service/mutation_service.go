package service

import (
	"context"

	"go.opentelemetry.io/otel/attribute"

	"planets/internal/planet/audit"
	planetmetrics "planets/internal/planet/metrics"
	"planets/internal/planet/models"
	id "planets/pkg/domain"
	"planets/pkg/requestcontext"
)

// DeletedMessage acknowledges a successful delete.
const DeletedMessage = "planet deleted successfully"

// MutationService creates, updates and deletes planets.
//
// Updates use the store's Execute callback so lookup and write happen
// atomically (mutex, FOR UPDATE, or WATCH depending on the store).
type MutationService struct {
	store Store
	cfg   *serviceConfig
}

func NewMutationService(store Store, opts ...Option) (*MutationService, error) {
	cfg, err := newConfig(store, opts)
	if err != nil {
		return nil, err
	}
	return &MutationService{store: store, cfg: cfg}, nil
}

func (s *MutationService) Create(ctx context.Context, req models.PlanetRequest) (_ *models.PlanetResponse, err error) {
	ctx, done := s.cfg.observe(ctx, planetmetrics.OpCreate)
	defer func() { done(err) }()

	planet, err := models.NewPlanet(req)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	planet.CreatedAt = now
	planet.UpdatedAt = now

	saved, err := s.store.Insert(ctx, planet)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to create planet")
	}

	s.cfg.emit(ctx, audit.EventPlanetCreated, saved)
	s.cfg.metrics.IncrementCreated()
	return models.ToResponse(saved), nil
}

// FullUpdate replaces name, climate and terrain unconditionally, blanks
// included.
func (s *MutationService) FullUpdate(ctx context.Context, planetID id.PlanetID, req models.PlanetRequest) (_ *models.PlanetResponse, err error) {
	ctx, done := s.cfg.observe(ctx, planetmetrics.OpFullUpdate, attribute.String("planet.id", planetID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	updated, err := s.store.Execute(ctx, planetID,
		func(*models.Planet) error { return nil },
		func(p *models.Planet) {
			p.Replace(req, now)
		},
	)
	if err != nil {
		return nil, wrapLookupErr(err, "id", planetID.String(), "failed to update planet")
	}

	s.cfg.emit(ctx, audit.EventPlanetUpdated, updated)
	return models.ToResponse(updated), nil
}

// PartialUpdate overwrites only the fields the patch supplies with a
// non-blank value.
func (s *MutationService) PartialUpdate(ctx context.Context, planetID id.PlanetID, patch models.PlanetPatch) (_ *models.PlanetResponse, err error) {
	ctx, done := s.cfg.observe(ctx, planetmetrics.OpPartialUpdate, attribute.String("planet.id", planetID.String()))
	defer func() { done(err) }()

	now := requestcontext.Now(ctx)
	updated, err := s.store.Execute(ctx, planetID,
		func(*models.Planet) error { return nil },
		func(p *models.Planet) {
			p.ApplyPatch(patch, now)
		},
	)
	if err != nil {
		return nil, wrapLookupErr(err, "id", planetID.String(), "failed to patch planet")
	}

	s.cfg.emit(ctx, audit.EventPlanetPatched, updated)
	return models.ToResponse(updated), nil
}

// Delete removes a planet. An unknown id yields NotFound and the store is
// not asked to delete anything.
func (s *MutationService) Delete(ctx context.Context, planetID id.PlanetID) (_ *models.DeleteResult, err error) {
	ctx, done := s.cfg.observe(ctx, planetmetrics.OpDelete, attribute.String("planet.id", planetID.String()))
	defer func() { done(err) }()

	planet, err := s.store.FindByID(ctx, planetID)
	if err != nil {
		return nil, wrapLookupErr(err, "id", planetID.String(), "failed to load planet")
	}
	if err := s.store.Delete(ctx, planetID); err != nil {
		return nil, wrapLookupErr(err, "id", planetID.String(), "failed to delete planet")
	}

	s.cfg.emit(ctx, audit.EventPlanetDeleted, planet)
	s.cfg.metrics.IncrementDeleted()
	return &models.DeleteResult{Message: DeletedMessage}, nil
}
