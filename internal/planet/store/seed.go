package store

import (
	"context"
	"fmt"

	"planets/internal/planet/models"
	"planets/pkg/requestcontext"
)

// Inserter is the slice of a store needed for seeding.
type Inserter interface {
	Insert(ctx context.Context, planet *models.Planet) (*models.Planet, error)
}

// DemoPlanets are loaded by SeedPlanets.
var DemoPlanets = []models.PlanetRequest{
	{Name: "Tatooine", Climate: "arid", Terrain: "desert"},
	{Name: "Alderaan", Climate: "temperate", Terrain: "grasslands, mountains"},
	{Name: "Hoth", Climate: "frozen", Terrain: "tundra, ice caves, mountain ranges"},
	{Name: "Dagobah", Climate: "murky", Terrain: "swamp, jungles"},
	{Name: "Bespin", Climate: "temperate", Terrain: "gas giant"},
}

// SeedPlanets inserts the demo planets and returns what was stored.
func SeedPlanets(ctx context.Context, s Inserter) ([]*models.Planet, error) {
	now := requestcontext.Now(ctx)
	out := make([]*models.Planet, 0, len(DemoPlanets))
	for _, req := range DemoPlanets {
		p, err := models.NewPlanet(req)
		if err != nil {
			return nil, err
		}
		p.CreatedAt = now
		p.UpdatedAt = now
		saved, err := s.Insert(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("seed planet %s: %w", req.Name, err)
		}
		out = append(out, saved)
	}
	return out, nil
}
