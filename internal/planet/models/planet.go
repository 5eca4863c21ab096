package models

import (
	"time"

	id "planets/pkg/domain"
)

// Planet is the persisted record.
//
// Invariants:
//   - ID is assigned by the store on insert and never changes afterwards
//   - Name, Climate and Terrain are non-empty when created
//   - CreatedAt is immutable after insert
//
// CreatedAt and UpdatedAt are internal bookkeeping; they are not part of the
// response shape.
type Planet struct {
	ID        id.PlanetID `json:"id"`
	Name      string      `json:"name"`
	Climate   string      `json:"climate"`
	Terrain   string      `json:"terrain"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewPlanet builds an unsaved planet from a validated request. The ID is left
// zero for the store to assign.
func NewPlanet(req PlanetRequest) (*Planet, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &Planet{
		Name:    req.Name,
		Climate: req.Climate,
		Terrain: req.Terrain,
	}, nil
}

// Replace overwrites every attribute with the request values, blanks
// included. It is total replacement, not a merge.
func (p *Planet) Replace(req PlanetRequest, now time.Time) {
	p.Name = req.Name
	p.Climate = req.Climate
	p.Terrain = req.Terrain
	p.UpdatedAt = now
}

// ApplyPatch overwrites only the attributes the patch supplies with a
// non-blank value. Absent and blank fields leave the stored value untouched.
// Returns true when at least one attribute was written.
func (p *Planet) ApplyPatch(patch PlanetPatch, now time.Time) bool {
	changed := false
	if v, ok := patch.NameValue(); ok {
		p.Name = v
		changed = true
	}
	if v, ok := patch.ClimateValue(); ok {
		p.Climate = v
		changed = true
	}
	if v, ok := patch.TerrainValue(); ok {
		p.Terrain = v
		changed = true
	}
	if changed {
		p.UpdatedAt = now
	}
	return changed
}

// Clone returns a copy safe to hand out of a store.
func (p *Planet) Clone() *Planet {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
