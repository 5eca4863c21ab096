package models

import id "planets/pkg/domain"

// PlanetResponse is the externally visible shape of a planet.
type PlanetResponse struct {
	ID      id.PlanetID `json:"id"`
	Name    string      `json:"name"`
	Climate string      `json:"climate"`
	Terrain string      `json:"terrain"`
}

// ToResponse copies the public attributes verbatim.
func ToResponse(p *Planet) *PlanetResponse {
	return &PlanetResponse{
		ID:      p.ID,
		Name:    p.Name,
		Climate: p.Climate,
		Terrain: p.Terrain,
	}
}

// ToResponses shapes every planet in order.
func ToResponses(planets []*Planet) []*PlanetResponse {
	out := make([]*PlanetResponse, 0, len(planets))
	for _, p := range planets {
		out = append(out, ToResponse(p))
	}
	return out
}

// DeleteResult acknowledges a successful delete.
type DeleteResult struct {
	Message string `json:"message"`
}
