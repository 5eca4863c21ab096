package handler

import (
	"strings"
	"unicode/utf8"

	"planets/internal/planet/models"
	dErrors "planets/pkg/domain-errors"
)

// minDescriptorLength applies to climate and terrain in patches.
const minDescriptorLength = 3

// PlanetRequest is the body of POST /planets and PUT /planets/{id}.
type PlanetRequest struct {
	Name    string `json:"name"`
	Climate string `json:"climate"`
	Terrain string `json:"terrain"`
}

func (r *PlanetRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Climate = strings.TrimSpace(r.Climate)
	r.Terrain = strings.TrimSpace(r.Terrain)
}

// Validate implements httputil.Validatable.
func (r *PlanetRequest) Validate() error {
	return r.toModel().Validate()
}

func (r *PlanetRequest) toModel() models.PlanetRequest {
	return models.PlanetRequest{Name: r.Name, Climate: r.Climate, Terrain: r.Terrain}
}

// PatchPlanetRequest is the body of PATCH /planets/{id}. Omitted and blank
// fields are left unchanged.
type PatchPlanetRequest struct {
	Name    *string `json:"name"`
	Climate *string `json:"climate"`
	Terrain *string `json:"terrain"`
}

func (r *PatchPlanetRequest) Normalize() {
	for _, f := range []*string{r.Name, r.Climate, r.Terrain} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

// Validate rejects present, non-blank climate or terrain values shorter than
// three characters.
func (r *PatchPlanetRequest) Validate() error {
	fields := map[string][]string{}
	checkLength(fields, "climate", r.Climate)
	checkLength(fields, "terrain", r.Terrain)
	if len(fields) > 0 {
		return dErrors.NewFieldErrors("invalid planet patch", fields)
	}
	return nil
}

func checkLength(fields map[string][]string, name string, v *string) {
	if v == nil || *v == "" {
		return
	}
	if utf8.RuneCountInString(*v) < minDescriptorLength {
		fields[name] = append(fields[name], name+" must be at least 3 characters")
	}
}

func (r *PatchPlanetRequest) toModel() models.PlanetPatch {
	return models.PlanetPatch{Name: r.Name, Climate: r.Climate, Terrain: r.Terrain}
}
