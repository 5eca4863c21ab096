package models

import (
	"strings"

	dErrors "planets/pkg/domain-errors"
)

// PlanetRequest carries the three required attributes for create and full update.
type PlanetRequest struct {
	Name    string `json:"name"`
	Climate string `json:"climate"`
	Terrain string `json:"terrain"`
}

// Validate rejects requests with any blank required attribute, naming every
// offending field.
func (r PlanetRequest) Validate() error {
	fields := map[string][]string{}
	if isBlank(r.Name) {
		fields["name"] = append(fields["name"], "name is required")
	}
	if isBlank(r.Climate) {
		fields["climate"] = append(fields["climate"], "climate is required")
	}
	if isBlank(r.Terrain) {
		fields["terrain"] = append(fields["terrain"], "terrain is required")
	}
	if len(fields) > 0 {
		return dErrors.NewFieldErrors("invalid planet", fields)
	}
	return nil
}

// PlanetPatch is a partial update. A nil field is absent; a present field
// holding only whitespace is treated the same as an absent one.
type PlanetPatch struct {
	Name    *string `json:"name,omitempty"`
	Climate *string `json:"climate,omitempty"`
	Terrain *string `json:"terrain,omitempty"`
}

// NameValue returns the patch name and whether it should be applied.
func (p PlanetPatch) NameValue() (string, bool) { return present(p.Name) }

// ClimateValue returns the patch climate and whether it should be applied.
func (p PlanetPatch) ClimateValue() (string, bool) { return present(p.Climate) }

// TerrainValue returns the patch terrain and whether it should be applied.
func (p PlanetPatch) TerrainValue() (string, bool) { return present(p.Terrain) }

// IsEmpty reports whether applying the patch would change nothing.
func (p PlanetPatch) IsEmpty() bool {
	_, n := p.NameValue()
	_, c := p.ClimateValue()
	_, t := p.TerrainValue()
	return !n && !c && !t
}

func present(v *string) (string, bool) {
	if v == nil || isBlank(*v) {
		return "", false
	}
	return *v, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// StringPtr is a convenience for building patches.
func StringPtr(s string) *string {
	return &s
}
