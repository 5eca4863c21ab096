// Package predicate composes optional search criteria into a single filter
// over planets.
//
// A Predicate is a conjunction of case-insensitive substring criteria. The
// zero value matches everything. Criteria with blank values are dropped
// rather than turned into match-all or match-none terms, so callers can fold
// in every optional input without branching on which ones were supplied.
//
// The same Predicate is evaluated in memory (Matches) and rendered to SQL by
// the SQL store (Criteria), so both paths agree on semantics.
package predicate

import (
	"slices"
	"strings"

	"planets/internal/planet/models"
)

// Field is a filterable planet attribute.
type Field string

const (
	FieldName    Field = "name"
	FieldClimate Field = "climate"
	FieldTerrain Field = "terrain"
)

// Criterion constrains one field to contain Value. Value is stored
// lower-cased; surrounding whitespace is part of the substring.
type Criterion struct {
	Field Field
	Value string
}

// Predicate is an immutable conjunction of criteria.
type Predicate struct {
	criteria []Criterion
}

// MatchAll returns the always-true predicate.
func MatchAll() Predicate {
	return Predicate{}
}

// Build folds criteria into MatchAll in any order.
func Build(criteria ...Criterion) Predicate {
	p := MatchAll()
	for _, c := range criteria {
		p = p.And(c.Field, c.Value)
	}
	return p
}

// And returns a predicate that additionally requires field to contain value.
// Blank or whitespace-only values leave the predicate unchanged; any other
// value is matched as given, padding included.
func (p Predicate) And(field Field, value string) Predicate {
	if strings.TrimSpace(value) == "" {
		return p
	}
	value = strings.ToLower(value)
	c := Criterion{Field: field, Value: value}
	if slices.Contains(p.criteria, c) {
		return p
	}
	next := make([]Criterion, 0, len(p.criteria)+1)
	next = append(next, p.criteria...)
	next = append(next, c)
	slices.SortFunc(next, compare)
	return Predicate{criteria: next}
}

// IsMatchAll reports whether no criterion constrains the predicate.
func (p Predicate) IsMatchAll() bool {
	return len(p.criteria) == 0
}

// Criteria returns the criteria in canonical order (by field, then value).
func (p Predicate) Criteria() []Criterion {
	return slices.Clone(p.criteria)
}

// Equal reports whether two predicates hold the same criteria set.
func (p Predicate) Equal(other Predicate) bool {
	return slices.Equal(p.criteria, other.criteria)
}

// Matches reports whether every criterion holds for planet.
func (p Predicate) Matches(planet *models.Planet) bool {
	if planet == nil {
		return false
	}
	for _, c := range p.criteria {
		if !strings.Contains(strings.ToLower(fieldValue(planet, c.Field)), c.Value) {
			return false
		}
	}
	return true
}

func fieldValue(planet *models.Planet, field Field) string {
	switch field {
	case FieldName:
		return planet.Name
	case FieldClimate:
		return planet.Climate
	case FieldTerrain:
		return planet.Terrain
	default:
		return ""
	}
}

func compare(a, b Criterion) int {
	if c := strings.Compare(string(a.Field), string(b.Field)); c != 0 {
		return c
	}
	return strings.Compare(a.Value, b.Value)
}
