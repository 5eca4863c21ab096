// Package store holds the pieces shared by every planet store: in-process
// ordering and paging for key-value backends, and demo seeding.
package store

import (
	"slices"
	"strings"

	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
)

// Compare orders planets by the requested sort. Text columns compare
// case-insensitively and ties are broken by id ascending, matching the SQL
// stores' ORDER BY.
func Compare(sort models.Sort) func(a, b *models.Planet) int {
	return func(a, b *models.Planet) int {
		c := 0
		switch sort.Field {
		case models.SortByName:
			c = compareFold(a.Name, b.Name)
		case models.SortByClimate:
			c = compareFold(a.Climate, b.Climate)
		case models.SortByTerrain:
			c = compareFold(a.Terrain, b.Terrain)
		}
		if sort.Direction == models.Desc {
			c = -c
		}
		if c != 0 {
			return c
		}
		idc := strings.Compare(a.ID.String(), b.ID.String())
		if sort.Field == models.SortByID && sort.Direction == models.Desc {
			return -idc
		}
		return idc
	}
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Paginate filters candidates by pred, orders them and cuts out one page.
// It returns the page content and the total number of matches.
func Paginate(candidates []*models.Planet, pred predicate.Predicate, page models.PageRequest) ([]*models.Planet, int64) {
	page = page.WithDefaults()
	matched := make([]*models.Planet, 0, len(candidates))
	for _, p := range candidates {
		if pred.Matches(p) {
			matched = append(matched, p)
		}
	}
	slices.SortFunc(matched, Compare(page.Sort))

	total := int64(len(matched))
	start := page.Offset()
	if start >= len(matched) {
		return []*models.Planet{}, total
	}
	end := start + min(page.Size, len(matched)-start)
	return matched[start:end], total
}

// FirstByName returns the first planet, by name then id, whose name contains
// fragment case-insensitively.
func FirstByName(candidates []*models.Planet, fragment string) (*models.Planet, bool) {
	pred := predicate.MatchAll().And(predicate.FieldName, fragment)
	var best *models.Planet
	order := Compare(models.Sort{Field: models.SortByName, Direction: models.Asc})
	for _, p := range candidates {
		if !pred.Matches(p) {
			continue
		}
		if best == nil || order(p, best) < 0 {
			best = p
		}
	}
	return best, best != nil
}
