package sqlstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
)

// Dialect captures the differences between the supported SQL backends.
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == SQLite {
		return "sqlite"
	}
	return "pgx"
}

// lockClause is appended to the row lookup inside Execute. SQLite locks the
// whole database for a write transaction, so it needs none.
func (d Dialect) lockClause() string {
	if d == Postgres {
		return " FOR UPDATE"
	}
	return ""
}

// lowerFunc names the SQL function used to case-fold columns.
func (d Dialect) lowerFunc() string {
	if d == SQLite {
		return unicodeLower
	}
	return "lower"
}

// args accumulates bind arguments and renders dialect placeholders.
type args struct {
	dialect Dialect
	values  []any
}

func (a *args) add(v any) string {
	a.values = append(a.values, v)
	if a.dialect == Postgres {
		return "$" + strconv.Itoa(len(a.values))
	}
	return "?"
}

var filterColumns = map[predicate.Field]string{
	predicate.FieldName:    "name",
	predicate.FieldClimate: "climate",
	predicate.FieldTerrain: "terrain",
}

var sortColumns = map[models.SortField]string{
	models.SortByID:      "id",
	models.SortByName:    "name",
	models.SortByClimate: "climate",
	models.SortByTerrain: "terrain",
}

// whereClause renders pred as a conjunction of case-insensitive LIKE terms.
// An empty string means no constraint. A criterion on a field without a
// column is an error rather than a dropped constraint.
func whereClause(pred predicate.Predicate, a *args) (string, error) {
	criteria := pred.Criteria()
	if len(criteria) == 0 {
		return "", nil
	}
	lower := a.dialect.lowerFunc()
	terms := make([]string, 0, len(criteria))
	for _, c := range criteria {
		col, ok := filterColumns[c.Field]
		if !ok {
			return "", fmt.Errorf("no column for filter field %q", c.Field)
		}
		terms = append(terms, lower+"("+pq.QuoteIdentifier(col)+") LIKE "+a.add(containsPattern(c.Value))+` ESCAPE '\'`)
	}
	return " WHERE " + strings.Join(terms, " AND "), nil
}

// orderClause only ever emits whitelisted, quoted column names.
func orderClause(d Dialect, sort models.Sort) string {
	col, ok := sortColumns[sort.Field]
	if !ok {
		col = "name"
	}
	dir := "ASC"
	if sort.Direction == models.Desc {
		dir = "DESC"
	}
	quoted := pq.QuoteIdentifier(col)
	if col == "id" {
		return " ORDER BY " + quoted + " " + dir
	}
	return " ORDER BY " + d.lowerFunc() + "(" + quoted + ") " + dir + ", " + pq.QuoteIdentifier("id") + " ASC"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}
