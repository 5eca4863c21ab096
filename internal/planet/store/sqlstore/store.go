// Package sqlstore persists planets in PostgreSQL (pgx) or SQLite (modernc).
// The store is pure I/O; ordering, filtering and paging are pushed down to SQL.
package sqlstore

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"planets/internal/planet/models"
	"planets/internal/planet/predicate"
	id "planets/pkg/domain"
	"planets/pkg/platform/sentinel"
)

const columns = `id, name, climate, terrain, created_at, updated_at`

// Store is a database/sql planet store.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

// NewPostgres constructs a PostgreSQL-backed planet store.
func NewPostgres(db *sql.DB) *Store {
	return New(db, Postgres)
}

// NewSQLite constructs a SQLite-backed planet store.
func NewSQLite(db *sql.DB) *Store {
	return New(db, SQLite)
}

func (s *Store) args() *args {
	return &args{dialect: s.dialect}
}

func (s *Store) FindByID(ctx context.Context, planetID id.PlanetID) (*models.Planet, error) {
	a := s.args()
	query := `SELECT ` + columns + ` FROM planets WHERE id = ` + a.add(planetID.String())
	p, err := scanPlanet(s.db.QueryRowContext(ctx, query, a.values...))
	if err != nil {
		return nil, classify(err, "find planet by id")
	}
	return p, nil
}

func (s *Store) FindOneByNameSubstring(ctx context.Context, name string) (*models.Planet, error) {
	a := s.args()
	pred := predicate.MatchAll().And(predicate.FieldName, name)
	where, err := whereClause(pred, a)
	if err != nil {
		return nil, err
	}
	query := `SELECT ` + columns + ` FROM planets` + where +
		orderClause(s.dialect, models.Sort{Field: models.SortByName, Direction: models.Asc}) +
		` LIMIT 1`
	p, err := scanPlanet(s.db.QueryRowContext(ctx, query, a.values...))
	if err != nil {
		return nil, classify(err, "find planet by name")
	}
	return p, nil
}

// Insert assigns a fresh id when the planet has none.
func (s *Store) Insert(ctx context.Context, planet *models.Planet) (*models.Planet, error) {
	p := planet.Clone()
	if p.ID.IsNil() {
		p.ID = id.NewPlanetID()
	}
	a := s.args()
	query := `INSERT INTO planets (` + columns + `) VALUES (` +
		strings.Join([]string{
			a.add(p.ID.String()),
			a.add(p.Name),
			a.add(p.Climate),
			a.add(p.Terrain),
			a.add(p.CreatedAt.UTC()),
			a.add(p.UpdatedAt.UTC()),
		}, ", ") + `)`
	if _, err := s.db.ExecContext(ctx, query, a.values...); err != nil {
		return nil, classify(err, "insert planet")
	}
	return p, nil
}

// Execute runs validate and mutate inside a transaction holding the row lock.
func (s *Store) Execute(ctx context.Context, planetID id.PlanetID, validate func(*models.Planet) error, mutate func(*models.Planet)) (*models.Planet, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(err, "begin planet update")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	a := s.args()
	query := `SELECT ` + columns + ` FROM planets WHERE id = ` + a.add(planetID.String()) + s.dialect.lockClause()
	current, err := scanPlanet(tx.QueryRowContext(ctx, query, a.values...))
	if err != nil {
		return nil, classify(err, "load planet for update")
	}
	if validate != nil {
		if err := validate(current); err != nil {
			return nil, err
		}
	}
	mutate(current)
	current.ID = planetID

	a = s.args()
	update := `UPDATE planets SET name = ` + a.add(current.Name) +
		`, climate = ` + a.add(current.Climate) +
		`, terrain = ` + a.add(current.Terrain) +
		`, updated_at = ` + a.add(current.UpdatedAt.UTC()) +
		` WHERE id = ` + a.add(planetID.String())
	if _, err := tx.ExecContext(ctx, update, a.values...); err != nil {
		return nil, classify(err, "update planet")
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(err, "commit planet update")
	}
	return current, nil
}

func (s *Store) Delete(ctx context.Context, planetID id.PlanetID) error {
	a := s.args()
	result, err := s.db.ExecContext(ctx, `DELETE FROM planets WHERE id = `+a.add(planetID.String()), a.values...)
	if err != nil {
		return classify(err, "delete planet")
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return classify(err, "delete planet rows affected")
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// Scan counts all matches, then fetches one ordered page.
func (s *Store) Scan(ctx context.Context, pred predicate.Predicate, page models.PageRequest) ([]*models.Planet, int64, error) {
	page = page.WithDefaults()

	a := s.args()
	var total int64
	where, err := whereClause(pred, a)
	if err != nil {
		return nil, 0, err
	}
	countQuery := `SELECT COUNT(*) FROM planets` + where
	if err := s.db.QueryRowContext(ctx, countQuery, a.values...).Scan(&total); err != nil {
		return nil, 0, classify(err, "count planets")
	}
	if int64(page.Offset()) >= total {
		return []*models.Planet{}, total, nil
	}

	// the page query shares the filter args and appends LIMIT/OFFSET
	query := `SELECT ` + columns + ` FROM planets` + where +
		orderClause(s.dialect, page.Sort) +
		` LIMIT ` + a.add(page.Size) + ` OFFSET ` + a.add(page.Offset())
	rows, err := s.db.QueryContext(ctx, query, a.values...)
	if err != nil {
		return nil, 0, classify(err, "scan planets")
	}
	defer rows.Close()

	planets := make([]*models.Planet, 0, page.Size)
	for rows.Next() {
		p, err := scanPlanet(rows)
		if err != nil {
			return nil, 0, classify(err, "scan planet row")
		}
		planets = append(planets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, classify(err, "iterate planets")
	}
	return planets, total, nil
}

// Ping reports database reachability for health checks.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlanet(row rowScanner) (*models.Planet, error) {
	var (
		rawID     string
		p         models.Planet
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&rawID, &p.Name, &p.Climate, &p.Terrain, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("stored planet id %q: %w", rawID, err)
	}
	p.ID = id.PlanetID(parsed)
	p.CreatedAt = createdAt.UTC()
	p.UpdatedAt = updatedAt.UTC()
	return &p, nil
}

// classify maps driver errors onto sentinels and adds operation context.
func classify(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505":
			return fmt.Errorf("%s: %w: %w", op, sentinel.ErrConflict, err)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"):
			return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
