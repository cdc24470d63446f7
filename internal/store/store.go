// Package store persists run outcomes to SQL: per-scenario results and the
// portfolio allocation tables. SQLite (modernc, pure Go) and Postgres (pgx
// through database/sql) share one schema; only placeholders differ.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx"
	_ "modernc.org/sqlite"             // registers "sqlite"

	"github.com/katalvlaran/lvplan/portfolio"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// ErrUnknownDriver is returned by Open and New for drivers other than sqlite and pgx.
var ErrUnknownDriver = errors.New("store: unknown driver")

// Store writes to an open database handle.
type Store struct {
	db     *sql.DB
	driver string
}

// Scenario is one row of the scenarios table.
type Scenario struct {
	Name      string
	OK        bool
	Objective float64
	Detail    string // error text on failure, free-form summary otherwise
}

// Cell is one stored allocation percentage.
type Cell struct {
	Period   string
	Position string
	Percent  float64
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS scenarios (
		run       TEXT NOT NULL,
		scenario  TEXT NOT NULL,
		ok        INTEGER NOT NULL,
		objective DOUBLE PRECISION NOT NULL,
		detail    TEXT NOT NULL,
		PRIMARY KEY (run, scenario)
	)`,
	`CREATE TABLE IF NOT EXISTS allocations (
		run      TEXT NOT NULL,
		model    TEXT NOT NULL,
		currency TEXT NOT NULL,
		period   TEXT NOT NULL,
		position TEXT NOT NULL,
		percent  DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (run, model, currency, period, position)
	)`,
}

// NormalizeDriver maps "postgres" to the pgx driver name and validates the rest.
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case DriverSQLite, "sqlite3":
		return DriverSQLite, nil
	case DriverPostgres, "postgres", "postgresql":
		return DriverPostgres, nil
	default:
		return "", fmt.Errorf("%q: %w", driver, ErrUnknownDriver)
	}
}

// Open connects with driver and dsn and ensures the schema exists.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	name, err := NormalizeDriver(driver)
	if err != nil {
		return nil, fmt.Errorf("store: Open: %w", err)
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", name, err)
	}
	if name == DriverSQLite {
		// One writer; also keeps ":memory:" databases on a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", name, err)
	}
	s, err := New(ctx, db, name)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing handle and applies the schema.
func New(ctx context.Context, db *sql.DB, driver string) (*Store, error) {
	name, err := NormalizeDriver(driver)
	if err != nil {
		return nil, fmt.Errorf("store: New: %w", err)
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return nil, fmt.Errorf("store: apply schema: %w", err)
		}
	}
	return &Store{db: db, driver: name}, nil
}

// DB exposes the handle for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the underlying handle.
func (s *Store) Close() error { return s.db.Close() }

// bind rewrites "?" placeholders to "$n" for Postgres.
func (s *Store) bind(q string) string {
	if s.driver != DriverPostgres {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RecordScenario upserts one scenario outcome for run.
func (s *Store) RecordScenario(ctx context.Context, run string, sc Scenario) error {
	ok := 0
	if sc.OK {
		ok = 1
	}
	_, err := s.db.ExecContext(ctx, s.bind(`INSERT INTO scenarios (run, scenario, ok, objective, detail)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (run, scenario) DO UPDATE SET ok = excluded.ok, objective = excluded.objective, detail = excluded.detail`),
		run, sc.Name, ok, sc.Objective, sc.Detail)
	if err != nil {
		return fmt.Errorf("store: RecordScenario(%q): %w", sc.Name, err)
	}
	return nil
}

// Scenarios returns the outcomes recorded for run, ordered by name.
func (s *Store) Scenarios(ctx context.Context, run string) ([]Scenario, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`SELECT scenario, ok, objective, detail FROM scenarios WHERE run = ? ORDER BY scenario`), run)
	if err != nil {
		return nil, fmt.Errorf("store: Scenarios: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Scenario
	for rows.Next() {
		var sc Scenario
		var ok int
		if err := rows.Scan(&sc.Name, &ok, &sc.Objective, &sc.Detail); err != nil {
			return nil, fmt.Errorf("store: Scenarios: scan: %w", err)
		}
		sc.OK = ok != 0
		out = append(out, sc)
	}
	return out, rows.Err()
}

// SaveAllocation replaces the stored table of a.Model/a.Currency for run in one transaction.
func (s *Store) SaveAllocation(ctx context.Context, run string, a *portfolio.Allocation) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: SaveAllocation: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	cur := string(a.Currency)
	if _, err = tx.ExecContext(ctx, s.bind(`DELETE FROM allocations WHERE run = ? AND model = ? AND currency = ?`),
		run, a.Model, cur); err != nil {
		return fmt.Errorf("store: SaveAllocation: clear: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, s.bind(`INSERT INTO allocations (run, model, currency, period, position, percent) VALUES (?, ?, ?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("store: SaveAllocation: prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()
	for i, period := range a.Periods {
		for j, pos := range a.Positions {
			if _, err = stmt.ExecContext(ctx, run, a.Model, cur, period, pos, a.Percent[i][j]); err != nil {
				return fmt.Errorf("store: SaveAllocation: %s/%s: %w", period, pos, err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("store: SaveAllocation: commit: %w", err)
	}
	return nil
}

// Allocation reads back one stored table ordered by period then position.
func (s *Store) Allocation(ctx context.Context, run, model string, cur portfolio.Currency) ([]Cell, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(`SELECT period, position, percent FROM allocations
		WHERE run = ? AND model = ? AND currency = ? ORDER BY period, position`), run, model, string(cur))
	if err != nil {
		return nil, fmt.Errorf("store: Allocation: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []Cell
	for rows.Next() {
		var c Cell
		if err := rows.Scan(&c.Period, &c.Position, &c.Percent); err != nil {
			return nil, fmt.Errorf("store: Allocation: scan: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
