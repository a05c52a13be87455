package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB, ensures the schema exists and seeds the stock grading
// systems.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:gradekeep.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/gradekeep?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	if err := seedSystems(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS grading_systems (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  family TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS calculative_details (
  system_id TEXT PRIMARY KEY REFERENCES grading_systems(id) ON DELETE CASCADE,
  bottom REAL NOT NULL,
  top REAL NOT NULL,
  bottom_per REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS representative_bands (
  id TEXT PRIMARY KEY,
  system_id TEXT NOT NULL REFERENCES grading_systems(id) ON DELETE CASCADE,
  bottom REAL NOT NULL,
  top REAL NOT NULL,
  label TEXT NOT NULL,
  level INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS legend_bands (
  id TEXT PRIMARY KEY,
  system_id TEXT NOT NULL REFERENCES grading_systems(id) ON DELETE CASCADE,
  bottom REAL NOT NULL,
  top REAL NOT NULL,
  label TEXT NOT NULL,
  level INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  system_id TEXT NOT NULL REFERENCES grading_systems(id),
  plan TEXT NOT NULL DEFAULT 'free',
  sponsored INTEGER NOT NULL DEFAULT 0,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS semesters (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
  name TEXT,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subjects (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  weight REAL NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS grades (
  id TEXT PRIMARY KEY,
  subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
  grade_date TEXT NOT NULL,
  weight REAL NOT NULL DEFAULT 1,
  score REAL NOT NULL,
  note TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS event_log (
  "offset" INTEGER PRIMARY KEY AUTOINCREMENT, -- BIGSERIAL in Postgres
  account_id TEXT NOT NULL,
  typ TEXT NOT NULL,                          -- e.g. GradeCreated
  key TEXT NOT NULL,                          -- mutated record id
  data TEXT NOT NULL,                         -- JSON payload
  created_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS grading_systems (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  family TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS calculative_details (
  system_id TEXT PRIMARY KEY REFERENCES grading_systems(id) ON DELETE CASCADE,
  bottom DOUBLE PRECISION NOT NULL,
  top DOUBLE PRECISION NOT NULL,
  bottom_per DOUBLE PRECISION NOT NULL
);

CREATE TABLE IF NOT EXISTS representative_bands (
  id TEXT PRIMARY KEY,
  system_id TEXT NOT NULL REFERENCES grading_systems(id) ON DELETE CASCADE,
  bottom DOUBLE PRECISION NOT NULL,
  top DOUBLE PRECISION NOT NULL,
  label TEXT NOT NULL,
  level INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS legend_bands (
  id TEXT PRIMARY KEY,
  system_id TEXT NOT NULL REFERENCES grading_systems(id) ON DELETE CASCADE,
  bottom DOUBLE PRECISION NOT NULL,
  top DOUBLE PRECISION NOT NULL,
  label TEXT NOT NULL,
  level INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS accounts (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  system_id TEXT NOT NULL REFERENCES grading_systems(id),
  plan TEXT NOT NULL DEFAULT 'free',
  sponsored BOOLEAN NOT NULL DEFAULT FALSE,
  created_at BIGINT NOT NULL
);

CREATE TABLE IF NOT EXISTS semesters (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
  name TEXT,
  start_date TEXT NOT NULL,
  end_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS subjects (
  id TEXT PRIMARY KEY,
  account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  weight DOUBLE PRECISION NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS grades (
  id TEXT PRIMARY KEY,
  subject_id TEXT NOT NULL REFERENCES subjects(id) ON DELETE CASCADE,
  grade_date TEXT NOT NULL,
  weight DOUBLE PRECISION NOT NULL DEFAULT 1,
  score DOUBLE PRECISION NOT NULL,
  note TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS event_log (
  "offset" BIGSERIAL PRIMARY KEY,
  account_id TEXT NOT NULL,
  typ TEXT NOT NULL,
  key TEXT NOT NULL,
  data TEXT NOT NULL,
  created_at BIGINT NOT NULL
);
`

// seedSystems installs the stock grading systems on first start. Inserts are
// conflict-ignored so existing deployments keep their rows.
func seedSystems(ctx context.Context, db *sql.DB) error {
	type band struct {
		id          string
		bottom, top float64
		label       string
		level       int
	}
	exec := func(query string, args ...any) error {
		_, err := db.ExecContext(ctx, query, args...)
		return err
	}

	// Swiss 1-6 scale, no calculation below 20%
	if err := exec(`INSERT INTO grading_systems (id,name,family) VALUES ($1,$2,$3)
		ON CONFLICT (id) DO NOTHING`, "ch", "CH", "calculative"); err != nil {
		return err
	}
	if err := exec(`INSERT INTO calculative_details (system_id,bottom,top,bottom_per)
		VALUES ($1,$2,$3,$4) ON CONFLICT (system_id) DO NOTHING`, "ch", 1.0, 6.0, 20.0); err != nil {
		return err
	}
	chLegend := []band{
		{"ch-l1", 85, 101, "Excellent", 1},
		{"ch-l2", 70, 85, "Good", 2},
		{"ch-l3", 55, 70, "Sufficient", 3},
		{"ch-l4", 20, 55, "Insufficient", 4},
	}
	for _, b := range chLegend {
		if err := exec(`INSERT INTO legend_bands (id,system_id,bottom,top,label,level)
			VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (id) DO NOTHING`,
			b.id, "ch", b.bottom, b.top, b.label, b.level); err != nil {
			return err
		}
	}

	// US letter grades, representative
	if err := exec(`INSERT INTO grading_systems (id,name,family) VALUES ($1,$2,$3)
		ON CONFLICT (id) DO NOTHING`, "us", "US Letter", "representative"); err != nil {
		return err
	}
	usBands := []band{
		{"us-a", 90, 101, "A", 1},
		{"us-b", 80, 90, "B", 2},
		{"us-c", 70, 80, "C", 3},
		{"us-d", 60, 70, "D", 4},
		{"us-f", 0, 60, "F", 5},
	}
	for _, b := range usBands {
		if err := exec(`INSERT INTO representative_bands (id,system_id,bottom,top,label,level)
			VALUES ($1,$2,$3,$4,$5,$6) ON CONFLICT (id) DO NOTHING`,
			b.id, "us", b.bottom, b.top, b.label, b.level); err != nil {
			return err
		}
	}
	return nil
}
