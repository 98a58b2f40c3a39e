package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore persists records to a PostgreSQL table through the pgx
// database/sql driver.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore connects to dsn and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	schema := `CREATE TABLE IF NOT EXISTS allocation_runs (
        id UUID PRIMARY KEY,
        ts TIMESTAMPTZ NOT NULL,
        record JSONB NOT NULL
    )`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO allocation_runs (id, ts, record) VALUES ($1, $2, $3)`,
		rec.ID, rec.Timestamp, string(b))
	return err
}

func (s *PostgresStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	query := `SELECT record::text FROM allocation_runs WHERE 1=1`
	if !q.Start.IsZero() {
		args = append(args, q.Start)
		query += fmt.Sprintf(` AND ts >= $%d`, len(args))
	}
	if !q.End.IsZero() {
		args = append(args, q.End)
		query += fmt.Sprintf(` AND ts <= $%d`, len(args))
	}
	if q.VehicleID != "" {
		args = append(args, q.VehicleID)
		query += fmt.Sprintf(` AND (record->'assignments' ? $%d OR record->'alerts' @> jsonb_build_array(jsonb_build_object('vehicle', $%d::text)))`, len(args), len(args))
	}
	query += ` ORDER BY ts`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	return scanRows(rows, q)
}

func (s *PostgresStore) Close() error { return s.db.Close() }
