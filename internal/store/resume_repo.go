package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql"
)

// ResumeRepo stores small per-client values (active plan id, wizard step)
// so a terminal or browser profile can pick up where it left off.
type ResumeRepo struct {
	drv dialect.Driver
	now func() time.Time
}

// Get returns the value stored for key under clientID.
func (r *ResumeRepo) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	b := sql.Dialect(dialect.SQLite)
	query, args := b.Select("value").
		From(b.Table(tableResumeKeys)).
		Where(sql.And(sql.EQ("client_id", clientID), sql.EQ("key", key))).
		Limit(1).
		Query()

	var rows sql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return "", false, fmt.Errorf("query resume key: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}
	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, fmt.Errorf("scan resume key: %w", err)
	}
	return value, true, nil
}

// Set stores value for key under clientID, replacing any previous value.
func (r *ResumeRepo) Set(ctx context.Context, clientID, key, value string) error {
	query, args := sql.Dialect(dialect.SQLite).
		Insert(tableResumeKeys).
		Columns("client_id", "key", "value", "updated_at").
		Values(clientID, key, value, r.now().UTC()).
		OnConflict(
			sql.ConflictColumns("client_id", "key"),
			sql.ResolveWithNewValues(),
		).
		Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("upsert resume key: %w", err)
	}
	return nil
}

// Delete removes key under clientID. Missing keys are not an error.
func (r *ResumeRepo) Delete(ctx context.Context, clientID, key string) error {
	query, args := sql.Dialect(dialect.SQLite).
		Delete(tableResumeKeys).
		Where(sql.And(sql.EQ("client_id", clientID), sql.EQ("key", key))).
		Query()

	var res stdsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("delete resume key: %w", err)
	}
	return nil
}
