package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Yijia-Z/dalle2-app/internal/dbx"
)

// slotQueries holds the statements of one dialect. Only placeholders and
// upsert spelling differ between them.
type slotQueries struct {
	get    string
	upsert string
	delete string
}

var queries = map[dbx.Dialect]slotQueries{
	dbx.SQLite: {
		get: `SELECT value FROM metadata WHERE key = ?`,
		upsert: `INSERT INTO metadata (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		delete: `DELETE FROM metadata WHERE key = ?`,
	},
	dbx.Postgres: {
		get: `SELECT value FROM metadata WHERE key = $1`,
		upsert: `INSERT INTO metadata (key, value) VALUES ($1, $2)
			ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		delete: `DELETE FROM metadata WHERE key = $1`,
	},
}

// SlotRepository keeps slots in the metadata table of either dialect.
type SlotRepository struct {
	db      dbx.DBTX
	dialect dbx.Dialect
	q       slotQueries
}

func newSlotRepository(db dbx.DBTX, d dbx.Dialect) *SlotRepository {
	return &SlotRepository{db: db, dialect: d, q: queries[d]}
}

func NewSQLiteRepository(db dbx.DBTX) *SlotRepository {
	return newSlotRepository(db, dbx.SQLite)
}

func NewPostgresRepository(db dbx.DBTX) *SlotRepository {
	return newSlotRepository(db, dbx.Postgres)
}

func (r *SlotRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, r.q.get, key).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("read slot %q: %w", key, err)
	}
	return value, nil
}

func (r *SlotRepository) Set(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, r.q.upsert, key, value); err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

func (r *SlotRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.q.delete, key); err != nil {
		return fmt.Errorf("delete slot %q: %w", key, err)
	}
	return nil
}
