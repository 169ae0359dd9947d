// Package metadata stores small textual values under string keys. The
// history list and the sealed API key live here.
package metadata

import (
	"context"

	"github.com/Yijia-Z/dalle2-app/internal/dbx"
)

// Repository is a key/value slot store. Get returns (nil, nil) for a
// missing key; Delete of a missing key is not an error.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Factory binds a Repository to a connection or transaction.
type Factory func(db dbx.DBTX) Repository

func SQLiteFactory(db dbx.DBTX) Repository   { return NewSQLiteRepository(db) }
func PostgresFactory(db dbx.DBTX) Repository { return NewPostgresRepository(db) }

// FactoryFor picks the repository implementation for a dialect.
func FactoryFor(d dbx.Dialect) Factory {
	if d == dbx.Postgres {
		return PostgresFactory
	}
	return SQLiteFactory
}
