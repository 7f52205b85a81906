package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avolkova/ecommute/internal/common"
	"github.com/avolkova/ecommute/internal/dbx"
	"github.com/avolkova/ecommute/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// PostgresStore keeps every document as one row of the documents table.
type PostgresStore struct {
	db dbx.DBTX
}

// NewPostgresStore constructs a store bound to the given DBTX.
func NewPostgresStore(db dbx.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Get(ctx context.Context, key string) (*Document, error) {
	query :=
		`SELECT revision, body FROM documents
		 WHERE key = $1
		 `

	doc := &Document{Key: key}
	err := s.db.QueryRowContext(ctx, query, key).Scan(&doc.Revision, &doc.Body)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	return doc, nil
}

func (s *PostgresStore) Put(ctx context.Context, doc *Document) error {
	var (
		res sql.Result
		err error
	)

	if doc.Revision == 0 {
		// First write of the record. A concurrent first writer loses on the
		// primary key and is reported as a revision conflict.
		query :=
			`INSERT INTO documents (key, revision, body)
			 VALUES ($1, 1, $2)
			 ON CONFLICT (key) DO NOTHING
			 `
		res, err = s.db.ExecContext(ctx, query, doc.Key, doc.Body)
	} else {
		query :=
			`UPDATE documents SET revision = revision + 1, body = $3
			 WHERE key = $1 AND revision = $2
			 `
		res, err = s.db.ExecContext(ctx, query, doc.Key, doc.Revision, doc.Body)
	}

	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStorage, err)
	}
	if n == 0 {
		return common.ErrorRevisionConflict
	}

	doc.Revision++
	return nil
}

// gooseUpContext is a seam for testing RunMigrations.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and applies them
// to the given database.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}
