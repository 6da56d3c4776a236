package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"reeltalk/app/database"
)

// Repository bundles the SQL repositories over one migrated database.
type Repository struct {
	db       *sql.DB
	dbPath   string
	isTestDB bool

	Users    *SQLUserRepository
	Posts    *SQLPostRepository
	Comments *SQLCommentRepository
}

// NewRepository opens and migrates the database at path. An empty path
// creates a throwaway database in a temp dir that Close removes.
func NewRepository(ctx context.Context, path string) (*Repository, error) {
	isTest := false
	if path == "" {
		tempDir, err := os.MkdirTemp("", "reeltalk_test_db_")
		if err != nil {
			return nil, fmt.Errorf("error creating temp dir: %w", err)
		}
		path = filepath.Join(tempDir, "reeltalk.db")
		isTest = true
	}

	db, err := database.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repository{
		db:       db,
		dbPath:   path,
		isTestDB: isTest,
		Users:    NewSQLUserRepository(db),
		Posts:    NewSQLPostRepository(db),
		Comments: NewSQLCommentRepository(db),
	}, nil
}

// DB exposes the pool for per-request connection scoping and backups.
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.dbPath
}

func (r *Repository) Close() error {
	if err := r.db.Close(); err != nil {
		return err
	}

	if r.isTestDB {
		if err := os.RemoveAll(filepath.Dir(r.dbPath)); err != nil {
			return fmt.Errorf("failed to cleanup test database: %w", err)
		}
	}
	return nil
}
