// Package sqlite stores assessment answers in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/khanhnv2901/nis2-assess/internal/domain/assessment"
	"github.com/khanhnv2901/nis2-assess/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/nis2-assess/internal/shared/errors"
)

// DatabaseFileName is the file created inside the data directory.
const DatabaseFileName = "answers.db"

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// AnswerRepository implements the assessment.Repository interface on SQLite.
type AnswerRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewAnswerRepository opens (or creates) the answers database under dataDir.
func NewAnswerRepository(dataDir string) (*AnswerRepository, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if err := os.MkdirAll(dataDir, constants.DefaultDirPerm); err != nil {
		return nil, fmt.Errorf("sqlite: create data dir: %w", err)
	}

	db, err := openDB("sqlite", filepath.Join(dataDir, DatabaseFileName))
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}

	r := &AnswerRepository{db: db, now: time.Now}
	if err := r.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migration: %w", err)
	}
	return r, nil
}

// Close closes the underlying database connection.
func (r *AnswerRepository) Close() error {
	return r.db.Close()
}

func (r *AnswerRepository) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS answers (
			store_key   TEXT    NOT NULL,
			question_id TEXT    NOT NULL,
			selected    INTEGER,
			comment     TEXT    NOT NULL DEFAULT '',
			updated_at  TEXT    NOT NULL,
			PRIMARY KEY (store_key, question_id)
		);
	`
	_, err := r.db.Exec(schema)
	return err
}

// Load returns the responses saved under key.
func (r *AnswerRepository) Load(ctx context.Context, key string) (map[string]assessment.Response, error) {
	if key == "" {
		return nil, sharedErrors.ErrEmptyStoreKey
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT question_id, selected, comment FROM answers WHERE store_key = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("%w: query answers: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	defer rows.Close()

	out := make(map[string]assessment.Response)
	for rows.Next() {
		var (
			id       string
			selected sql.NullInt64
			comment  string
		)
		if err := rows.Scan(&id, &selected, &comment); err != nil {
			return nil, fmt.Errorf("%w: scan answer: %v", sharedErrors.ErrRepositoryOperation, err)
		}
		resp := assessment.Response{Comment: comment}
		if selected.Valid {
			v := int(selected.Int64)
			resp.Selected = &v
		}
		out[id] = resp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate answers: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	return out, nil
}

// Save replaces the responses stored under key in a single transaction.
func (r *AnswerRepository) Save(ctx context.Context, key string, responses map[string]assessment.Response) error {
	if key == "" {
		return sharedErrors.ErrEmptyStoreKey
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM answers WHERE store_key = ?`, key); err != nil {
		return fmt.Errorf("%w: clear answers: %v", sharedErrors.ErrRepositoryOperation, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO answers (store_key, question_id, selected, comment, updated_at) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	defer stmt.Close()

	updatedAt := r.now().UTC().Format(time.RFC3339)
	for id, resp := range responses {
		var selected sql.NullInt64
		if resp.Selected != nil {
			selected = sql.NullInt64{Int64: int64(*resp.Selected), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, key, id, selected, resp.Comment, updatedAt); err != nil {
			return fmt.Errorf("%w: insert answer %s: %v", sharedErrors.ErrRepositoryOperation, id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	return nil
}

// Delete removes everything stored under key.
func (r *AnswerRepository) Delete(ctx context.Context, key string) error {
	if key == "" {
		return sharedErrors.ErrEmptyStoreKey
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM answers WHERE store_key = ?`, key); err != nil {
		return fmt.Errorf("%w: delete answers: %v", sharedErrors.ErrRepositoryOperation, err)
	}
	return nil
}
