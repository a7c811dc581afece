package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/amishk599/offermatch/internal/model"
)

// SQLiteStore is the canonical skill repository backed by a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath and ensures the
// skills table exists.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS skills (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		slug       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		category   TEXT NOT NULL DEFAULT '',
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating skills table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// LookupBySlug returns the skill stored under slug, or nil when it is unknown.
func (s *SQLiteStore) LookupBySlug(ctx context.Context, slug string) (*model.SkillRecord, error) {
	var rec model.SkillRecord
	err := s.db.QueryRowContext(ctx,
		"SELECT id, slug, name, category FROM skills WHERE slug = ?", slug,
	).Scan(&rec.ID, &rec.Slug, &rec.Name, &rec.Category)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, sqliteError("lookup", slug, err)
	}
	return &rec, nil
}

// Upsert inserts the descriptor or refreshes its name and category. The id of
// an existing slug never changes.
func (s *SQLiteStore) Upsert(ctx context.Context, d model.SkillDescriptor) (*model.SkillRecord, error) {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO skills (slug, name, category) VALUES (?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET name = excluded.name, category = excluded.category,
		 updated_at = CURRENT_TIMESTAMP`,
		d.Slug, d.DisplayName, d.Category,
	)
	if err != nil {
		return nil, sqliteError("upsert", d.Slug, err)
	}
	rec, err := s.LookupBySlug(ctx, d.Slug)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, &model.RepositoryError{Op: "upsert", Slug: d.Slug, Err: errors.New("row missing after upsert")}
	}
	return rec, nil
}

// List returns every stored skill ordered by slug.
func (s *SQLiteStore) List(ctx context.Context) ([]model.SkillRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, slug, name, category FROM skills ORDER BY slug")
	if err != nil {
		return nil, sqliteError("list", "", err)
	}
	defer rows.Close()

	var out []model.SkillRecord
	for rows.Next() {
		var rec model.SkillRecord
		if err := rows.Scan(&rec.ID, &rec.Slug, &rec.Name, &rec.Category); err != nil {
			return nil, sqliteError("list", "", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, sqliteError("list", "", err)
	}
	return out, nil
}

// IsEmpty returns true if the skills table has no entries.
func (s *SQLiteStore) IsEmpty(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM skills").Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking if store is empty: %w", err)
	}
	return count == 0, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteError wraps err, flagging lock contention as transient.
func sqliteError(op, slug string, err error) error {
	transient := false
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		switch serr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			transient = true
		}
	}
	return &model.RepositoryError{Op: op, Slug: slug, Transient: transient, Err: err}
}
