package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/amishk599/offermatch/internal/model"
)

const createSkillsTable = `CREATE TABLE IF NOT EXISTS skills (
	id         BIGSERIAL PRIMARY KEY,
	slug       TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	category   TEXT NOT NULL DEFAULT '',
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore is the canonical skill repository backed by a PostgreSQL pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and ensures the skills table exists.
func NewPostgresStore(ctx context.Context, databaseURL string, maxConns int32) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, errors.New("postgres dsn is required")
	}

	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the skills table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createSkillsTable); err != nil {
		return fmt.Errorf("creating skills table: %w", err)
	}
	return nil
}

// LookupBySlug returns the skill stored under slug, or nil when it is unknown.
func (s *PostgresStore) LookupBySlug(ctx context.Context, slug string) (*model.SkillRecord, error) {
	var rec model.SkillRecord
	err := s.pool.QueryRow(ctx,
		`SELECT id, slug, name, category FROM skills WHERE slug = $1`, slug,
	).Scan(&rec.ID, &rec.Slug, &rec.Name, &rec.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, postgresError("lookup", slug, err)
	}
	return &rec, nil
}

// Upsert inserts the descriptor or refreshes its name and category.
func (s *PostgresStore) Upsert(ctx context.Context, d model.SkillDescriptor) (*model.SkillRecord, error) {
	rec := model.SkillRecord{Slug: d.Slug, Name: d.DisplayName, Category: d.Category}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO skills (slug, name, category)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (slug) DO UPDATE SET name = $2, category = $3, updated_at = NOW()
		 RETURNING id`,
		d.Slug, d.DisplayName, d.Category,
	).Scan(&rec.ID)
	if err != nil {
		return nil, postgresError("upsert", d.Slug, err)
	}
	return &rec, nil
}

// List returns every stored skill ordered by slug.
func (s *PostgresStore) List(ctx context.Context) ([]model.SkillRecord, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, slug, name, category FROM skills ORDER BY slug`)
	if err != nil {
		return nil, postgresError("list", "", err)
	}
	defer rows.Close()

	var out []model.SkillRecord
	for rows.Next() {
		var rec model.SkillRecord
		if err := rows.Scan(&rec.ID, &rec.Slug, &rec.Name, &rec.Category); err != nil {
			return nil, postgresError("list", "", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, postgresError("list", "", err)
	}
	return out, nil
}

// IsEmpty returns true if the skills table has no entries.
func (s *PostgresStore) IsEmpty(ctx context.Context) (bool, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM skills)`).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking if store is empty: %w", err)
	}
	return !exists, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// postgresError wraps err, flagging failures that happened before the server
// saw the statement (or timed out) as transient.
func postgresError(op, slug string, err error) error {
	transient := pgconn.SafeToRetry(err) || pgconn.Timeout(err)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 40 (transaction rollback) and 53 (insufficient resources).
		transient = transient || strings.HasPrefix(pgErr.Code, "40") || strings.HasPrefix(pgErr.Code, "53")
	}
	return &model.RepositoryError{Op: op, Slug: slug, Transient: transient, Err: err}
}
