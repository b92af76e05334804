// Package repo contains all database access logic for the trails API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trails/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Integration tests pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TrailRepo defines the read operations for Trails. The API is read-only, so
// there are no write methods; trails are loaded by migrations.
type TrailRepo interface {
	// List returns trails matching f ordered by name, plus the total number of
	// matching trails. A nil page returns every match.
	List(ctx context.Context, f domain.TrailFilter, page *domain.PaginationParams) ([]domain.Trail, int64, error)

	// GetByID retrieves a single trail by its UUID primary key.
	// Returns domain.ErrNotFound if no trail with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trail, error)
}

// pgTrailRepo is the Postgres implementation of TrailRepo.
type pgTrailRepo struct {
	db db
}

// NewTrailRepo constructs a TrailRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTrailRepo(db db) TrailRepo {
	return &pgTrailRepo{db: db}
}

// List runs the filtered query. The count comes from a window function so a
// page and its total are read in one round trip.
func (r *pgTrailRepo) List(ctx context.Context, f domain.TrailFilter, page *domain.PaginationParams) ([]domain.Trail, int64, error) {
	q := `
		SELECT id, name, distance, difficulty, last_maintained, count(*) OVER () AS total
		FROM trails
		WHERE (@difficulty::text = '' OR difficulty = @difficulty)
		ORDER BY name, id`

	args := pgx.NamedArgs{"difficulty": string(f.Difficulty)}
	if page != nil {
		q += `
		LIMIT @limit OFFSET @offset`
		args["limit"] = page.Limit
		args["offset"] = page.Offset()
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.TrailRepo.List: %w", err)
	}
	defer rows.Close()

	trails := []domain.Trail{}
	var total int64
	for rows.Next() {
		var rowTotal int64
		t, err := scanTrail(rows, &rowTotal)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.TrailRepo.List: scan: %w", err)
		}
		total = rowTotal
		trails = append(trails, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.TrailRepo.List: rows: %w", err)
	}

	// A page past the end has no rows to carry the window count.
	if len(trails) == 0 && page != nil && page.Page > 1 {
		const countQ = `SELECT count(*) FROM trails WHERE (@difficulty::text = '' OR difficulty = @difficulty)`
		if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"difficulty": string(f.Difficulty)}).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("repo.TrailRepo.List: count: %w", err)
		}
	}

	return trails, total, nil
}

// GetByID retrieves a trail by primary key.
func (r *pgTrailRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trail, error) {
	const q = `
		SELECT id, name, distance, difficulty, last_maintained
		FROM trails
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrail(row)
	if err != nil {
		return domain.Trail{}, fmt.Errorf("repo.TrailRepo.GetByID: %w", err)
	}
	return result, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrail to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrail maps a single database row into a domain.Trail. extra receives
// any columns selected after the trail columns.
// last_maintained is normalised to UTC so the record serialises with a "Z"
// designator, which is what the client schema accepts.
func scanTrail(s scanner, extra ...any) (domain.Trail, error) {
	var (
		t          domain.Trail
		id         pgtype.UUID
		difficulty string
		maintained pgtype.Timestamptz
	)

	dest := append([]any{&id, &t.Name, &t.Distance, &difficulty, &maintained}, extra...)
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trail{}, domain.ErrNotFound
		}
		return domain.Trail{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Difficulty = domain.Difficulty(difficulty)
	if maintained.Valid {
		lm := maintained.Time.UTC()
		t.LastMaintained = &lm
	}

	return t, nil
}
