// Package service contains the business logic for the trails API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/trails/internal/domain"
	"github.com/pkordes/trails/internal/repo"
	"github.com/pkordes/trails/internal/schema"
)

// TrailService implements the read operations for trails.
// Every record it returns has passed the same schema the browser client
// validates with, so the API cannot publish a trail its consumers reject.
type TrailService struct {
	repo repo.TrailRepo
	log  *slog.Logger
}

// NewTrailService constructs a TrailService backed by the provided TrailRepo.
func NewTrailService(r repo.TrailRepo, log *slog.Logger) *TrailService {
	if log == nil {
		log = slog.Default()
	}
	return &TrailService{repo: r, log: log}
}

// List returns the trails matching f and the total match count.
// A nil page returns every match. Unknown difficulties fail with ErrValidation.
func (s *TrailService) List(ctx context.Context, f domain.TrailFilter, page *domain.PaginationParams) ([]domain.Trail, int64, error) {
	if f.Difficulty != "" {
		if _, err := domain.ParseDifficulty(string(f.Difficulty)); err != nil {
			return nil, 0, fmt.Errorf("service.TrailService.List: %w", err)
		}
	}

	trails, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		return nil, 0, err
	}
	if trails == nil {
		trails = []domain.Trail{}
	}

	for i, t := range trails {
		if err := s.conform(ctx, t); err != nil {
			return nil, 0, fmt.Errorf("service.TrailService.List: row %d: %w", i, err)
		}
	}
	return trails, total, nil
}

// GetByID returns a single trail by ID.
func (s *TrailService) GetByID(ctx context.Context, id uuid.UUID) (domain.Trail, error) {
	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Trail{}, err
	}
	if err := s.conform(ctx, t); err != nil {
		return domain.Trail{}, fmt.Errorf("service.TrailService.GetByID: %w", err)
	}
	return t, nil
}

// conform checks a stored trail against the published schema. A failure is
// a data problem on our side, not the caller's, so it is logged and reported
// as a plain error rather than ErrValidation.
func (s *TrailService) conform(ctx context.Context, t domain.Trail) error {
	if _, err := schema.ValidateValue(t); err != nil {
		s.log.ErrorContext(ctx, "stored trail does not match schema", "trail_id", t.ID, "error", err)
		return fmt.Errorf("stored trail %s does not match schema: %s", t.ID, err.Error())
	}
	return nil
}
