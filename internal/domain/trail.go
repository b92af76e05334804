// Package domain contains the core data types for the trails application.
// It is imported by every other internal package (schema, trailapi, repo,
// service, handler) and depends on nothing inside the module.
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Difficulty is the rating a trail is published with.
type Difficulty string

const (
	DifficultyEasy     Difficulty = "easy"
	DifficultyModerate Difficulty = "moderate"
	DifficultyHard     Difficulty = "hard"
)

// Difficulties returns every valid Difficulty, easiest first.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyModerate, DifficultyHard}
}

// ParseDifficulty converts s into a Difficulty.
// Returns an error wrapping ErrValidation when s is not a known rating.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range Difficulties() {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: difficulty must be one of easy, moderate, hard (got %q)", ErrValidation, s)
}

// Trail is a single hiking or walking route.
// Trails are read-only values: they are built from server responses (or
// database rows on the API side) and never mutated afterwards.
// LastMaintained is nil when the source did not report a maintenance date.
//
// The JSON shape must stay in step with the validator in internal/schema;
// a test in that package compares the two field sets.
type Trail struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Distance       float64    `json:"distance"`
	Difficulty     Difficulty `json:"difficulty"`
	LastMaintained *time.Time `json:"lastMaintained,omitempty"`
}

// TrailFilter narrows a trail listing. The zero value matches every trail.
type TrailFilter struct {
	// Difficulty restricts results to one rating when non-empty.
	Difficulty Difficulty
}
