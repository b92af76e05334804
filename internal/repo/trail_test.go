package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trails/internal/domain"
	"github.com/pkordes/trails/internal/repo"
	"github.com/pkordes/trails/testutil"
)

// newTestRepo opens a transaction against the test database, clears the seed
// trails inside it and returns a TrailRepo backed by that transaction. The
// transaction is rolled back when the test finishes.
func newTestRepo(t *testing.T) (repo.TrailRepo, pgx.Tx) {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	_, err = tx.Exec(context.Background(), `DELETE FROM trails`)
	require.NoError(t, err, "clear seed trails")

	return repo.NewTrailRepo(tx), tx
}

// insertTrail writes a trail directly; the repo itself is read-only.
func insertTrail(t *testing.T, tx pgx.Tx, tr domain.Trail) domain.Trail {
	t.Helper()
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	_, err := tx.Exec(context.Background(), `
		INSERT INTO trails (id, name, distance, difficulty, last_maintained)
		VALUES (@id, @name, @distance, @difficulty, @last_maintained)`,
		pgx.NamedArgs{
			"id":              tr.ID,
			"name":            tr.Name,
			"distance":        tr.Distance,
			"difficulty":      string(tr.Difficulty),
			"last_maintained": tr.LastMaintained,
		})
	require.NoError(t, err, "insert trail")
	return tr
}

func trailFixture(name string, d domain.Difficulty) domain.Trail {
	return domain.Trail{Name: name, Distance: 4.5, Difficulty: d}
}

func TestTrailRepo_GetByID(t *testing.T) {
	r, tx := newTestRepo(t)
	lm := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	in := trailFixture("Ridge Trail", domain.DifficultyModerate)
	in.LastMaintained = &lm
	in = insertTrail(t, tx, in)

	got, err := r.GetByID(context.Background(), in.ID)

	require.NoError(t, err)
	assert.Equal(t, in.ID, got.ID)
	assert.Equal(t, "Ridge Trail", got.Name)
	assert.Equal(t, 4.5, got.Distance)
	assert.Equal(t, domain.DifficultyModerate, got.Difficulty)
	require.NotNil(t, got.LastMaintained)
	assert.True(t, lm.Equal(*got.LastMaintained))
	assert.Equal(t, time.UTC, got.LastMaintained.Location())
}

func TestTrailRepo_GetByID_NotFound(t *testing.T) {
	r, _ := newTestRepo(t)

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTrailRepo_List_All(t *testing.T) {
	r, tx := newTestRepo(t)
	insertTrail(t, tx, trailFixture("Canyon Rim", domain.DifficultyHard))
	insertTrail(t, tx, trailFixture("Aspen Walk", domain.DifficultyEasy))

	got, total, err := r.List(context.Background(), domain.TrailFilter{}, nil)

	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, got, 2)
	assert.Equal(t, "Aspen Walk", got[0].Name, "ordered by name")
	assert.Nil(t, got[0].LastMaintained)
}

func TestTrailRepo_List_Empty(t *testing.T) {
	r, _ := newTestRepo(t)

	got, total, err := r.List(context.Background(), domain.TrailFilter{}, nil)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func TestTrailRepo_List_FilterAndPage(t *testing.T) {
	r, tx := newTestRepo(t)
	for _, name := range []string{"A", "B", "C"} {
		insertTrail(t, tx, trailFixture(name, domain.DifficultyEasy))
	}
	insertTrail(t, tx, trailFixture("D", domain.DifficultyHard))

	got, total, err := r.List(context.Background(),
		domain.TrailFilter{Difficulty: domain.DifficultyEasy},
		&domain.PaginationParams{Page: 2, Limit: 2})

	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, got, 1)
	assert.Equal(t, "C", got[0].Name)

	got, total, err = r.List(context.Background(),
		domain.TrailFilter{Difficulty: domain.DifficultyEasy},
		&domain.PaginationParams{Page: 5, Limit: 2})

	require.NoError(t, err)
	assert.Empty(t, got)
	assert.EqualValues(t, 3, total, "total is reported past the last page")
}
