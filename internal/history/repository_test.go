package history

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testingpkg "github.com/aws-samples/actuarial-reserve-modelling/internal/testing"
)

func setupRepo(t *testing.T) *Repository {
	t.Helper()
	db := testingpkg.NewTestDB(t, "history")
	return NewRepository(db.Conn(), zerolog.Nop())
}

func sampleRun(startedAt time.Time) Run {
	return Run{
		StartedAt:  startedAt,
		InputPath:  "/fsx/input/policies.csv",
		OutputPath: "/fsx/output/reserves.txt",
		Policies:   100,
		Trials:     10000,
		Workers:    8,
		ClaimModel: "exponential",
		Seed:       18446744073709551615,
		Seeded:     true,
		Mean:       5819.86,
		Elapsed:    1500 * time.Millisecond,
	}
}

func TestRecord_AssignsID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	id, err := repo.Record(ctx, sampleRun(time.Now()))
	require.NoError(t, err)

	_, err = uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRecord_RoundTrip(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	started := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	run := sampleRun(started)
	run.ID = "run-1"
	run.ResultURI = "s3://bucket/output/run-1.txt"

	id, err := repo.Record(ctx, run)
	require.NoError(t, err)
	assert.Equal(t, "run-1", id)

	got, err := repo.Get(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, run, *got)
}

func TestRecord_DuplicateID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	run := sampleRun(time.Now())
	run.ID = "dup"

	_, err := repo.Record(ctx, run)
	require.NoError(t, err)

	_, err = repo.Record(ctx, run)
	assert.Error(t, err)
}

func TestGet_Missing(t *testing.T) {
	repo := setupRepo(t)

	got, err := repo.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecent(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		run := sampleRun(base.Add(time.Duration(i) * time.Hour))
		run.ID = id
		_, err := repo.Record(ctx, run)
		require.NoError(t, err)
	}

	runs, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].ID)
	assert.Equal(t, "b", runs[1].ID)

	all, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestRecord_Unseeded(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	run := sampleRun(time.Now())
	run.Seeded = false
	run.Seed = 7

	id, err := repo.Record(ctx, run)
	require.NoError(t, err)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.Seeded)
	assert.Equal(t, uint64(7), got.Seed)
}
