package runlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "data", "enricher.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRunLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	run := &Run{ID: "run-1", DatasetPath: "/data/urls.xlsx", StartedAt: started}
	require.NoError(t, store.BeginRun(ctx, run))

	runs, err := store.RecentRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "run-1", runs[0].ID)
	assert.True(t, runs[0].FinishedAt.IsZero())

	run.FinishedAt = started.Add(10 * time.Minute)
	run.Processed = 7
	run.Skipped = 3
	run.FullyUpdated = 5
	run.PartiallyUpdated = 1
	run.Errored = 1
	require.NoError(t, store.FinishRun(ctx, run))

	runs, err = store.RecentRuns(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 7, runs[0].Processed)
	assert.Equal(t, 3, runs[0].Skipped)
	assert.Equal(t, 5, runs[0].FullyUpdated)
	assert.Equal(t, 1, runs[0].PartiallyUpdated)
	assert.Equal(t, 1, runs[0].Errored)
	assert.False(t, runs[0].FinishedAt.IsZero())
}

func TestStoreRecentRunsOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		require.NoError(t, store.BeginRun(ctx, &Run{
			ID:          id,
			DatasetPath: "/data/urls.xlsx",
			StartedAt:   base.Add(time.Duration(i) * time.Hour),
		}))
	}

	runs, err := store.RecentRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-c", runs[0].ID)
	assert.Equal(t, "run-b", runs[1].ID)
}

func TestStoreRecordRowUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.BeginRun(ctx, &Run{
		ID:          "run-1",
		DatasetPath: "/data/urls.xlsx",
		StartedAt:   time.Now().UTC(),
	}))

	url := "https://www.tiktok.com/@a/video/1"
	require.NoError(t, store.RecordRow(ctx, RowOutcome{
		RunID:     "run-1",
		URL:       url,
		Outcome:   "errored",
		Error:     "whisper: decode failed",
		UpdatedAt: time.Now().UTC(),
	}))
	require.NoError(t, store.RecordRow(ctx, RowOutcome{
		RunID:     "run-1",
		URL:       url,
		Outcome:   "fully_updated",
		UpdatedAt: time.Now().UTC(),
	}))

	outcomes, err := store.RowsForRun(ctx, "run-1")
	require.NoError(t, err)
	require.Len(t, outcomes, 1)
	assert.Equal(t, "fully_updated", outcomes[0].Outcome)
	assert.Empty(t, outcomes[0].Error)
}
