package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "nested", "history.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestDB_RunLifecycle(t *testing.T) {
	db := newTestDB(t)
	start := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)

	id, err := db.RecordRunStart("run-1", start)
	require.NoError(t, err)
	assert.Positive(t, id)

	counters := RunCounters{Total: 4, Attempted: 4, Notified: 1, NoDeal: 2, Skipped: 1}
	require.NoError(t, db.UpdateRunCompletion(id, start.Add(10*time.Second), RunStatusCompleted, "products.txt", counters, ""))

	runs, err := db.ListRecentRuns(5)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, "run-1", run.RunID)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.True(t, run.StartTime.Equal(start))
	require.True(t, run.EndTime.Valid)
	assert.True(t, run.EndTime.Time.Equal(start.Add(10*time.Second)))
	assert.Equal(t, "products.txt", run.ProductsFile.String)
	assert.Equal(t, counters, run.Counters)
	assert.False(t, run.ErrorMessage.Valid)
}

func TestDB_GetLastRunTime(t *testing.T) {
	db := newTestDB(t)

	last, err := db.GetLastRunTime()
	require.NoError(t, err)
	assert.Nil(t, last)

	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i, status := range []string{RunStatusCompleted, RunStatusCompleted, RunStatusFailed} {
		start := base.Add(time.Duration(i) * time.Hour)
		id, err := db.RecordRunStart(start.Format(time.RFC3339), start)
		require.NoError(t, err)
		require.NoError(t, db.UpdateRunCompletion(id, start.Add(time.Minute), status, "", RunCounters{}, ""))
	}

	last, err = db.GetLastRunTime()
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.True(t, last.Equal(base.Add(time.Hour)), "failed runs are not counted")
}

func TestDB_ListRecentRunsOrderAndLimit(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		_, err := db.RecordRunStart(string(rune('a'+i)), base.Add(time.Duration(i)*time.Minute))
		require.NoError(t, err)
	}

	runs, err := db.ListRecentRuns(3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"e", "d", "c"}, []string{runs[0].RunID, runs[1].RunID, runs[2].RunID})
	assert.Equal(t, RunStatusStarted, runs[0].Status)
	assert.False(t, runs[0].EndTime.Valid)
}

func TestDB_Errors(t *testing.T) {
	db := newTestDB(t)

	_, err := db.RecordRunStart("dup", time.Now())
	require.NoError(t, err)
	_, err = db.RecordRunStart("dup", time.Now())
	assert.Error(t, err)

	assert.Error(t, db.UpdateRunCompletion(9999, time.Now(), RunStatusCompleted, "", RunCounters{}, ""))
}

func TestDB_PersistsAcrossConnections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db, err := NewDB(path, zerolog.Nop())
	require.NoError(t, err)
	_, err = db.RecordRunStart("persisted", time.Now())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened, err := NewDB(path, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	runs, err := reopened.ListRecentRuns(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "persisted", runs[0].RunID)
}
