package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/pappers-sync/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteBeginRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, "12345678900010", model.RunKindCreate)
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, "12345678900010", run.EntityKey)
	assert.Equal(t, model.RunStateRunning, run.State)
}

func TestSQLiteBeginRunRejectsInFlight(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first, err := s.BeginRun(ctx, "12345678900010", model.RunKindCreate)
	require.NoError(t, err)

	_, err = s.BeginRun(ctx, "12345678900010", model.RunKindUpdate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunInFlight))

	// A different establishment is unaffected.
	_, err = s.BeginRun(ctx, "12345678900028", model.RunKindCreate)
	require.NoError(t, err)

	// Completing the first run frees the key.
	require.NoError(t, s.CompleteRun(ctx, first.ID, "001xx"))
	_, err = s.BeginRun(ctx, "12345678900010", model.RunKindUpdate)
	require.NoError(t, err)
}

func TestSQLiteCompleteRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, "12345678900010", model.RunKindCreate)
	require.NoError(t, err)

	require.NoError(t, s.CompleteRun(ctx, run.ID, "001xx"))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStateLinked, got.State)
	assert.Equal(t, "001xx", got.AccountID)
	assert.Empty(t, got.Error)
}

func TestSQLiteFailRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run, err := s.BeginRun(ctx, "12345678900010", model.RunKindCreate)
	require.NoError(t, err)

	require.NoError(t, s.FailRun(ctx, run.ID, errors.New("cartography fetch failed")))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStateFailed, got.State)
	assert.Contains(t, got.Error, "cartography fetch failed")
}

func TestSQLiteUpdateUnknownRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	err := s.CompleteRun(ctx, "missing", "001xx")
	assert.Error(t, err)

	err = s.FailRun(ctx, "missing", errors.New("boom"))
	assert.Error(t, err)
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), "missing")
	require.Error(t, err)

	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing", nf.Key)
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	first, err := s.BeginRun(ctx, "12345678900010", model.RunKindCreate)
	require.NoError(t, err)
	require.NoError(t, s.CompleteRun(ctx, first.ID, "001xx"))

	_, err = s.BeginRun(ctx, "12345678900028", model.RunKindUpdate)
	require.NoError(t, err)

	t.Run("all", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, RunFilter{})
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})

	t.Run("by state", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, RunFilter{State: model.RunStateLinked})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, first.ID, runs[0].ID)
	})

	t.Run("by entity key", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, RunFilter{EntityKey: "12345678900028"})
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, model.RunKindUpdate, runs[0].Kind)
	})

	t.Run("by kind with limit", func(t *testing.T) {
		runs, err := s.ListRuns(ctx, RunFilter{Kind: model.RunKindCreate, Limit: 1})
		require.NoError(t, err)
		require.Len(t, runs, 1)
	})
}
