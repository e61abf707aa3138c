package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

func recordRuns(t *testing.T, store *RunHistoryStore, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, store.Record(context.Background(), domain.RunReport{RunID: fmt.Sprintf("run-%d", i)}))
	}
}

func runIDs(reports []domain.RunReport) []string {
	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.RunID)
	}
	return ids
}

func TestRunHistoryStore_ListNewestFirst(t *testing.T) {
	store := NewRunHistoryStore()
	recordRuns(t, store, 3)

	reports, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-3", "run-2", "run-1"}, runIDs(reports))
}

func TestRunHistoryStore_ListLimit(t *testing.T) {
	store := NewRunHistoryStore()
	recordRuns(t, store, 5)

	reports, err := store.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-5", "run-4"}, runIDs(reports))

	all, err := store.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRunHistoryStore_DropsChangeSet(t *testing.T) {
	store := NewRunHistoryStore()
	report := domain.RunReport{
		RunID:   "r",
		Changes: domain.ChangeSet{New: []domain.Change{{Kind: domain.ChangeNew}}},
	}
	require.NoError(t, store.Record(context.Background(), report))

	reports, err := store.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 0, reports[0].Changes.Len())
}

func TestRunHistoryStore_Prune(t *testing.T) {
	store := NewRunHistoryStore()
	recordRuns(t, store, 5)

	require.NoError(t, store.Prune(context.Background(), 2))

	reports, err := store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-5", "run-4"}, runIDs(reports))

	require.NoError(t, store.Prune(context.Background(), 0))
	reports, err = store.List(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, reports)

	assert.ErrorIs(t, store.Prune(context.Background(), -1), domain.ErrInvalidInput)
}
