package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

func recordRuns(t *testing.T, history interface {
	Record(context.Context, domain.RunReport) error
}, n int) {
	t.Helper()
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		report := domain.RunReport{
			RunID:      fmt.Sprintf("run-%d", i),
			StartedAt:  start.Add(time.Duration(i) * time.Hour),
			FinishedAt: start.Add(time.Duration(i)*time.Hour + time.Minute),
			Success:    true,
		}
		require.NoError(t, history.Record(context.Background(), report))
	}
}

func runIDs(reports []domain.RunReport) []string {
	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.RunID)
	}
	return ids
}

func TestRunHistoryStore_RecordAndList(t *testing.T) {
	store := setupTestStore(t)
	history := store.RunHistoryStore()
	ctx := context.Background()

	report := domain.RunReport{
		RunID:         "run-1",
		StartedAt:     time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		FinishedAt:    time.Date(2025, 6, 1, 12, 0, 30, 0, time.UTC),
		Fetched:       10,
		Added:         2,
		Updated:       1,
		Skipped:       7,
		FilesUploaded: 3,
		UploadErrors:  0,
		AgentID:       "asst_1",
		IndexID:       "vs_1",
		Success:       false,
		Error:         "attach: batch poll timed out",
		Changes:       domain.ChangeSet{New: []domain.Change{{Kind: domain.ChangeNew}}},
	}
	require.NoError(t, history.Record(ctx, report))

	reports, err := history.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	want := report
	want.Changes = domain.ChangeSet{}
	assert.Equal(t, want, reports[0])
	assert.Equal(t, 30*time.Second, reports[0].Duration())
}

func TestRunHistoryStore_RequiresRunID(t *testing.T) {
	store := setupTestStore(t)
	err := store.RunHistoryStore().Record(context.Background(), domain.RunReport{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRunHistoryStore_ListNewestFirstWithLimit(t *testing.T) {
	store := setupTestStore(t)
	history := store.RunHistoryStore()
	recordRuns(t, history, 5)

	reports, err := history.List(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-5", "run-4", "run-3"}, runIDs(reports))

	all, err := history.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRunHistoryStore_ListEmpty(t *testing.T) {
	store := setupTestStore(t)
	reports, err := store.RunHistoryStore().List(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestRunHistoryStore_Prune(t *testing.T) {
	store := setupTestStore(t)
	history := store.RunHistoryStore()
	ctx := context.Background()
	recordRuns(t, history, 6)

	require.NoError(t, history.Prune(ctx, 2))
	reports, err := history.List(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"run-6", "run-5"}, runIDs(reports))

	assert.ErrorIs(t, history.Prune(ctx, -1), domain.ErrInvalidInput)
}

func TestRunHistoryStore_RecordSameRunReplaces(t *testing.T) {
	store := setupTestStore(t)
	history := store.RunHistoryStore()
	ctx := context.Background()

	require.NoError(t, history.Record(ctx, domain.RunReport{RunID: "r", Added: 1}))
	require.NoError(t, history.Record(ctx, domain.RunReport{RunID: "r", Added: 2}))

	reports, err := history.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, 2, reports[0].Added)
}
