package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/helpsync/internal/core/domain"
)

func newTestDetector() (*DeltaDetector, *fakeClock) {
	clock := newFakeClock()
	d := NewDeltaDetector(stubNormaliser{})
	d.now = clock.Now
	return d, clock
}

func changeIDs(changes []domain.Change) []string {
	ids := make([]string, 0, len(changes))
	for _, c := range changes {
		ids = append(ids, c.Article.ID)
	}
	return ids
}

func TestDeltaDetector_FirstRunAllNew(t *testing.T) {
	d, clock := newTestDetector()
	articles := []domain.Article{
		article("a", "Alpha", "one"),
		article("b", "Beta", "two"),
	}

	changes, snap := d.Detect(articles, nil, 0)

	assert.Equal(t, []string{"a", "b"}, changeIDs(changes.New))
	assert.Empty(t, changes.Updated)
	assert.Empty(t, changes.Unchanged)
	require.Len(t, snap, 2)

	rec := snap["a"]
	assert.Equal(t, "a", rec.ArticleID)
	assert.Equal(t, "Alpha", rec.Title)
	assert.Equal(t, "alpha", rec.Slug)
	assert.Equal(t, "fp:# Alpha\n\none", rec.Fingerprint)
	assert.Equal(t, clock.Now(), rec.LastChecked)

	for _, c := range changes.New {
		assert.Equal(t, domain.ChangeNew, c.Kind)
		assert.Equal(t, c.Article.ID, c.Normalised.ArticleID)
	}
}

func TestDeltaDetector_EndToEndScenario(t *testing.T) {
	d, _ := newTestDetector()

	run1 := []domain.Article{
		article("A", "A", "v1"),
		article("B", "B", "v1"),
		article("C", "C", "v1"),
	}
	changes, snap1 := d.Detect(run1, domain.NewFingerprintSnapshot(), 0)
	assert.Equal(t, []string{"A", "B", "C"}, changeIDs(changes.New))
	assert.Empty(t, changes.Updated)
	assert.Empty(t, changes.Unchanged)

	run2 := []domain.Article{
		article("A", "A", "v1"),
		article("B", "B", "v2"),
		article("C", "C", "v1"),
	}
	changes, snap2 := d.Detect(run2, snap1, 0)
	assert.Empty(t, changes.New)
	assert.Equal(t, []string{"B"}, changeIDs(changes.Updated))
	assert.Equal(t, []string{"A", "C"}, changeIDs(changes.Unchanged))
	assert.NotEqual(t, snap1["B"].Fingerprint, snap2["B"].Fingerprint)
	assert.Equal(t, snap1["A"].Fingerprint, snap2["A"].Fingerprint)
}

func TestDeltaDetector_Idempotence(t *testing.T) {
	d, _ := newTestDetector()
	articles := []domain.Article{
		article("1", "One", "body one"),
		article("2", "Two", "body two"),
		article("3", "Three", "body three"),
	}

	_, snap := d.Detect(articles, nil, 0)
	changes, _ := d.Detect(articles, snap, 0)

	assert.False(t, changes.HasChanges())
	assert.Len(t, changes.Unchanged, 3)
}

func TestDeltaDetector_RefreshesLastChecked(t *testing.T) {
	d, clock := newTestDetector()
	articles := []domain.Article{article("1", "One", "x")}

	_, snap1 := d.Detect(articles, nil, 0)
	clock.t = clock.t.Add(24 * time.Hour)
	changes, snap2 := d.Detect(articles, snap1, 0)

	require.Len(t, changes.Unchanged, 1)
	assert.True(t, snap2["1"].LastChecked.After(snap1["1"].LastChecked))
}

func TestDeltaDetector_Limit(t *testing.T) {
	articles := make([]domain.Article, 0, 5)
	for i := 1; i <= 5; i++ {
		articles = append(articles, article(fmt.Sprintf("%d", i), fmt.Sprintf("T%d", i), "b"))
	}

	tests := []struct {
		name     string
		limit    int
		expected []string
	}{
		{name: "no limit", limit: 0, expected: []string{"1", "2", "3", "4", "5"}},
		{name: "negative is no limit", limit: -1, expected: []string{"1", "2", "3", "4", "5"}},
		{name: "limit below count", limit: 2, expected: []string{"1", "2"}},
		{name: "limit equals count", limit: 5, expected: []string{"1", "2", "3", "4", "5"}},
		{name: "limit above count", limit: 10, expected: []string{"1", "2", "3", "4", "5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newTestDetector()
			changes, snap := d.Detect(articles, nil, tt.limit)
			assert.Equal(t, tt.expected, changeIDs(changes.New))
			assert.Equal(t, tt.expected, snap.IDs())
		})
	}
}

func TestDeltaDetector_DropsRecordsNotConsidered(t *testing.T) {
	d, _ := newTestDetector()
	prior := domain.FingerprintSnapshot{
		"gone": {ArticleID: "gone", Fingerprint: "old"},
		"3":    {ArticleID: "3", Fingerprint: "old"},
	}
	articles := []domain.Article{
		article("1", "One", "a"),
		article("2", "Two", "b"),
		article("3", "Three", "c"),
	}

	changes, snap := d.Detect(articles, prior, 2)

	assert.Equal(t, 2, changes.Len())
	assert.Equal(t, []string{"1", "2"}, snap.IDs())
	_, ok := prior.Lookup("gone")
	assert.True(t, ok, "prior snapshot must not be mutated")
}

func TestDeltaDetector_PartitionTotality(t *testing.T) {
	d, _ := newTestDetector()

	for n := 0; n < 20; n++ {
		prior := domain.NewFingerprintSnapshot()
		articles := make([]domain.Article, 0, n)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("doc-%d", i)
			articles = append(articles, article(id, id, "body"))
			switch i % 3 {
			case 0:
				// absent from prior
			case 1:
				prior[id] = domain.FingerprintRecord{ArticleID: id, Fingerprint: "stale"}
			case 2:
				prior[id] = domain.FingerprintRecord{ArticleID: id, Fingerprint: "fp:# " + id + "\n\nbody"}
			}
		}

		changes, snap := d.Detect(articles, prior, 0)

		assert.Equal(t, n, changes.Len())
		assert.Len(t, snap, n)

		seen := make(map[string]int)
		for _, bucket := range [][]domain.Change{changes.New, changes.Updated, changes.Unchanged} {
			for _, c := range bucket {
				seen[c.Article.ID]++
			}
		}
		assert.Len(t, seen, n)
		for id, count := range seen {
			assert.Equal(t, 1, count, "article %s appears in more than one bucket", id)
		}
	}
}

func TestDeltaDetector_Deterministic(t *testing.T) {
	d, _ := newTestDetector()
	articles := []domain.Article{
		article("x", "X", "1"),
		article("y", "Y", "2"),
	}
	prior := domain.FingerprintSnapshot{"y": {ArticleID: "y", Fingerprint: "other"}}

	c1, s1 := d.Detect(articles, prior, 0)
	c2, s2 := d.Detect(articles, prior, 0)

	assert.Equal(t, c1, c2)
	assert.Equal(t, s1, s2)
}

func TestDeltaDetector_DuplicateIDs(t *testing.T) {
	d, _ := newTestDetector()
	articles := []domain.Article{
		article("1", "First", "a"),
		article("1", "Second", "b"),
	}

	changes, snap := d.Detect(articles, nil, 0)

	require.Len(t, changes.New, 1)
	assert.Equal(t, "First", changes.New[0].Article.Title)
	assert.Equal(t, "First", snap["1"].Title)
}

func TestDeltaDetector_Empty(t *testing.T) {
	d, _ := newTestDetector()
	changes, snap := d.Detect(nil, domain.FingerprintSnapshot{"old": {}}, 0)
	assert.Equal(t, 0, changes.Len())
	assert.Empty(t, snap)
	assert.NotNil(t, snap)
}
