package domain

import (
	"sort"
	"time"
)

// FingerprintRecord is the last-seen state of one source article.
type FingerprintRecord struct {
	ArticleID   string    `json:"article_id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Fingerprint string    `json:"content_hash"`
	UpdatedAt   time.Time `json:"updated_at"`
	LastChecked time.Time `json:"last_checked"`
}

// FingerprintSnapshot maps article ID to its FingerprintRecord.
// A run reads exactly one snapshot and writes exactly one replacement.
type FingerprintSnapshot map[string]FingerprintRecord

// NewFingerprintSnapshot returns an empty snapshot.
func NewFingerprintSnapshot() FingerprintSnapshot {
	return make(FingerprintSnapshot)
}

// Lookup returns the record for an article ID, if present.
func (s FingerprintSnapshot) Lookup(articleID string) (FingerprintRecord, bool) {
	if s == nil {
		return FingerprintRecord{}, false
	}
	rec, ok := s[articleID]
	return rec, ok
}

// IDs returns the article IDs in the snapshot, sorted.
func (s FingerprintSnapshot) IDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone returns an independent copy of the snapshot.
func (s FingerprintSnapshot) Clone() FingerprintSnapshot {
	out := make(FingerprintSnapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
