package file

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// FingerprintsFile is the snapshot file name inside the data directory.
const FingerprintsFile = "fingerprints.json"

// snapshotVersion is the current snapshot document format.
const snapshotVersion = 1

// Ensure FingerprintStore implements the interface.
var _ driven.FingerprintStore = (*FingerprintStore)(nil)

// snapshotDocument is the on-disk form of a FingerprintSnapshot.
type snapshotDocument struct {
	Version  int                        `json:"version"`
	Articles domain.FingerprintSnapshot `json:"articles"`
}

// FingerprintStore persists the fingerprint snapshot as one JSON document.
type FingerprintStore struct {
	mu   sync.Mutex
	path string
}

// NewFingerprintStore creates a store backed by fingerprints.json in dataDir.
func NewFingerprintStore(dataDir string) *FingerprintStore {
	return &FingerprintStore{path: filepath.Join(dataDir, FingerprintsFile)}
}

// Path returns the snapshot file path.
func (s *FingerprintStore) Path() string {
	return s.path
}

// Load reads the snapshot. A missing, corrupt or unknown-version file
// yields an empty snapshot and no error.
func (s *FingerprintStore) Load(_ context.Context) (domain.FingerprintSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var doc snapshotDocument
	found, err := readJSON(s.path, &doc)
	if err != nil {
		logger.Warn("fingerprints: %v, starting from an empty snapshot", err)
		return domain.NewFingerprintSnapshot(), nil
	}
	if !found {
		logger.Debug("fingerprints: no snapshot at %s", s.path)
		return domain.NewFingerprintSnapshot(), nil
	}
	if doc.Version != snapshotVersion {
		logger.Warn("fingerprints: unsupported snapshot version %d, starting from an empty snapshot", doc.Version)
		return domain.NewFingerprintSnapshot(), nil
	}
	if doc.Articles == nil {
		return domain.NewFingerprintSnapshot(), nil
	}

	// Keys are authoritative; older files may lack the embedded ID.
	for id, rec := range doc.Articles {
		if rec.ArticleID == "" {
			rec.ArticleID = id
			doc.Articles[id] = rec
		}
	}
	logger.Debug("fingerprints: loaded %d records", len(doc.Articles))
	return doc.Articles, nil
}

// Save atomically replaces the snapshot file.
func (s *FingerprintStore) Save(_ context.Context, snapshot domain.FingerprintSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snapshot == nil {
		snapshot = domain.NewFingerprintSnapshot()
	}
	return writeJSON(s.path, snapshotDocument{Version: snapshotVersion, Articles: snapshot})
}
