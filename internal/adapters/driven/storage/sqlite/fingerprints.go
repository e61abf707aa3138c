package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/helpsync/internal/core/domain"
	"github.com/custodia-labs/helpsync/internal/core/ports/driven"
	"github.com/custodia-labs/helpsync/internal/logger"
)

// fingerprintStore implements driven.FingerprintStore.
type fingerprintStore struct {
	store *Store
}

var _ driven.FingerprintStore = (*fingerprintStore)(nil)

// Load reads every fingerprint row. Query failures degrade to an empty
// snapshot so the run treats all articles as new.
func (s *fingerprintStore) Load(ctx context.Context) (domain.FingerprintSnapshot, error) {
	snapshot, err := s.load(ctx)
	if err != nil {
		logger.Warn("sqlite: %v, starting from an empty snapshot", err)
		return domain.NewFingerprintSnapshot(), nil
	}
	return snapshot, nil
}

func (s *fingerprintStore) load(ctx context.Context) (domain.FingerprintSnapshot, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT article_id, title, slug, content_hash, updated_at, last_checked
		FROM fingerprints
	`)
	if err != nil {
		return nil, fmt.Errorf("querying fingerprints: %w", err)
	}
	defer rows.Close()

	snapshot := domain.NewFingerprintSnapshot()
	for rows.Next() {
		var rec domain.FingerprintRecord
		var updatedAt, lastChecked sql.NullString
		if err := rows.Scan(&rec.ArticleID, &rec.Title, &rec.Slug, &rec.Fingerprint,
			&updatedAt, &lastChecked); err != nil {
			return nil, fmt.Errorf("scanning fingerprint: %w", err)
		}
		rec.UpdatedAt = parseNullableTime(updatedAt)
		rec.LastChecked = parseNullableTime(lastChecked)
		snapshot[rec.ArticleID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fingerprints: %w", err)
	}
	return snapshot, nil
}

// Save replaces the whole snapshot in a single transaction.
func (s *fingerprintStore) Save(ctx context.Context, snapshot domain.FingerprintSnapshot) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM fingerprints"); err != nil {
		return fmt.Errorf("clearing fingerprints: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fingerprints (article_id, title, slug, content_hash, updated_at, last_checked)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	// Sorted IDs keep the write order reproducible.
	for _, id := range snapshot.IDs() {
		rec := snapshot[id]
		if _, err := stmt.ExecContext(ctx, id, rec.Title, rec.Slug, rec.Fingerprint,
			formatNullableTime(rec.UpdatedAt), formatNullableTime(rec.LastChecked)); err != nil {
			return fmt.Errorf("inserting fingerprint %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing fingerprints: %w", err)
	}
	return nil
}
