// Package domain defines the core business entities for helpsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Article: A help-center article as fetched from the source feed
//   - NormalisedArticle: The canonical text, slug and fingerprint of an article
//   - FingerprintSnapshot: The persisted per-article fingerprints of a run
//   - ChangeSet: The NEW / UPDATED / UNCHANGED partition of a run
//   - RunState: The resumable record of the remote sync workflow
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
