// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ArticleSource: Fetches the full article list from the help center
//   - Normaliser: Derives canonical text, slug and fingerprint
//   - FingerprintStore: Snapshot persistence across runs
//   - RunStateStore: Sync workflow record persistence
//   - FileUploader, VectorStoreService, AssistantService: The remote
//     retrieval service
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - ArticleArchive: Local markdown copies of changed articles
//   - RunHistoryStore: Per-run reports for status and scheduling
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
