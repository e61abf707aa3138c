// Package file provides JSON and markdown file implementations of the
// driven storage ports.
//
// This is the default backend. All state lives under one data directory:
//
//   - fingerprints.json: the FingerprintSnapshot, replaced in full per run
//   - run_state.json: the RunState of the remote sync workflow
//
// Writes go to a temporary file in the same directory and are renamed into
// place, so readers only ever see a complete document. Unreadable files
// load as empty state and are logged.
//
// Archive writes changed articles as <slug>.md into a separate directory.
package file
