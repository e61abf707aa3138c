// Package file loads the application configuration from a TOML or YAML file,
// overlays environment variables and validates the result.
//
// The file format is picked by extension (.toml, .yaml, .yml). Nested
// sections are flattened to dot-notation keys ("sync.poll_timeout") before
// being applied to domain.Config, so both formats share one key table.
// Durations accept Go duration strings ("3s") or integer seconds.
package file
