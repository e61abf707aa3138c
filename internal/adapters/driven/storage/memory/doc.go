// Package memory provides in-memory implementations of the driven storage
// ports. State is lost when the process exits; they back the "memory"
// state backend and tests.
package memory
