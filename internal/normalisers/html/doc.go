// Package html provides a Normaliser implementation for help-center articles
// with HTML bodies. It renders the markup as lightweight markdown (headings,
// lists, emphasis, links and tables), drops non-content elements such as
// scripts, styles and navigation, and derives a slug and SHA-256 fingerprint
// from the result.
package html
