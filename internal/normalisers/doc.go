// Package normalisers provides implementations of the Normaliser interface.
// A normaliser turns a source article into canonical text, a slug and a
// content fingerprint used for change detection.
package normalisers
