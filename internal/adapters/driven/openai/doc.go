// Package openai provides the remote retrieval service adapter.
//
// It talks to the OpenAI Files, Vector Stores and Assistants (v2) APIs over
// plain HTTP. Calls to the same endpoint are spaced by a fixed delay;
// there is no adaptive backoff.
package openai
