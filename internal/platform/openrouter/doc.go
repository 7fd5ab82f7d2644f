// Package openrouter is a client for OpenRouter-compatible chat-completions
// endpoints.
//
// Conversations are immutable Session values; Client.Send takes a session
// and returns the extended one together with the parsed reply. Requests are
// retried on 408, 429 and 5xx gateway statuses, per-attempt timeouts and
// network failures, with exponential backoff and jitter. When a session
// carries a json_schema response format the reply content must be valid
// JSON.
package openrouter
