// Package domain contains the core business entities of the application:
// generations (one per AI request), their diagnostic error rows, and the
// flashcards users keep. It has no dependencies on storage or transport.
package domain
