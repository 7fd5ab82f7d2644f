// Package store declares the persistence interfaces for generations,
// generation errors and flashcards, the sentinel errors implementations
// return, and RunInTransaction for multi-statement writes. The PostgreSQL
// implementation lives in internal/platform/postgres.
package store
