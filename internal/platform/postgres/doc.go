// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package, plus the embedded
// goose migrations that create their tables. It handles query execution and
// data mapping between domain entities and database records.
//
// Unit tests run against go-sqlmock; tests tagged "integration" start a
// PostgreSQL container with testcontainers-go.
package postgres
