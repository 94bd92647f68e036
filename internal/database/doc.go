// Package database provides the PostgreSQL connection pool for the
// relational storage backend.
package database
