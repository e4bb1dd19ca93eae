// Package store declares the persistence contract for tasks (TaskStore), the
// error taxonomy every implementation reports through, and a transaction
// helper. The PostgreSQL implementation lives in internal/platform/postgres.
package store
