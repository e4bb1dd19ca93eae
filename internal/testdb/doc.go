// Package testdb provides utilities specifically for database testing.
// Integration tests use it to obtain a migrated PostgreSQL connection and to
// isolate their work inside transactions that are always rolled back.
package testdb
