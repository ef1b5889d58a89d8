// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx stdlib driver. It owns the SQL text, the
// mapping between rows and domain entities, the translation of PostgreSQL
// error codes into store sentinels, and the embedded goose migrations that
// define the schema.
package postgres
