// Package store defines the persistence contracts for users, tasks and
// preferences. Every store scopes its queries by the owning user where the
// entity has one, so a caller can never reach another user's rows through
// these interfaces. Implementations live in internal/platform/postgres.
package store
