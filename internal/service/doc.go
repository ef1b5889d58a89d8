// Package service holds the use cases behind the HTTP surface: managing a
// caller's tasks, reading and writing a caller's preferences, and registering
// and authenticating users.
//
// Services receive the caller's identity as an argument and scope every store
// call by it. They own input validation (through the domain constructors) and
// transaction boundaries: a task update is a locked read-modify-write and a
// preference batch is written atomically. Errors are returned as sentinels or
// as ServiceError values wrapping them, for the API layer to map with
// errors.Is/errors.As.
package service
