// Package api handles incoming HTTP requests, request validation and response
// formatting for the task, preference and auth endpoints. Handlers translate
// HTTP concerns to service calls and map service errors back to status codes
// and safe messages.
package api
