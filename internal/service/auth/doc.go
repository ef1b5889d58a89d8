// Package auth issues and verifies the credentials that identify a caller.
//
// JWTService signs HMAC-SHA256 access and refresh tokens. TokenVerifier turns
// a bearer credential into the caller's user ID and reports every failure as
// ErrUnauthenticated. Passwords are hashed and compared with bcrypt.
package auth
