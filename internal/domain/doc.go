// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, the tasks they own and their
// key/value preferences. It is independent of any specific infrastructure or
// delivery mechanism.
package domain
