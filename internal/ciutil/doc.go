// Package ciutil detects the execution environment (CI or local) and reads
// the environment variables shared by logging and test database setup.
package ciutil
