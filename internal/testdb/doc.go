// Package testdb provides PostgreSQL databases for integration tests.
//
// Open returns a migrated *sql.DB. When TASKPREFS_TEST_DB_URL (or
// DATABASE_URL) is set it is used as is;
// otherwise a disposable PostgreSQL container is started with
// testcontainers-go and terminated when the test finishes. Tests that need
// isolation from each other wrap their work in WithTx, or call Reset to
// truncate every application table.
//
// Integration tests using this package carry the `integration` build tag:
//
//	//go:build integration
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.Open(t)
//	    testdb.Reset(t, db)
//	    ...
//	}
package testdb
