// Package testdb provides helpers for PostgreSQL integration tests: locating
// the test database, applying the embedded migrations once, and running each
// test inside a transaction that is always rolled back.
//
// Tests that use it should carry the integration build tag and are skipped
// when no test database URL is configured.
package testdb
