// Package store defines interfaces for data persistence operations on users,
// tasks and revoked tokens. These interfaces abstract the underlying storage
// engine (PostgreSQL or MongoDB) from the application's core logic.
package store
