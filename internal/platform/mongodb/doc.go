// Package mongodb provides MongoDB implementations of the internal/store
// interfaces. It is the document-store alternative to package postgres and
// is selected with database.driver=mongo.
//
// Identifiers are stored as canonical UUID strings in _id so both backends
// hand out identical ids. Ownership is enforced the same way as in SQL:
// every task filter includes user_id.
package mongodb
