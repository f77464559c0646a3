// Package repository defines the data access interface for the
// netcollector persistence model.
//
// This package provides the upsert store abstraction collectors write
// through. The actual implementation is in the sqlite subpackage.
//
// # Store Interface
//
// The Store interface exposes one idempotent create-or-update operation
// per record kind. Every operation is keyed on the record's natural key:
// inserting a record whose key already exists overwrites the non-key
// fields in place, refreshes the modification timestamp, and returns the
// existing identifier. Re-running a collection with identical input
// therefore converges to the same set of identifiers without creating
// duplicate rows.
//
// # Error Taxonomy
//
// ErrStorageUnavailable means the backend could not be reached and is
// fatal to the run. ErrConstraintViolation means a write referenced a
// nonexistent foreign key, which indicates an ordering bug in the
// calling collector and is fatal to that sub-tree only. Both are
// surfaced as wrapped sentinels, so callers test with errors.Is.
//
// # Commit Model
//
// Each operation commits individually; there is no cross-operation
// transaction. A failed operation leaves previously committed rows
// untouched, and an interrupted run is expected to be re-run in full.
package repository
