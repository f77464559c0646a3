// Package collector defines the contract every data-producing component
// follows, and the runner that drives registered collectors through it.
//
// A collector is a pluggable component that discovers one source's
// hierarchical data (a network, a filesystem, a key directory) and
// writes it through the upsert store. Collectors hold no shared mutable
// state: the store handle and source identity are passed in explicitly
// through a Run value, and the runner guarantees Shutdown on every exit
// path. Failures are isolated per collector, so one unreachable source
// never prevents collection of the others.
package collector

import (
	"context"

	"netcollector/internal/builder"
	"netcollector/internal/domain"
	"netcollector/internal/repository"
)

// Collector is implemented by every data-producing component.
type Collector interface {
	// Source describes the data source row this collector writes under.
	// Name, SourceType and Description must be stable across runs so the
	// upsert converges; ConnectionInfo carries the source-specific
	// options blob, opaque to the core.
	Source() domain.DataSource

	// Collect discovers the source's trees and writes them through run,
	// in parent-before-child order. Sub-tree failures should be logged
	// and skipped so independent sub-trees still land; an error return
	// marks the whole collector as failed for this run.
	Collect(ctx context.Context, run *Run) error

	// Shutdown releases any resources the collector holds. The runner
	// calls it exactly once per run, on success and on failure alike.
	Shutdown() error
}

// Run carries the per-run identity and store handle a collector writes
// through. A Run is scoped to one collector within one collection run.
type Run struct {
	id       string
	sourceID int64
	store    repository.Store
}

// ID returns the collection run identifier, shared by all collectors in
// the same run.
func (r *Run) ID() string {
	return r.id
}

// SourceID returns the store-assigned identifier of this collector's
// data source row.
func (r *Run) SourceID() int64 {
	return r.sourceID
}

// Store exposes the upsert store for writes that bypass tree building,
// such as entity type registration.
func (r *Run) Store() repository.Store {
	return r.store
}

// NewTree creates (or refreshes) a root entity owned by this run's data
// source and returns a builder scoped to its tree. The root's SourceID
// is set here; callers fill the rest.
func (r *Run) NewTree(ctx context.Context, root *domain.RootEntity) (*builder.Builder, error) {
	root.SourceID = r.sourceID
	return builder.Begin(ctx, r.store, root)
}
