package repository

import (
	"context"
	"errors"

	"netcollector/internal/domain"
)

// Sentinel errors returned by Store implementations. Call sites wrap
// these with context, so always test with errors.Is.
var (
	// ErrStorageUnavailable indicates the persistence backend could not
	// be reached or the connection has been closed.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrConstraintViolation indicates a write referenced a foreign key
	// that does not exist, such as a missing parent node or root entity.
	ErrConstraintViolation = errors.New("constraint violation")
)

// Store is the upsert interface collectors persist through. Every
// operation is an idempotent insert-or-update keyed on the record's
// natural key, returning the store-assigned identifier of the resulting
// row. Each call is an individually committed durable write.
type Store interface {
	// UpsertDataSource writes a data source keyed on name.
	UpsertDataSource(ctx context.Context, src *domain.DataSource) (int64, error)

	// UpsertRootEntity writes a root entity keyed on (source id, name).
	UpsertRootEntity(ctx context.Context, root *domain.RootEntity) (int64, error)

	// UpsertHierarchyNode writes a tree node keyed on (root entity id,
	// path). The store computes the path hash before writing.
	UpsertHierarchyNode(ctx context.Context, node *domain.HierarchyNode) (int64, error)

	// UpsertEntityType writes an entity type keyed on (name, category).
	UpsertEntityType(ctx context.Context, et *domain.EntityType) (int64, error)

	// UpsertEntity writes a leaf entity keyed on (parent node id, name).
	// The store computes the path hash before writing.
	UpsertEntity(ctx context.Context, ent *domain.Entity) (int64, error)

	// UpsertMetadata writes a key/value fact keyed on (owner kind, owner
	// id, key). Pure side effect; no identifier is returned.
	UpsertMetadata(ctx context.Context, meta *domain.MetadataEntry) error

	// Close releases the backend connection.
	Close() error
}
