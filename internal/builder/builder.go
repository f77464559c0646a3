// Package builder sequences upsert store calls so tree invariants hold
// by construction.
//
// A Builder is scoped to one root entity and one collection run. Parents
// are always created before their children: callers declare a node's
// parent by path, and the builder refuses to materialize a child whose
// parent path it has not produced in this run. Likewise, metadata may
// only reference an identifier the builder has already handed out, so a
// metadata row can never point at a record the run has not written.
package builder

import (
	"context"
	"errors"
	"fmt"

	"netcollector/internal/domain"
	"netcollector/internal/repository"
)

// ErrDanglingReference indicates a child was declared before its parent,
// or metadata referenced an identifier this run never produced. The
// failure is scoped to the sub-tree in progress, not the whole run.
var ErrDanglingReference = errors.New("dangling reference")

type nodeRef struct {
	id    int64
	depth int
}

type ownerRef struct {
	kind domain.OwnerKind
	id   int64
}

// Builder materializes one root entity's tree in parent-to-child order.
type Builder struct {
	store  repository.Store
	rootID int64
	nodes  map[string]nodeRef
	owners map[ownerRef]struct{}
}

// Begin creates (or refreshes) the root entity for one tree and returns
// a Builder scoped to it.
func Begin(ctx context.Context, store repository.Store, root *domain.RootEntity) (*Builder, error) {
	id, err := store.UpsertRootEntity(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("create root entity %q: %w", root.Name, err)
	}
	root.ID = id

	return &Builder{
		store:  store,
		rootID: id,
		nodes:  make(map[string]nodeRef),
		owners: make(map[ownerRef]struct{}),
	}, nil
}

// RootEntityID returns the identifier of the tree's root entity.
func (b *Builder) RootEntityID() int64 {
	return b.rootID
}

// AddNode materializes a hierarchy node. parentPath names a node already
// added in this run, or is empty to attach the node directly under the
// root entity at depth 1. The caller fills Path, Name, NodeType and
// Properties; the builder owns ParentID, RootEntityID and Depth.
func (b *Builder) AddNode(ctx context.Context, parentPath string, node *domain.HierarchyNode) (int64, error) {
	node.RootEntityID = b.rootID
	node.ParentID = nil
	node.Depth = 1

	if parentPath != "" {
		parent, ok := b.nodes[parentPath]
		if !ok {
			return 0, fmt.Errorf("node %q: parent %q not yet created: %w",
				node.Path, parentPath, ErrDanglingReference)
		}
		node.ParentID = &parent.id
		node.Depth = parent.depth + 1
	}

	id, err := b.store.UpsertHierarchyNode(ctx, node)
	if err != nil {
		return 0, err
	}
	node.ID = id

	b.nodes[node.Path] = nodeRef{id: id, depth: node.Depth}
	b.owners[ownerRef{domain.OwnerNode, id}] = struct{}{}
	return id, nil
}

// AddEntity materializes a leaf entity under the node named by
// parentPath, which must already exist in this run. The caller fills
// Path, Name, ContentType and the optional fields; the builder owns
// ParentNodeID and RootEntityID.
func (b *Builder) AddEntity(ctx context.Context, parentPath string, ent *domain.Entity) (int64, error) {
	parent, ok := b.nodes[parentPath]
	if !ok {
		return 0, fmt.Errorf("entity %q: parent node %q not yet created: %w",
			ent.Path, parentPath, ErrDanglingReference)
	}

	ent.ParentNodeID = parent.id
	ent.RootEntityID = b.rootID

	id, err := b.store.UpsertEntity(ctx, ent)
	if err != nil {
		return 0, err
	}
	ent.ID = id

	b.owners[ownerRef{domain.OwnerEntity, id}] = struct{}{}
	return id, nil
}

// AddMetadata attaches a typed key/value fact to a node or entity whose
// identifier was returned by this builder during the current run.
func (b *Builder) AddMetadata(ctx context.Context, kind domain.OwnerKind, ownerID int64, key, value string, dataType domain.DataType) error {
	if _, ok := b.owners[ownerRef{kind, ownerID}]; !ok {
		return fmt.Errorf("metadata %q for unknown %s %d: %w",
			key, kind, ownerID, ErrDanglingReference)
	}

	return b.store.UpsertMetadata(ctx, &domain.MetadataEntry{
		OwnerKind: kind,
		OwnerID:   ownerID,
		Key:       key,
		Value:     value,
		DataType:  dataType,
	})
}
