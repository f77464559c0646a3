package domain

import (
	"errors"
	"time"
)

// HierarchyNode is a non-leaf node ("directory") in a root entity's tree.
// Unique by (RootEntityID, Path).
//
// Invariants maintained by the builder and the store:
//   - every node belongs to exactly one root entity, fixed at creation
//   - a node's parent, when present, belongs to the same root entity
//   - Depth is the parent's depth plus one; nodes attached directly
//     under the root entity have depth 1
type HierarchyNode struct {
	ID   int64
	Path string
	// PathHash is the hex digest of Path, populated by the store. It is
	// an indexable surrogate for equality lookups only and is never
	// treated as a unique key on its own.
	PathHash     string
	ParentID     *int64
	RootEntityID int64
	Name         string
	NodeType     string
	Depth        int
	// Properties is an optional schema-less JSON blob.
	Properties []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks the fields required before an upsert.
func (n *HierarchyNode) Validate() error {
	if n.RootEntityID == 0 {
		return errors.New("hierarchy node root entity id is required")
	}
	if n.Path == "" {
		return errors.New("hierarchy node path is required")
	}
	if n.Name == "" {
		return errors.New("hierarchy node name is required")
	}
	if n.NodeType == "" {
		return errors.New("hierarchy node type is required")
	}
	if n.Depth < 0 {
		return errors.New("hierarchy node depth must be non-negative")
	}
	return nil
}
