package domain

import (
	"errors"
	"time"
)

// EntityType is a reusable classification of leaf entities, such as
// "ssh_key" or "log_file". Unique by (Name, Category).
type EntityType struct {
	ID          int64
	Name        string
	Category    string
	MimeType    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks the fields required before an upsert.
func (t *EntityType) Validate() error {
	if t.Name == "" {
		return errors.New("entity type name is required")
	}
	if t.Category == "" {
		return errors.New("entity type category is required")
	}
	return nil
}

// Entity is a leaf item attached under exactly one HierarchyNode. An
// entity is never a parent of other entities or nodes. Unique by
// (ParentNodeID, Name): two entities may share a name under different
// parents, and the path column is deliberately not authoritative for
// entity identity.
type Entity struct {
	ID   int64
	Path string
	// PathHash is populated by the store; see HierarchyNode.PathHash.
	PathHash     string
	ParentNodeID int64
	RootEntityID int64
	Name         string
	EntityTypeID *int64
	Size         *int64
	ContentHash  string
	ContentType  string
	// Content is an optional schema-less JSON blob.
	Content   []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields required before an upsert.
func (e *Entity) Validate() error {
	if e.ParentNodeID == 0 {
		return errors.New("entity parent node id is required")
	}
	if e.RootEntityID == 0 {
		return errors.New("entity root entity id is required")
	}
	if e.Path == "" {
		return errors.New("entity path is required")
	}
	if e.Name == "" {
		return errors.New("entity name is required")
	}
	if e.ContentType == "" {
		return errors.New("entity content type is required")
	}
	return nil
}
