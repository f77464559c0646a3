package domain

import (
	"errors"
	"time"
)

// RootEntity is the top of one hierarchical tree owned by a DataSource.
// Unique by (SourceID, Name).
type RootEntity struct {
	ID         int64
	SourceID   int64
	Name       string
	EntityType string
	// Path is optional; when set it is the logical path prefix shared by
	// every node in the tree.
	Path string
	// Metadata is an optional schema-less JSON blob.
	Metadata  []byte
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the fields required before an upsert.
func (r *RootEntity) Validate() error {
	if r.SourceID == 0 {
		return errors.New("root entity source id is required")
	}
	if r.Name == "" {
		return errors.New("root entity name is required")
	}
	if r.EntityType == "" {
		return errors.New("root entity type is required")
	}
	return nil
}
