package domain

import (
	"errors"
	"fmt"
)

// OwnerKind tags which record kind a metadata entry is attached to.
type OwnerKind string

const (
	// OwnerNode attaches metadata to a HierarchyNode.
	OwnerNode OwnerKind = "hierarchy_node"
	// OwnerEntity attaches metadata to an Entity.
	OwnerEntity OwnerKind = "entity"
)

// Valid reports whether k is a known owner kind.
func (k OwnerKind) Valid() bool {
	return k == OwnerNode || k == OwnerEntity
}

// DataType tags how a metadata value string should be interpreted.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeNumber  DataType = "number"
	DataTypeBoolean DataType = "boolean"
)

// MetadataEntry is a single typed key/value fact about a node or entity.
// Unique by (OwnerKind, OwnerID, Key); re-adding the same key overwrites
// the value and data type rather than duplicating.
type MetadataEntry struct {
	OwnerKind OwnerKind
	OwnerID   int64
	Key       string
	// Value is always string-encoded; DataType says how to read it.
	Value    string
	DataType DataType
}

// Validate checks the fields required before an upsert.
func (m *MetadataEntry) Validate() error {
	if !m.OwnerKind.Valid() {
		return fmt.Errorf("unknown metadata owner kind %q", m.OwnerKind)
	}
	if m.OwnerID == 0 {
		return errors.New("metadata owner id is required")
	}
	if m.Key == "" {
		return errors.New("metadata key is required")
	}
	if m.DataType == "" {
		return errors.New("metadata data type is required")
	}
	return nil
}
