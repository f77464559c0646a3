// Package codec renders a stored inventory in exchange formats. The
// export is flat and relation-shaped: records reference one another by
// ID exactly as they do in the database.
package codec

import (
	"fmt"
	"io"
	"time"

	"netcollector/internal/domain"
)

// Exporter writes an inventory snapshot to some exchange format.
type Exporter interface {
	Export(inv *domain.Inventory, w io.Writer) error
	Format() string
}

// ForFormat returns the exporter for a format identifier.
func ForFormat(format string) (Exporter, error) {
	switch format {
	case "json":
		return NewJSONCodec(), nil
	case "yaml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want json or yaml)", format)
	}
}

// document is the serialized shape shared by every exporter.
type document struct {
	Sources     []docSource     `json:"sources" yaml:"sources"`
	Roots       []docRoot       `json:"roots" yaml:"roots"`
	Nodes       []docNode       `json:"nodes" yaml:"nodes"`
	EntityTypes []docEntityType `json:"entity_types" yaml:"entity_types"`
	Entities    []docEntity     `json:"entities" yaml:"entities"`
	Metadata    []docMetadata   `json:"metadata" yaml:"metadata"`
}

type docSource struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	SourceType  string `json:"source_type" yaml:"source_type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	UpdatedAt   string `json:"updated_at" yaml:"updated_at"`
}

type docRoot struct {
	ID         int64  `json:"id" yaml:"id"`
	SourceID   int64  `json:"source_id" yaml:"source_id"`
	Name       string `json:"name" yaml:"name"`
	EntityType string `json:"entity_type" yaml:"entity_type"`
	Path       string `json:"path,omitempty" yaml:"path,omitempty"`
}

type docNode struct {
	ID           int64  `json:"id" yaml:"id"`
	Path         string `json:"path" yaml:"path"`
	ParentID     *int64 `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	RootEntityID int64  `json:"root_entity_id" yaml:"root_entity_id"`
	Name         string `json:"name" yaml:"name"`
	NodeType     string `json:"node_type" yaml:"node_type"`
	Depth        int    `json:"depth" yaml:"depth"`
}

type docEntityType struct {
	ID       int64  `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	MimeType string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
}

type docEntity struct {
	ID           int64  `json:"id" yaml:"id"`
	Path         string `json:"path" yaml:"path"`
	ParentNodeID int64  `json:"parent_node_id" yaml:"parent_node_id"`
	RootEntityID int64  `json:"root_entity_id" yaml:"root_entity_id"`
	Name         string `json:"name" yaml:"name"`
	EntityTypeID *int64 `json:"entity_type_id,omitempty" yaml:"entity_type_id,omitempty"`
	Size         *int64 `json:"size,omitempty" yaml:"size,omitempty"`
	ContentHash  string `json:"content_hash,omitempty" yaml:"content_hash,omitempty"`
	ContentType  string `json:"content_type" yaml:"content_type"`
}

type docMetadata struct {
	OwnerKind string `json:"owner_kind" yaml:"owner_kind"`
	OwnerID   int64  `json:"owner_id" yaml:"owner_id"`
	Key       string `json:"key" yaml:"key"`
	Value     string `json:"value" yaml:"value"`
	DataType  string `json:"data_type" yaml:"data_type"`
}

// fromInventory flattens domain records into the serialized shape.
func fromInventory(inv *domain.Inventory) *document {
	doc := &document{
		Sources:     make([]docSource, 0, len(inv.Sources)),
		Roots:       make([]docRoot, 0, len(inv.Roots)),
		Nodes:       make([]docNode, 0, len(inv.Nodes)),
		EntityTypes: make([]docEntityType, 0, len(inv.EntityTypes)),
		Entities:    make([]docEntity, 0, len(inv.Entities)),
		Metadata:    make([]docMetadata, 0, len(inv.Metadata)),
	}

	for _, src := range inv.Sources {
		doc.Sources = append(doc.Sources, docSource{
			ID:          src.ID,
			Name:        src.Name,
			SourceType:  src.SourceType,
			Description: src.Description,
			UpdatedAt:   src.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	for _, root := range inv.Roots {
		doc.Roots = append(doc.Roots, docRoot{
			ID:         root.ID,
			SourceID:   root.SourceID,
			Name:       root.Name,
			EntityType: root.EntityType,
			Path:       root.Path,
		})
	}
	for _, node := range inv.Nodes {
		doc.Nodes = append(doc.Nodes, docNode{
			ID:           node.ID,
			Path:         node.Path,
			ParentID:     node.ParentID,
			RootEntityID: node.RootEntityID,
			Name:         node.Name,
			NodeType:     node.NodeType,
			Depth:        node.Depth,
		})
	}
	for _, et := range inv.EntityTypes {
		doc.EntityTypes = append(doc.EntityTypes, docEntityType{
			ID:       et.ID,
			Name:     et.Name,
			Category: et.Category,
			MimeType: et.MimeType,
		})
	}
	for _, ent := range inv.Entities {
		doc.Entities = append(doc.Entities, docEntity{
			ID:           ent.ID,
			Path:         ent.Path,
			ParentNodeID: ent.ParentNodeID,
			RootEntityID: ent.RootEntityID,
			Name:         ent.Name,
			EntityTypeID: ent.EntityTypeID,
			Size:         ent.Size,
			ContentHash:  ent.ContentHash,
			ContentType:  ent.ContentType,
		})
	}
	for _, meta := range inv.Metadata {
		doc.Metadata = append(doc.Metadata, docMetadata{
			OwnerKind: string(meta.OwnerKind),
			OwnerID:   meta.OwnerID,
			Key:       meta.Key,
			Value:     meta.Value,
			DataType:  string(meta.DataType),
		})
	}

	return doc
}
