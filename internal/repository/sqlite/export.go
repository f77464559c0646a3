package sqlite

import (
	"context"
	"database/sql"

	"netcollector/internal/domain"
)

// LoadInventory reads every record back out for export. Rows come out
// in id order so repeated exports of an unchanged database are
// byte-identical.
func (s *Store) LoadInventory(ctx context.Context) (*domain.Inventory, error) {
	inv := &domain.Inventory{}

	if err := s.loadSources(ctx, inv); err != nil {
		return nil, s.mapError("load data sources", err)
	}
	if err := s.loadRoots(ctx, inv); err != nil {
		return nil, s.mapError("load root entities", err)
	}
	if err := s.loadNodes(ctx, inv); err != nil {
		return nil, s.mapError("load hierarchy nodes", err)
	}
	if err := s.loadEntityTypes(ctx, inv); err != nil {
		return nil, s.mapError("load entity types", err)
	}
	if err := s.loadEntities(ctx, inv); err != nil {
		return nil, s.mapError("load entities", err)
	}
	if err := s.loadMetadata(ctx, inv); err != nil {
		return nil, s.mapError("load metadata", err)
	}

	return inv, nil
}

func (s *Store) loadSources(ctx context.Context, inv *domain.Inventory) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, source_type, description, connection_info, created_at, updated_at
		FROM data_sources ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var src domain.DataSource
		var desc sql.NullString
		if err := rows.Scan(&src.ID, &src.Name, &src.SourceType, &desc,
			&src.ConnectionInfo, &src.CreatedAt, &src.UpdatedAt); err != nil {
			return err
		}
		src.Description = nullToString(desc)
		inv.Sources = append(inv.Sources, src)
	}
	return rows.Err()
}

func (s *Store) loadRoots(ctx context.Context, inv *domain.Inventory) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source_id, name, entity_type, path, metadata, created_at, updated_at
		FROM root_entities ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var root domain.RootEntity
		var path sql.NullString
		if err := rows.Scan(&root.ID, &root.SourceID, &root.Name, &root.EntityType,
			&path, &root.Metadata, &root.CreatedAt, &root.UpdatedAt); err != nil {
			return err
		}
		root.Path = nullToString(path)
		inv.Roots = append(inv.Roots, root)
	}
	return rows.Err()
}

func (s *Store) loadNodes(ctx context.Context, inv *domain.Inventory) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, path_hash, parent_id, root_entity_id, name, node_type, depth, properties, created_at, updated_at
		FROM hierarchy_nodes ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var node domain.HierarchyNode
		var parent sql.NullInt64
		if err := rows.Scan(&node.ID, &node.Path, &node.PathHash, &parent,
			&node.RootEntityID, &node.Name, &node.NodeType, &node.Depth,
			&node.Properties, &node.CreatedAt, &node.UpdatedAt); err != nil {
			return err
		}
		node.ParentID = nullToInt64Ptr(parent)
		inv.Nodes = append(inv.Nodes, node)
	}
	return rows.Err()
}

func (s *Store) loadEntityTypes(ctx context.Context, inv *domain.Inventory) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, category, mime_type, description, created_at, updated_at
		FROM entity_types ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var et domain.EntityType
		var mime, desc sql.NullString
		if err := rows.Scan(&et.ID, &et.Name, &et.Category, &mime, &desc,
			&et.CreatedAt, &et.UpdatedAt); err != nil {
			return err
		}
		et.MimeType = nullToString(mime)
		et.Description = nullToString(desc)
		inv.EntityTypes = append(inv.EntityTypes, et)
	}
	return rows.Err()
}

func (s *Store) loadEntities(ctx context.Context, inv *domain.Inventory) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, path, path_hash, parent_node_id, root_entity_id, name, entity_type_id, size, content_hash, content_type, content, created_at, updated_at
		FROM entities ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var ent domain.Entity
		var typeID, size sql.NullInt64
		var hash sql.NullString
		if err := rows.Scan(&ent.ID, &ent.Path, &ent.PathHash, &ent.ParentNodeID,
			&ent.RootEntityID, &ent.Name, &typeID, &size, &hash,
			&ent.ContentType, &ent.Content, &ent.CreatedAt, &ent.UpdatedAt); err != nil {
			return err
		}
		ent.EntityTypeID = nullToInt64Ptr(typeID)
		ent.Size = nullToInt64Ptr(size)
		ent.ContentHash = nullToString(hash)
		inv.Entities = append(inv.Entities, ent)
	}
	return rows.Err()
}

func (s *Store) loadMetadata(ctx context.Context, inv *domain.Inventory) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT entity_type, entity_id, key, value, data_type
		FROM metadata ORDER BY id
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var meta domain.MetadataEntry
		var kind, dataType string
		if err := rows.Scan(&kind, &meta.OwnerID, &meta.Key, &meta.Value, &dataType); err != nil {
			return err
		}
		meta.OwnerKind = domain.OwnerKind(kind)
		meta.DataType = domain.DataType(dataType)
		inv.Metadata = append(inv.Metadata, meta)
	}
	return rows.Err()
}
