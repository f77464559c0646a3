package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"netcollector/internal/domain"
	"netcollector/internal/identity"
	"netcollector/internal/repository"

	_ "modernc.org/sqlite"
)

// Store implements repository.Store using SQLite
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w: %v", repository.ErrStorageUnavailable, err)
	}

	// One shared connection per run. Collection is single-threaded and
	// synchronous, and a pool would hand each in-memory database its own
	// empty copy.
	db.SetMaxOpenConns(1)

	// sql.Open defers the actual connection; force it so an unreachable
	// backend fails here, at run start, rather than on the first upsert.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w: %v", repository.ErrStorageUnavailable, err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS data_sources (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		source_type TEXT NOT NULL,
		description TEXT,
		connection_info JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS root_entities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		entity_type TEXT NOT NULL,
		path TEXT,
		metadata JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (source_id, name),
		FOREIGN KEY (source_id) REFERENCES data_sources(id)
	);

	CREATE TABLE IF NOT EXISTS hierarchy_nodes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		path_hash TEXT NOT NULL,
		parent_id INTEGER,
		root_entity_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		node_type TEXT NOT NULL,
		depth INTEGER NOT NULL,
		properties JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (root_entity_id, path),
		FOREIGN KEY (parent_id) REFERENCES hierarchy_nodes(id),
		FOREIGN KEY (root_entity_id) REFERENCES root_entities(id)
	);

	CREATE TABLE IF NOT EXISTS entity_types (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		mime_type TEXT,
		description TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (name, category)
	);

	CREATE TABLE IF NOT EXISTS entities (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		path_hash TEXT NOT NULL,
		parent_node_id INTEGER NOT NULL,
		root_entity_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		entity_type_id INTEGER,
		size INTEGER,
		content_hash TEXT,
		content_type TEXT NOT NULL,
		content JSON,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (parent_node_id, name),
		FOREIGN KEY (parent_node_id) REFERENCES hierarchy_nodes(id),
		FOREIGN KEY (root_entity_id) REFERENCES root_entities(id),
		FOREIGN KEY (entity_type_id) REFERENCES entity_types(id)
	);

	CREATE TABLE IF NOT EXISTS metadata (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		entity_type TEXT NOT NULL,
		entity_id INTEGER NOT NULL,
		key TEXT NOT NULL,
		value TEXT NOT NULL,
		data_type TEXT NOT NULL DEFAULT 'string',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE (entity_type, entity_id, key)
	);

	CREATE INDEX IF NOT EXISTS idx_hierarchy_nodes_path_hash ON hierarchy_nodes(path_hash);
	CREATE INDEX IF NOT EXISTS idx_hierarchy_nodes_parent ON hierarchy_nodes(parent_id);
	CREATE INDEX IF NOT EXISTS idx_entities_path_hash ON entities(path_hash);
	CREATE INDEX IF NOT EXISTS idx_entities_root ON entities(root_entity_id);
	CREATE INDEX IF NOT EXISTS idx_metadata_owner ON metadata(entity_type, entity_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// UpsertDataSource inserts or updates a data source keyed on name
func (s *Store) UpsertDataSource(ctx context.Context, src *domain.DataSource) (int64, error) {
	if err := src.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO data_sources (name, source_type, description, connection_info)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			source_type = excluded.source_type,
			description = excluded.description,
			connection_info = excluded.connection_info,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, src.Name, src.SourceType, stringToNull(src.Description), src.ConnectionInfo).Scan(&id)

	if err != nil {
		return 0, s.mapError("upsert data source", err)
	}
	return id, nil
}

// UpsertRootEntity inserts or updates a root entity keyed on (source_id, name)
func (s *Store) UpsertRootEntity(ctx context.Context, root *domain.RootEntity) (int64, error) {
	if err := root.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO root_entities (source_id, name, entity_type, path, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(source_id, name) DO UPDATE SET
			entity_type = excluded.entity_type,
			path = excluded.path,
			metadata = excluded.metadata,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, root.SourceID, root.Name, root.EntityType, stringToNull(root.Path), root.Metadata).Scan(&id)

	if err != nil {
		return 0, s.mapError("upsert root entity", err)
	}
	return id, nil
}

// UpsertHierarchyNode inserts or updates a tree node keyed on
// (root_entity_id, path). The path hash is computed here so callers never
// supply it.
func (s *Store) UpsertHierarchyNode(ctx context.Context, node *domain.HierarchyNode) (int64, error) {
	if err := node.Validate(); err != nil {
		return 0, err
	}

	node.PathHash = identity.PathHash(node.Path)

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO hierarchy_nodes (path, path_hash, parent_id, root_entity_id, name, node_type, depth, properties)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(root_entity_id, path) DO UPDATE SET
			path_hash = excluded.path_hash,
			parent_id = excluded.parent_id,
			name = excluded.name,
			node_type = excluded.node_type,
			depth = excluded.depth,
			properties = excluded.properties,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, node.Path, node.PathHash, int64PtrToNull(node.ParentID), node.RootEntityID,
		node.Name, node.NodeType, node.Depth, node.Properties).Scan(&id)

	if err != nil {
		return 0, s.mapError("upsert hierarchy node", err)
	}
	return id, nil
}

// UpsertEntityType inserts or updates an entity type keyed on (name, category)
func (s *Store) UpsertEntityType(ctx context.Context, et *domain.EntityType) (int64, error) {
	if err := et.Validate(); err != nil {
		return 0, err
	}

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO entity_types (name, category, mime_type, description)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name, category) DO UPDATE SET
			mime_type = excluded.mime_type,
			description = excluded.description,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, et.Name, et.Category, stringToNull(et.MimeType), stringToNull(et.Description)).Scan(&id)

	if err != nil {
		return 0, s.mapError("upsert entity type", err)
	}
	return id, nil
}

// UpsertEntity inserts or updates a leaf entity keyed on
// (parent_node_id, name). Path is stored but is deliberately not part of
// the conflict key: two runs that move an entity between parents must
// produce distinct rows, while renames in place must not.
func (s *Store) UpsertEntity(ctx context.Context, ent *domain.Entity) (int64, error) {
	if err := ent.Validate(); err != nil {
		return 0, err
	}

	ent.PathHash = identity.PathHash(ent.Path)

	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO entities (path, path_hash, parent_node_id, root_entity_id, name, entity_type_id, size, content_hash, content_type, content)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(parent_node_id, name) DO UPDATE SET
			path = excluded.path,
			path_hash = excluded.path_hash,
			root_entity_id = excluded.root_entity_id,
			entity_type_id = excluded.entity_type_id,
			size = excluded.size,
			content_hash = excluded.content_hash,
			content_type = excluded.content_type,
			content = excluded.content,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, ent.Path, ent.PathHash, ent.ParentNodeID, ent.RootEntityID, ent.Name,
		int64PtrToNull(ent.EntityTypeID), int64PtrToNull(ent.Size),
		stringToNull(ent.ContentHash), ent.ContentType, ent.Content).Scan(&id)

	if err != nil {
		return 0, s.mapError("upsert entity", err)
	}
	return id, nil
}

// UpsertMetadata inserts or updates a key/value fact keyed on
// (entity_type, entity_id, key). The owner reference is polymorphic, so
// it cannot be a SQL foreign key; ordering is enforced by the builder.
func (s *Store) UpsertMetadata(ctx context.Context, meta *domain.MetadataEntry) error {
	if err := meta.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO metadata (entity_type, entity_id, key, value, data_type)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(entity_type, entity_id, key) DO UPDATE SET
			value = excluded.value,
			data_type = excluded.data_type,
			updated_at = CURRENT_TIMESTAMP
	`, string(meta.OwnerKind), meta.OwnerID, meta.Key, meta.Value, string(meta.DataType))

	if err != nil {
		return s.mapError("upsert metadata", err)
	}
	return nil
}

// DB exposes the underlying handle for direct queries in tests and
// tooling. Collection code writes through the Store methods only.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
