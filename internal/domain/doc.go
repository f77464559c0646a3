// Package domain defines the core record types for the netcollector
// persistence model.
//
// The model normalizes arbitrary hierarchical, attributed data into six
// relations: data sources, root entities, hierarchy nodes, entity types,
// entities, and metadata entries. A data source owns one or more root
// entities; each root entity anchors a tree of hierarchy nodes; entities
// are the leaves attached under nodes; metadata entries hold typed
// key/value facts about a node or an entity.
//
// # Identity
//
// All record identifiers are store-assigned and stable across idempotent
// re-writes. Each record type declares the natural key the store upserts
// on; see the type comments.
//
// # Design Principles
//
// - Plain structs, no database or external dependencies
// - Optional scalar fields as pointers, optional blobs as nil slices
// - Schema-less payloads (connection info, properties, content) carried
// as raw JSON bytes, since their shape varies per collector domain
package domain
