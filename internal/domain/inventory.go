package domain

// Inventory is a point-in-time dump of every stored record, in flat
// relation order. References between slices use record IDs, mirroring
// the storage layout rather than reconstructing the trees.
type Inventory struct {
	Sources     []DataSource
	Roots       []RootEntity
	Nodes       []HierarchyNode
	EntityTypes []EntityType
	Entities    []Entity
	Metadata    []MetadataEntry
}
