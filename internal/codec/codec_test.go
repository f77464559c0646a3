package codec

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"netcollector/internal/domain"
)

func sampleInventory() *domain.Inventory {
	parentID := int64(1)
	typeID := int64(1)
	size := int64(412)
	return &domain.Inventory{
		Sources: []domain.DataSource{{
			ID: 1, Name: "ssh-keys", SourceType: "security",
			UpdatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		}},
		Roots: []domain.RootEntity{{
			ID: 1, SourceID: 1, Name: "ssh_root", EntityType: "security", Path: "ssh_root",
		}},
		Nodes: []domain.HierarchyNode{
			{ID: 1, Path: "ssh_root/a", RootEntityID: 1, Name: "a", NodeType: "key_directory", Depth: 1},
			{ID: 2, Path: "ssh_root/a/b", ParentID: &parentID, RootEntityID: 1, Name: "b", NodeType: "key_directory", Depth: 2},
		},
		EntityTypes: []domain.EntityType{{ID: 1, Name: "ssh_public_key", Category: "security"}},
		Entities: []domain.Entity{{
			ID: 1, Path: "ssh_root/a/id.pub", ParentNodeID: 1, RootEntityID: 1,
			Name: "id.pub", EntityTypeID: &typeID, Size: &size, ContentType: "ssh_public_key",
		}},
		Metadata: []domain.MetadataEntry{{
			OwnerKind: domain.OwnerEntity, OwnerID: 1,
			Key: "key_type", Value: "ssh-ed25519", DataType: domain.DataTypeString,
		}},
	}
}

func TestForFormat(t *testing.T) {
	jsonCodec, err := ForFormat("json")
	require.NoError(t, err)
	assert.Equal(t, "json", jsonCodec.Format())

	yamlCodec, err := ForFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, "yaml", yamlCodec.Format())

	_, err = ForFormat("xml")
	assert.Error(t, err)
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(sampleInventory(), &buf))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	sources, ok := doc["sources"].([]any)
	require.True(t, ok)
	require.Len(t, sources, 1)
	src := sources[0].(map[string]any)
	assert.Equal(t, "ssh-keys", src["name"])
	assert.Equal(t, "2026-08-01T12:00:00Z", src["updated_at"])

	nodes := doc["nodes"].([]any)
	require.Len(t, nodes, 2)
	assert.NotContains(t, nodes[0].(map[string]any), "parent_id")
	assert.Equal(t, float64(1), nodes[1].(map[string]any)["parent_id"])

	meta := doc["metadata"].([]any)[0].(map[string]any)
	assert.Equal(t, "entity", meta["owner_kind"])
	assert.Equal(t, "ssh-ed25519", meta["value"])
}

func TestYAMLExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLCodec().Export(sampleInventory(), &buf))

	var doc struct {
		Entities []struct {
			Name string `yaml:"name"`
			Size int64  `yaml:"size"`
		} `yaml:"entities"`
		EntityTypes []struct {
			Name string `yaml:"name"`
		} `yaml:"entity_types"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Entities, 1)
	assert.Equal(t, "id.pub", doc.Entities[0].Name)
	assert.Equal(t, int64(412), doc.Entities[0].Size)
	require.Len(t, doc.EntityTypes, 1)
	assert.Equal(t, "ssh_public_key", doc.EntityTypes[0].Name)
}

func TestExportDeterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(sampleInventory(), &a))
	require.NoError(t, NewJSONCodec().Export(sampleInventory(), &b))
	assert.Equal(t, a.String(), b.String())
}
