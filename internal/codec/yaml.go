package codec

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"netcollector/internal/domain"
)

// YAMLCodec handles YAML export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Export writes the inventory to YAML
func (c *YAMLCodec) Export(inv *domain.Inventory, w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(fromInventory(inv)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
