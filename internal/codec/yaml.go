package codec

import (
	"fmt"
	"io"
	"strings"

	"eve2cml/internal/cml"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles YAML export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return FormatYAML
}

// Extension returns the output file suffix
func (c *YAMLCodec) Extension() string {
	return ".yaml"
}

// Export writes the topology as YAML. Multi-line strings such as device
// configurations are written as literal blocks with trailing blanks removed
// from every line.
func (c *YAMLCodec) Export(doc *cml.Document, w io.Writer) error {
	var root yaml.Node
	if err := root.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	literalBlocks(&root)

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

func literalBlocks(n *yaml.Node) {
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		lines := strings.Split(strings.TrimSuffix(n.Value, "\n"), "\n")
		for i, line := range lines {
			lines[i] = strings.TrimRight(line, " \t\r")
		}
		n.Value = strings.Join(lines, "\n")
		n.Style = 0
		if len(lines) > 1 {
			n.Style = yaml.LiteralStyle
		}
	}
	for _, child := range n.Content {
		literalBlocks(child)
	}
}
