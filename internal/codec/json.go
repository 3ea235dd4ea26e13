package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"eve2cml/internal/cml"
)

// JSONCodec handles JSON export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return FormatJSON
}

// Extension returns the output file suffix
func (c *JSONCodec) Extension() string {
	return ".json"
}

// Export writes the topology as indented JSON. Configurations and text keep
// their angle brackets unescaped.
func (c *JSONCodec) Export(doc *cml.Document, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
