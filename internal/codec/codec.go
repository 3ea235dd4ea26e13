// Package codec reads EVE-NG lab files and writes CML topologies.
package codec

import (
	"fmt"
	"io"

	"eve2cml/internal/cml"
	"eve2cml/internal/domain"
)

// Output formats
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
	FormatText = "text"
)

// Importer reads a lab from a source document. name identifies the source
// in the produced lab metadata.
type Importer interface {
	Parse(r io.Reader, name string) (*domain.Lab, error)
	Format() string
}

// Exporter writes a converted topology
type Exporter interface {
	Export(doc *cml.Document, w io.Writer) error
	Format() string
	Extension() string
}

// ExporterFor returns the exporter of a document format
func ExporterFor(format string) (Exporter, error) {
	switch format {
	case FormatYAML, "":
		return NewYAMLCodec(), nil
	case FormatJSON:
		return NewJSONCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
}
