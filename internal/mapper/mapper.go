// Package mapper holds the type mapping table that turns EVE-NG device
// type/template/image triples into CML node and image definitions, together
// with the ordered interface names of each CML node definition.
package mapper

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultData []byte

const keySep = ":"

var (
	// ErrInvalidMapper is returned when a mapper dataset can't be decoded or
	// is structurally wrong
	ErrInvalidMapper = errors.New("invalid mapper")
	// ErrSlotOutOfRange means a slot is beyond a definition's interface list
	ErrSlotOutOfRange = errors.New("slot out of range")
)

var validate = validator.New()

// Definition is the CML target for a source device
type Definition struct {
	NodeDef  string `yaml:"node_def" json:"node_def" validate:"required"`
	ImageDef string `yaml:"image_def,omitempty" json:"image_def,omitempty"`
	// Override means the CML definition fixes cpu/ram, source values are
	// dropped
	Override bool `yaml:"override" json:"override"`
}

// Table maps lookup keys to definitions. It is read-only once loaded.
type Table struct {
	UnknownType    string                `yaml:"unknown_type" json:"unknown_type" validate:"required"`
	InterfaceLists map[string][]string   `yaml:"interface_lists" json:"interface_lists" validate:"dive,min=1,dive,required"`
	Map            map[string]Definition `yaml:"map" json:"map" validate:"required,min=1,dive"`

	logger *slog.Logger
}

// Default returns the built-in table
func Default(logger *slog.Logger) (*Table, error) {
	return Parse(defaultData, logger)
}

// Load returns the table from path, or the built-in table when path is
// empty. A missing file falls back to the built-in table; a file that can't
// be used is an error.
func Load(path string, logger *slog.Logger) (*Table, error) {
	if path == "" {
		return Default(logger)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Error("mapper provided but not found, using built-in mapper", "path", path)
		return Default(logger)
	}
	if err != nil {
		return nil, fmt.Errorf("read mapper %s: %w", path, err)
	}

	table, err := Parse(data, logger)
	if err != nil {
		return nil, fmt.Errorf("can't use provided mapper %s: %w", path, err)
	}
	logger.Warn("custom mapper loaded", "path", path)
	return table, nil
}

// Parse decodes a YAML or JSON dataset
func Parse(data []byte, logger *slog.Logger) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("%w: can't decode: %v", ErrInvalidMapper, err)
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	if table.InterfaceLists == nil {
		table.InterfaceLists = make(map[string][]string)
	}
	table.logger = logger
	return &table, nil
}

// Validate checks the dataset structure
func (t *Table) Validate() error {
	if err := validate.Struct(t); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMapper, err)
	}
	for key := range t.Map {
		if len(strings.Split(key, keySep)) < 2 {
			return fmt.Errorf("%w: key %q needs at least type:template", ErrInvalidMapper, key)
		}
	}
	return nil
}

// Lookup resolves a device to its CML definition. The second return value
// is false when nothing matched and the unknown sentinel was returned.
func (t *Table) Lookup(deviceType, template, image string) (Definition, bool) {
	base := deviceType + keySep + template
	key := base
	if image != "" {
		key = base + keySep + image
		if def, ok := t.Map[key]; ok {
			return def, true
		}
	}

	if def, ok := t.longestPrefix(key); ok {
		return def, true
	}

	if def, ok := t.Map[base]; ok {
		return def, true
	}

	t.log().Warn("unmapped node type", "type", deviceType, "template", template, "image", image)
	return t.Unknown(), false
}

// Unknown returns the sentinel definition for unmapped devices
func (t *Table) Unknown() Definition {
	return Definition{NodeDef: t.UnknownType, Override: true}
}

// InterfaceLabel returns the CML name of slot on nodeDef. Definitions
// without an interface list keep the fallback name.
func (t *Table) InterfaceLabel(slot int, nodeDef, fallback string) (string, error) {
	names, ok := t.InterfaceLists[nodeDef]
	if !ok {
		t.log().Warn("no interface mapping", "node_definition", nodeDef, "slot", slot)
		return fallback, nil
	}
	if slot < 0 || slot >= len(names) {
		return "", fmt.Errorf("%w: slot %d of %s (%d interfaces)", ErrSlotOutOfRange, slot, nodeDef, len(names))
	}
	return names[slot], nil
}

// Dump writes the table as YAML
func (t *Table) Dump(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(t); err != nil {
		return fmt.Errorf("failed to encode mapper: %w", err)
	}
	return nil
}

// longestPrefix finds the longest key that prefixes lookup. The key must end
// on a segment boundary, except for type:template:image keys which may
// match image names with arbitrary suffixes.
func (t *Table) longestPrefix(lookup string) (Definition, bool) {
	best := ""
	for key := range t.Map {
		if len(key) <= len(best) || !matchesPrefix(lookup, key) {
			continue
		}
		best = key
	}
	if best == "" {
		return Definition{}, false
	}
	return t.Map[best], true
}

func matchesPrefix(lookup, key string) bool {
	if len(lookup) <= len(key) || !strings.HasPrefix(lookup, key) {
		return false
	}
	if strings.HasPrefix(lookup[len(key):], keySep) {
		return true
	}
	return strings.Count(key, keySep) >= 2
}

func (t *Table) log() *slog.Logger {
	if t.logger == nil {
		return slog.Default()
	}
	return t.logger
}
