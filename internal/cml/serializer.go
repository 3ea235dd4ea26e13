package cml

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"eve2cml/internal/domain"
	"eve2cml/internal/mapper"
)

// ErrDuplicateSlot means two declared interfaces of one node share a slot
var ErrDuplicateSlot = errors.New("duplicate interface slot")

// ErrNegativeSlot is returned for an interface with a slot below zero
var ErrNegativeSlot = errors.New("negative interface slot")

// fillerName labels padding interfaces before the mapper renames them
const fillerName = "filler"

// percent is the base of the cpu limit conversion
const percent = 100

// NodeSerializer converts source nodes into CML node records
type NodeSerializer struct {
	table  *mapper.Table
	logger *slog.Logger
}

// NewNodeSerializer creates a serializer using table for definitions and
// interface names
func NewNodeSerializer(table *mapper.Table, logger *slog.Logger) *NodeSerializer {
	return &NodeSerializer{
		table:  table,
		logger: logger,
	}
}

// Serialize converts one node. The node itself is not modified.
func (s *NodeSerializer) Serialize(node *domain.Node, objects *domain.Objects) (Node, error) {
	def, _ := s.table.Lookup(node.Type, node.Template, node.Image)

	ifaces, err := s.denseInterfaces(node)
	if err != nil {
		return Node{}, err
	}

	out := Node{
		ID:              NodeID(node.ID),
		Label:           node.Name,
		NodeDefinition:  def.NodeDef,
		ImageDefinition: def.ImageDef,
		X:               node.Position.X,
		Y:               node.Position.Y,
		Configuration:   resolveConfig(node, objects),
		BootDiskSize:    nil,
		DataVolume:      nil,
		HideLinks:       false,
		Tags:            []string{},
		Interfaces:      make([]Interface, 0, len(ifaces)),
	}

	if !def.Override {
		out.CPUs = optional(node.CPU)
		out.RAM = optional(node.RAM)
		if node.CPULimit != 0 {
			out.CPULimit = optional(percent - node.CPULimit)
		}
	}

	for _, iface := range ifaces {
		label, err := s.table.InterfaceLabel(iface.Slot, def.NodeDef, iface.Name)
		if err != nil {
			return Node{}, fmt.Errorf("node %d (%s): %w", node.ID, node.Name, err)
		}
		out.Interfaces = append(out.Interfaces, Interface{
			ID:    InterfaceID(iface.Slot),
			Label: label,
			Slot:  iface.Slot,
			Type:  InterfaceType,
		})
	}

	return out, nil
}

// denseInterfaces returns the node's interfaces ordered by slot, with
// fillers for every missing slot from 0 up to the declared bank size
func (s *NodeSerializer) denseInterfaces(node *domain.Node) ([]*domain.Interface, error) {
	declared := make([]*domain.Interface, len(node.Interfaces))
	copy(declared, node.Interfaces)
	sort.SliceStable(declared, func(i, j int) bool {
		return declared[i].Slot < declared[j].Slot
	})

	dense := make([]*domain.Interface, 0, max(len(declared), node.Ethernet))
	expected := 0
	for _, iface := range declared {
		if iface.Slot < 0 {
			return nil, fmt.Errorf("%w: node %d (%s) slot %d", ErrNegativeSlot, node.ID, node.Name, iface.Slot)
		}
		if iface.Slot < expected {
			return nil, fmt.Errorf("%w: node %d (%s) slot %d", ErrDuplicateSlot, node.ID, node.Name, iface.Slot)
		}
		for ; expected < iface.Slot; expected++ {
			dense = append(dense, filler(node, expected))
		}
		dense = append(dense, iface)
		expected++
	}

	if missing := node.Ethernet - len(dense); missing > 0 {
		s.logger.Info("padding interfaces to ethernet count",
			"node", node.Name, "declared", len(dense), "ethernet", node.Ethernet)
		for ; missing > 0; missing-- {
			dense = append(dense, filler(node, expected))
			expected++
		}
	}

	return dense, nil
}

func filler(node *domain.Node, slot int) *domain.Interface {
	return &domain.Interface{
		ID:     slot,
		Name:   fillerName,
		NodeID: node.ID,
		Slot:   slot,
	}
}

// resolveConfig prefers the lab objects, then a payload attached to the node
func resolveConfig(node *domain.Node, objects *domain.Objects) string {
	if cfg, ok := objects.ResolveConfig(node.ConfigRef, node.ID); ok {
		return cfg
	}
	return node.Config
}

func optional(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
