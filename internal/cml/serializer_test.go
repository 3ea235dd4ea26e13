package cml

import (
	"bytes"
	"testing"

	"eve2cml/internal/domain"
	"eve2cml/internal/logging"
	"eve2cml/internal/mapper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMapper = `
unknown_type: unknown
interface_lists:
  iosv: [Gi0/0, Gi0/1, Gi0/2, Gi0/3]
  iol-xe: [e0/0, e0/1, e0/2, e0/3, e1/0, e1/1, e1/2, e1/3]
  unmanaged_switch: [port0, port1, port2, port3, port4, port5, port6, port7]
  external_connector: [port]
map:
  qemu:vios:
    node_def: iosv
    image_def: iosv-159-3
  qemu:linux:
    node_def: ubuntu
  iol:iol:
    node_def: iol-xe
    override: true
  cml_ums:cml_ums:
    node_def: unmanaged_switch
    override: true
  cml_ext_conn:cml_ext_conn:
    node_def: external_connector
    override: true
`

func newSerializer(t *testing.T) (*NodeSerializer, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := logging.New(&buf, "info", false)
	table, err := mapper.Parse([]byte(testMapper), logger)
	require.NoError(t, err)
	return NewNodeSerializer(table, logger), &buf
}

func TestSerializeGapFilling(t *testing.T) {
	s, buf := newSerializer(t)

	node := domain.NewNode(1, "R1", "qemu", "vios")
	node.Ethernet = 4
	node.AddInterface(2, "Gi0/2", "ethernet", 7)

	out, err := s.Serialize(node, domain.NewObjects())
	require.NoError(t, err)

	require.Len(t, out.Interfaces, 4)
	for i, iface := range out.Interfaces {
		assert.Equal(t, i, iface.Slot)
		assert.Equal(t, InterfaceID(i), iface.ID)
		assert.Equal(t, InterfaceType, iface.Type)
	}
	assert.Equal(t, []string{"Gi0/0", "Gi0/1", "Gi0/2", "Gi0/3"}, labels(out))
	assert.Contains(t, buf.String(), "padding interfaces to ethernet count")
	assert.Len(t, node.Interfaces, 1, "source node is left alone")
}

func TestSerializeUnsortedInterfaces(t *testing.T) {
	s, _ := newSerializer(t)

	node := domain.NewNode(1, "R1", "qemu", "vios")
	node.Ethernet = 2
	node.AddInterface(3, "x3", "ethernet", 0)
	node.AddInterface(1, "x1", "ethernet", 0)

	out, err := s.Serialize(node, domain.NewObjects())
	require.NoError(t, err)

	require.Len(t, out.Interfaces, 4, "declared slots beyond ethernet count are kept")
	assert.Equal(t, 3, out.Interfaces[3].Slot)
}

func TestSerializeIOLSlots(t *testing.T) {
	s, _ := newSerializer(t)

	node := domain.NewNode(2, "SW", "iol", "iol")
	node.Ethernet = 8
	node.AddInterface(0x01, "e1/0", "ethernet", 1)
	node.AddInterface(0x10, "e0/1", "ethernet", 2)

	out, err := s.Serialize(node, domain.NewObjects())
	require.NoError(t, err)

	require.Len(t, out.Interfaces, 8)
	assert.Equal(t, "e0/1", out.Interfaces[1].Label)
	assert.Equal(t, "e1/0", out.Interfaces[4].Label)
}

func TestSerializeDuplicateSlot(t *testing.T) {
	s, _ := newSerializer(t)

	node := domain.NewNode(1, "R1", "qemu", "vios")
	node.AddInterface(1, "a", "ethernet", 0)
	node.AddInterface(1, "b", "ethernet", 0)

	_, err := s.Serialize(node, domain.NewObjects())
	assert.ErrorIs(t, err, ErrDuplicateSlot)
}

func TestSerializeNegativeSlot(t *testing.T) {
	s, _ := newSerializer(t)

	node := domain.NewNode(1, "R1", "qemu", "vios")
	node.AddInterface(-1, "a", "ethernet", 0)
	node.AddInterface(0, "b", "ethernet", 0)

	_, err := s.Serialize(node, domain.NewObjects())
	assert.ErrorIs(t, err, ErrNegativeSlot)
	assert.NotErrorIs(t, err, ErrDuplicateSlot)
}

func TestSerializeSlotOutOfRange(t *testing.T) {
	s, _ := newSerializer(t)

	node := domain.NewNode(1, "R1", "qemu", "vios")
	node.Ethernet = 6

	_, err := s.Serialize(node, domain.NewObjects())
	assert.ErrorIs(t, err, mapper.ErrSlotOutOfRange)
}

func TestSerializeResources(t *testing.T) {
	s, _ := newSerializer(t)

	t.Run("passed through without override", func(t *testing.T) {
		node := domain.NewNode(1, "R1", "qemu", "vios")
		node.CPU = 2
		node.RAM = 1024
		node.CPULimit = 20

		out, err := s.Serialize(node, domain.NewObjects())
		require.NoError(t, err)

		require.NotNil(t, out.CPUs)
		assert.Equal(t, 2, *out.CPUs)
		require.NotNil(t, out.RAM)
		assert.Equal(t, 1024, *out.RAM)
		require.NotNil(t, out.CPULimit)
		assert.Equal(t, 80, *out.CPULimit)
		assert.Equal(t, "iosv", out.NodeDefinition)
		assert.Equal(t, "iosv-159-3", out.ImageDefinition)
	})

	t.Run("absent values are omitted", func(t *testing.T) {
		node := domain.NewNode(1, "L1", "qemu", "linux")

		out, err := s.Serialize(node, domain.NewObjects())
		require.NoError(t, err)

		assert.Nil(t, out.CPUs)
		assert.Nil(t, out.RAM)
		assert.Nil(t, out.CPULimit)
		assert.Empty(t, out.ImageDefinition)
	})

	t.Run("override drops source values", func(t *testing.T) {
		node := domain.NewNode(1, "SW", "iol", "iol")
		node.CPU = 1
		node.RAM = 512
		node.CPULimit = 50

		out, err := s.Serialize(node, domain.NewObjects())
		require.NoError(t, err)

		assert.Nil(t, out.CPUs)
		assert.Nil(t, out.RAM)
		assert.Nil(t, out.CPULimit)
	})
}

func TestSerializeUnknownType(t *testing.T) {
	s, buf := newSerializer(t)

	node := domain.NewNode(1, "box", "docker", "nginx")
	node.CPU = 4
	node.Ethernet = 2
	node.AddInterface(0, "eth0", "ethernet", 1)

	out, err := s.Serialize(node, domain.NewObjects())
	require.NoError(t, err)

	assert.Equal(t, "unknown", out.NodeDefinition)
	assert.Nil(t, out.CPUs, "unknown mapping overrides resources")
	assert.Equal(t, []string{"eth0", "filler"}, labels(out))
	assert.Contains(t, buf.String(), "unmapped node type")
}

func TestSerializeConfiguration(t *testing.T) {
	s, _ := newSerializer(t)
	objects := domain.NewObjects()
	objects.Configs = append(objects.Configs, domain.Config{ID: 1, Data: "hostname R1"})

	t.Run("from lab objects", func(t *testing.T) {
		node := domain.NewNode(1, "R1", "qemu", "vios")
		node.ConfigRef = "1"
		node.Config = "ignored"

		out, err := s.Serialize(node, objects)
		require.NoError(t, err)
		assert.Equal(t, "hostname R1", out.Configuration)
	})

	t.Run("falls back to node payload", func(t *testing.T) {
		node := domain.NewNode(9, "ext", domain.NodeTypeExtConnector, domain.NodeTypeExtConnector)
		node.Config = "nat"

		out, err := s.Serialize(node, objects)
		require.NoError(t, err)
		assert.Equal(t, "nat", out.Configuration)
	})

	t.Run("empty when nothing matches", func(t *testing.T) {
		node := domain.NewNode(5, "R5", "qemu", "vios")

		out, err := s.Serialize(node, objects)
		require.NoError(t, err)
		assert.Equal(t, "", out.Configuration)
	})
}

func TestSerializeConstants(t *testing.T) {
	s, _ := newSerializer(t)

	node := domain.NewNode(7, "R7", "qemu", "vios")
	node.Position = domain.NewPosition(120, -40)

	out, err := s.Serialize(node, domain.NewObjects())
	require.NoError(t, err)

	assert.Equal(t, "n7", out.ID)
	assert.Equal(t, "R7", out.Label)
	assert.Equal(t, 120, out.X)
	assert.Equal(t, -40, out.Y)
	assert.NotNil(t, out.Tags)
	assert.Empty(t, out.Tags)
	assert.Nil(t, out.BootDiskSize)
	assert.Nil(t, out.DataVolume)
	assert.False(t, out.HideLinks)
}

func TestConvertLinks(t *testing.T) {
	links := ConvertLinks([]domain.Link{
		domain.NewLink(0, domain.Endpoint{NodeID: 1, Slot: 0}, domain.Endpoint{NodeID: 2, Slot: 3}, "Net"),
		domain.NewLink(1, domain.Endpoint{NodeID: 5, Slot: 1}, domain.Endpoint{NodeID: 2, Slot: 4}, "Net"),
	})

	require.Len(t, links, 2)
	assert.Equal(t, Link{
		ID: "l0", N1: "n1", I1: "i0", N2: "n2", I2: "i3",
		Label: "Net-0", Conditioning: map[string]any{},
	}, links[0])
	assert.Equal(t, "Net-1", links[1].Label)
}

func TestDuplicateLabels(t *testing.T) {
	nodes := []Node{{Label: "R1"}, {Label: "R2"}, {Label: "R1"}, {Label: "R1"}}
	assert.Equal(t, []string{"R1"}, DuplicateLabels(nodes))
	assert.Empty(t, DuplicateLabels(nodes[:2]))
}

func labels(node Node) []string {
	out := make([]string, 0, len(node.Interfaces))
	for _, iface := range node.Interfaces {
		out = append(out, iface.Label)
	}
	return out
}
