package domain

import "fmt"

// Synthetic node types created during link reconstruction
const (
	NodeTypeSwitch       = "cml_ums"
	NodeTypeExtConnector = "cml_ext_conn"
	defaultNodeEthernet  = 1
)

// Node is a device declared in the source lab, or synthesized while
// reconstructing links
type Node struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Template string `json:"template"`
	Image    string `json:"image"`
	Console  string `json:"console,omitempty"`
	Icon     string `json:"icon,omitempty"`
	UUID     string `json:"uuid,omitempty"`

	// Resource hints, zero means absent
	CPU      int `json:"cpu,omitempty"`
	CPULimit int `json:"cpu_limit,omitempty"`
	RAM      int `json:"ram,omitempty"`

	// Ethernet is the declared interface bank size
	Ethernet int `json:"ethernet"`

	// ConfigRef selects the startup configuration source
	ConfigRef string `json:"config_ref,omitempty"`
	// Config is a payload attached directly to the node, used when nothing
	// in the lab objects matches
	Config string `json:"config,omitempty"`

	Position   Position     `json:"position"`
	Interfaces []*Interface `json:"interfaces"`
}

// NewNode creates a node with initialized interfaces
func NewNode(id int, name, nodeType, template string) *Node {
	return &Node{
		ID:         id,
		Name:       name,
		Type:       nodeType,
		Template:   template,
		Ethernet:   defaultNodeEthernet,
		Interfaces: make([]*Interface, 0),
	}
}

// Family returns the device family used for slot numbering
func (n *Node) Family() DeviceFamily {
	return FamilyOf(n.Type)
}

// AddInterface creates an interface on this node, deriving its slot from
// the node type
func (n *Node) AddInterface(id int, name, ifaceType string, networkID int) *Interface {
	iface := NewInterface(id, name, ifaceType, networkID, n.ID, n.Type)
	n.Interfaces = append(n.Interfaces, iface)
	return iface
}

// Synthetic reports whether the node was created during reconstruction
func (n *Node) Synthetic() bool {
	return n.Type == NodeTypeSwitch || n.Type == NodeTypeExtConnector
}

func (n *Node) String() string {
	return fmt.Sprintf("ID: %d, Name: %s, Type: %s, X: %d, Y: %d, Template: %s, Image: %s, Ethernet: %d",
		n.ID, n.Name, n.Type, n.Position.X, n.Position.Y, n.Template, n.Image, n.Ethernet)
}
