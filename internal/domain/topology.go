package domain

// Topology holds the nodes and networks of a lab
type Topology struct {
	Nodes    []*Node    `json:"nodes"`
	Networks []*Network `json:"networks"`
}

// NewTopology creates an empty topology with initialized collections
func NewTopology() *Topology {
	return &Topology{
		Nodes:    make([]*Node, 0),
		Networks: make([]*Network, 0),
	}
}

// AddNode appends a node
func (t *Topology) AddNode(node *Node) {
	t.Nodes = append(t.Nodes, node)
}

// AddNetwork appends a network
func (t *Topology) AddNetwork(network *Network) {
	t.Networks = append(t.Networks, network)
}

// GetNode returns a node by ID, or nil if not found
func (t *Topology) GetNode(id int) *Node {
	for _, node := range t.Nodes {
		if node.ID == id {
			return node
		}
	}
	return nil
}

// MaxNodeID returns the highest node id, or 0 for an empty topology
func (t *Topology) MaxNodeID() int {
	maxID := 0
	for _, node := range t.Nodes {
		if node.ID > maxID {
			maxID = node.ID
		}
	}
	return maxID
}

// NetworkInterfaces returns the interfaces attached to a network in
// discovery order: node order, then interface order within the node.
// Unattached interfaces never belong to any network, not even one with id 0.
func (t *Topology) NetworkInterfaces(networkID int) []*Interface {
	var result []*Interface
	for _, node := range t.Nodes {
		for _, iface := range node.Interfaces {
			if iface.Attached() && iface.NetworkID == networkID {
				result = append(result, iface)
			}
		}
	}
	return result
}

// Clone returns a topology with its own node and network slices. Nodes and
// networks themselves are shared, so appending synthetic nodes to the clone
// leaves the original untouched.
func (t *Topology) Clone() *Topology {
	clone := &Topology{
		Nodes:    make([]*Node, len(t.Nodes)),
		Networks: make([]*Network, len(t.Networks)),
	}
	copy(clone.Nodes, t.Nodes)
	copy(clone.Networks, t.Networks)
	return clone
}
