package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NetworkKind classifies a source network type tag
type NetworkKind string

const (
	NetworkKindBridge   NetworkKind = "bridge"
	NetworkKindInternal NetworkKind = "internal"
	NetworkKindNAT      NetworkKind = "nat"
	NetworkKindPNet     NetworkKind = "pnet"
	NetworkKindUnknown  NetworkKind = "unknown"
)

// Network is a source network. It is never emitted, it only drives link
// reconstruction.
type Network struct {
	ID       int      `json:"id"`
	Type     string   `json:"type"`
	Name     string   `json:"name"`
	Position Position `json:"position"`
}

// NewNetwork creates a network
func NewNetwork(id int, networkType, name string, pos Position) *Network {
	return &Network{
		ID:       id,
		Type:     networkType,
		Name:     name,
		Position: pos,
	}
}

// Kind classifies the type tag. pnet types carry a numeric bridge index;
// without one the network is unknown.
func (n *Network) Kind() NetworkKind {
	switch {
	case n.Type == string(NetworkKindBridge):
		return NetworkKindBridge
	case strings.HasPrefix(n.Type, string(NetworkKindNAT)):
		return NetworkKindNAT
	case strings.HasPrefix(n.Type, string(NetworkKindPNet)):
		if _, ok := n.BridgeIndex(); ok {
			return NetworkKindPNet
		}
		return NetworkKindUnknown
	case strings.HasPrefix(n.Type, string(NetworkKindInternal)):
		return NetworkKindInternal
	default:
		return NetworkKindUnknown
	}
}

// BridgeIndex returns the numeric index of a pnet type tag
func (n *Network) BridgeIndex() (int, bool) {
	suffix, found := strings.CutPrefix(n.Type, string(NetworkKindPNet))
	if !found || suffix == "" {
		return 0, false
	}
	idx, err := strconv.Atoi(suffix)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

func (n *Network) String() string {
	return fmt.Sprintf("ID: %d, Name: %s, Type: %s", n.ID, n.Name, n.Type)
}
