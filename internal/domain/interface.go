package domain

import "fmt"

// DeviceFamily selects how raw interface ids map to slots
type DeviceFamily string

const (
	FamilyGeneric DeviceFamily = "generic"
	// FamilyIOL numbers interfaces bank-major: the high nibble of the raw id
	// is the bank, the low nibble the position within the bank
	FamilyIOL DeviceFamily = "iol"
)

// iolBankSize is the number of ports per IOL bank
const iolBankSize = 4

// FamilyOf returns the device family for a source node type
func FamilyOf(nodeType string) DeviceFamily {
	if nodeType == string(FamilyIOL) {
		return FamilyIOL
	}
	return FamilyGeneric
}

// SlotOf converts a raw interface id into its absolute slot
func SlotOf(rawID int, family DeviceFamily) int {
	if family == FamilyIOL {
		return (rawID&0xF)*iolBankSize + (rawID >> 4)
	}
	return rawID
}

// Interface is a port declared on a node. Slot is fixed at construction.
type Interface struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	NetworkID int    `json:"network_id"`
	NodeID    int    `json:"node_id"`
	Slot      int    `json:"slot"`
}

// NewInterface creates an interface owned by a node of the given type
func NewInterface(id int, name, ifaceType string, networkID, nodeID int, nodeType string) *Interface {
	return &Interface{
		ID:        id,
		Name:      name,
		Type:      ifaceType,
		NetworkID: networkID,
		NodeID:    nodeID,
		Slot:      SlotOf(id, FamilyOf(nodeType)),
	}
}

// Attached reports whether the interface is wired to a network
func (i *Interface) Attached() bool {
	return i.NetworkID != 0
}

func (i *Interface) String() string {
	return fmt.Sprintf("ID: %d, Name: %s, Type: %s, NetID: %d, Slot: %d", i.ID, i.Name, i.Type, i.NetworkID, i.Slot)
}
