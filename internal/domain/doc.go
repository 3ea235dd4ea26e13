// Package domain defines the source-side entity graph of an EVE-NG lab.
//
// # Core Types
//
// Lab is one parsed .unl document. It owns a Topology (nodes and networks)
// and an Objects collection (configs, config sets, tasks and text objects).
//
// Node is a device with an ordered list of Interfaces. A node's interface
// list may be sparse: not every slot up to its declared bank size has to be
// present.
//
// Network is an address-book entry that interfaces attach to. The source
// format stores no links; they are derived from networks by the topology
// package.
//
// Link is the derived point-to-point connection between two (node, slot)
// endpoints.
//
// # Slots
//
// Every Interface carries a slot, its absolute position in the node's
// interface bank. For most devices the slot equals the raw interface id.
// IOL devices pack bank and port into the nibbles of the id, see SlotOf.
// The slot is computed once, when the interface is created, from the owning
// node's type.
package domain
