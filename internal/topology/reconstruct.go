// Package topology rebuilds the CML link list from EVE-NG networks.
//
// EVE-NG stores no links. Interfaces point at networks, and a network with
// two attached interfaces is a cable. Anything else has no direct CML
// equivalent and is represented by synthesizing an unmanaged switch and/or
// an external connector.
package topology

import (
	"fmt"
	"log/slog"

	"eve2cml/internal/domain"
)

const (
	// switchBankSize is the smallest port count of a synthesized switch
	switchBankSize = 8
	// connectorOffset keeps a pnet connector clear of its switch
	connectorOffset = 64

	configNAT    = "nat"
	bridgeConfig = "bridge%d"
)

// Reconstructor derives links for one topology, appending synthetic nodes
// as it goes. A Reconstructor is used for a single run.
type Reconstructor struct {
	topo   *domain.Topology
	logger *slog.Logger

	nextNodeID int
	nextLinkID int
	links      []domain.Link
}

// New creates a reconstructor. Synthetic ids start above every id present
// in topo.
func New(topo *domain.Topology, logger *slog.Logger) *Reconstructor {
	return &Reconstructor{
		topo:       topo,
		logger:     logger,
		nextNodeID: topo.MaxNodeID() + 1,
		links:      make([]domain.Link, 0),
	}
}

// Run processes the networks in order and returns the derived links.
func (r *Reconstructor) Run() []domain.Link {
	for _, network := range r.topo.Networks {
		r.processNetwork(network)
	}
	return r.links
}

func (r *Reconstructor) processNetwork(network *domain.Network) {
	ifaces := r.topo.NetworkInterfaces(network.ID)
	count := len(ifaces)
	log := r.logger.With("network", network.Name, "network_id", network.ID)
	log.Info("processing network", "type", network.Type, "ifaces", count)

	switch network.Kind() {
	case domain.NetworkKindBridge:
		switch {
		case count == 2:
			log.Debug("point-to-point")
			r.addLink(endpointOf(ifaces[0]), endpointOf(ifaces[1]), network.Name)
		case count > 2:
			log.Debug("multi-point, inserting switch")
			r.insertSwitch(network, endpointsOf(ifaces))
		default:
			log.Error("can't deal with bridge", "ifaces", count)
		}

	case domain.NetworkKindNAT:
		if count != 1 {
			log.Error("NAT network needs exactly one interface", "ifaces", count)
			return
		}
		conn := r.insertConnector(network, configNAT, 0)
		r.addLink(endpointOf(ifaces[0]), domain.Endpoint{NodeID: conn.ID, Slot: 0}, network.Name)

	case domain.NetworkKindPNet:
		idx, _ := network.BridgeIndex()
		conn := r.insertConnector(network, fmt.Sprintf(bridgeConfig, idx), connectorOffset)
		parties := append(endpointsOf(ifaces), domain.Endpoint{NodeID: conn.ID, Slot: 0})
		r.insertSwitch(network, parties)

	case domain.NetworkKindInternal:
		log.Warn("ignoring internal network")

	default:
		log.Error("unhandled network type", "type", network.Type, "ifaces", count)
	}
}

// insertSwitch adds an unmanaged switch with one port per party and links
// port i to party i
func (r *Reconstructor) insertSwitch(network *domain.Network, parties []domain.Endpoint) *domain.Node {
	sw := domain.NewNode(r.allocNodeID(), fmt.Sprintf("ums-%s-%s", network.Type, network.Name),
		domain.NodeTypeSwitch, domain.NodeTypeSwitch)
	sw.Position = network.Position
	sw.Ethernet = max(switchBankSize, len(parties))
	for idx := range parties {
		sw.AddInterface(idx, fmt.Sprintf("port%d", idx), "ethernet", network.ID)
	}
	r.topo.AddNode(sw)

	for idx, party := range parties {
		r.addLink(domain.Endpoint{NodeID: sw.ID, Slot: idx}, party, network.Name)
	}
	return sw
}

// insertConnector adds an external connector carrying config, placed offset
// units above the network
func (r *Reconstructor) insertConnector(network *domain.Network, config string, offset int) *domain.Node {
	conn := domain.NewNode(r.allocNodeID(), fmt.Sprintf("ext-%s-%s", network.Type, network.Name),
		domain.NodeTypeExtConnector, domain.NodeTypeExtConnector)
	conn.Position = network.Position.Offset(0, -offset)
	conn.Config = config
	conn.AddInterface(0, "port", domain.NodeTypeExtConnector, network.ID)
	r.topo.AddNode(conn)
	return conn
}

func (r *Reconstructor) addLink(from, to domain.Endpoint, label string) {
	r.links = append(r.links, domain.NewLink(r.nextLinkID, from, to, label))
	r.nextLinkID++
}

func (r *Reconstructor) allocNodeID() int {
	id := r.nextNodeID
	r.nextNodeID++
	return id
}

func endpointOf(iface *domain.Interface) domain.Endpoint {
	return domain.Endpoint{NodeID: iface.NodeID, Slot: iface.Slot}
}

func endpointsOf(ifaces []*domain.Interface) []domain.Endpoint {
	endpoints := make([]domain.Endpoint, 0, len(ifaces)+1)
	for _, iface := range ifaces {
		endpoints = append(endpoints, endpointOf(iface))
	}
	return endpoints
}
