package domain

// Endpoint is one side of a link
type Endpoint struct {
	NodeID int `json:"node_id"`
	Slot   int `json:"slot"`
}

// Link is derived during reconstruction, never parsed
type Link struct {
	ID    int      `json:"id"`
	From  Endpoint `json:"from"`
	To    Endpoint `json:"to"`
	Label string   `json:"label"`
}

// NewLink creates a link between two endpoints
func NewLink(id int, from, to Endpoint, label string) Link {
	return Link{
		ID:    id,
		From:  from,
		To:    to,
		Label: label,
	}
}

// Involves returns true if the link touches the given node
func (l Link) Involves(nodeID int) bool {
	return l.From.NodeID == nodeID || l.To.NodeID == nodeID
}
