package cml

import (
	"fmt"

	"eve2cml/internal/domain"
)

// ConvertLink renders a derived link. The label gets the link id appended so
// links of one network stay distinguishable.
func ConvertLink(link domain.Link) Link {
	return Link{
		ID:           LinkID(link.ID),
		N1:           NodeID(link.From.NodeID),
		I1:           InterfaceID(link.From.Slot),
		N2:           NodeID(link.To.NodeID),
		I2:           InterfaceID(link.To.Slot),
		Label:        fmt.Sprintf("%s-%d", link.Label, link.ID),
		Conditioning: map[string]any{},
	}
}

// ConvertLinks renders links in order
func ConvertLinks(links []domain.Link) []Link {
	out := make([]Link, 0, len(links))
	for _, link := range links {
		out = append(out, ConvertLink(link))
	}
	return out
}

// DuplicateLabels returns node labels used more than once, in first-seen
// order. CML refuses to import such labs.
func DuplicateLabels(nodes []Node) []string {
	seen := make(map[string]int, len(nodes))
	var dups []string
	for _, node := range nodes {
		seen[node.Label]++
		if seen[node.Label] == 2 {
			dups = append(dups, node.Label)
		}
	}
	return dups
}
