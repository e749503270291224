package model

// CartographyEntity is one node of the ownership/directorship graph.
type CartographyEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Siren string `json:"siren,omitempty"`
}

// CartographyEdge links two entities by their node IDs.
type CartographyEdge struct {
	SourceID string `json:"source_id"`
	TargetID string `json:"target_id"`
}

// CartographySnapshot is the ownership graph fetched for one SIREN.
// It is attached to an Account after the account is created, since the
// account ID is the join key.
type CartographySnapshot struct {
	CentralNode CartographyEntity   `json:"central_node"`
	Nodes       []CartographyEntity `json:"nodes"`
	Edges       []CartographyEdge   `json:"edges"`
}

// ValidEdges returns the edges whose endpoints both exist in the snapshot
// (the central node included). The registry occasionally references nodes
// it does not return.
func (s *CartographySnapshot) ValidEdges() []CartographyEdge {
	known := make(map[string]struct{}, len(s.Nodes)+1)
	known[s.CentralNode.ID] = struct{}{}
	for _, n := range s.Nodes {
		known[n.ID] = struct{}{}
	}

	out := make([]CartographyEdge, 0, len(s.Edges))
	for _, e := range s.Edges {
		if _, ok := known[e.SourceID]; !ok {
			continue
		}
		if _, ok := known[e.TargetID]; !ok {
			continue
		}
		out = append(out, e)
	}
	return out
}
