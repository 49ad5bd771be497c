package engine

import "strings"

type NodeKind string

const (
	NodeKindText  NodeKind = "text"
	NodeKindImage NodeKind = "image"
	NodeKindVideo NodeKind = "video"
)

// Valid reports whether k is one of the known node kinds.
func (k NodeKind) Valid() bool {
	switch k {
	case NodeKindText, NodeKindImage, NodeKindVideo:
		return true
	}
	return false
}

// Title returns the kind with a leading capital, as used in user facing messages.
func (k NodeKind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// NodeData is the per-node payload. Empty strings mean "not set".
type NodeData struct {
	Text     string `json:"text,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
	FileType string `json:"file_type,omitempty"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Node struct {
	ID   string   `json:"id"`
	Type NodeKind `json:"type"`
	Data NodeData `json:"data"`
	// Position is editor metadata, never read by the engine.
	Position map[string]float64 `json:"position,omitempty"`
}

// resetOutputs clears the result and error of a previous attempt.
func (slf *Node) resetOutputs() {
	slf.Data.Result = ""
	slf.Data.Error = ""
}

type Edge struct {
	ID           string `json:"id"`
	Source       string `json:"source"`
	Target       string `json:"target"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

// Graph is owned by a single request for the duration of one run.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// nodeIndex maps node ids to positions in g.Nodes. When ids repeat the first
// occurrence wins.
func (g *Graph) nodeIndex() map[string]int {
	idx := make(map[string]int, len(g.Nodes))
	for i := range g.Nodes {
		if _, seen := idx[g.Nodes[i].ID]; !seen {
			idx[g.Nodes[i].ID] = i
		}
	}
	return idx
}

// Node returns a pointer to the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// incomingEdges groups edges by target, keeping edge-list order.
func (g *Graph) incomingEdges() map[string][]Edge {
	incoming := make(map[string][]Edge)
	for _, e := range g.Edges {
		incoming[e.Target] = append(incoming[e.Target], e)
	}
	return incoming
}

// adjacency groups edge targets by source, keeping edge-list order. Edges
// touching unknown nodes are skipped.
func (g *Graph) adjacency(idx map[string]int) map[string][]string {
	adj := make(map[string][]string)
	for _, e := range g.Edges {
		if _, ok := idx[e.Source]; !ok {
			continue
		}
		if _, ok := idx[e.Target]; !ok {
			continue
		}
		adj[e.Source] = append(adj[e.Source], e.Target)
	}
	return adj
}
