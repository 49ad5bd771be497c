package engine

import "fmt"

type ErrorScope string

const (
	ScopeEdge  ErrorScope = "edge"
	ScopeNode  ErrorScope = "node"
	ScopeGraph ErrorScope = "graph"
)

// CycleMessage is reported once per graph, whatever the number of cycles.
const CycleMessage = "Graph contains cycles which would prevent execution"

// maxMediaInputs bounds incoming edges for image and video nodes (text + image).
const maxMediaInputs = 2

type ValidationError struct {
	Type    ErrorScope `json:"type"`
	Message string     `json:"message"`
	NodeID  string     `json:"node_id,omitempty"`
	EdgeID  string     `json:"edge_id,omitempty"`
}

// String formats the error the way run results report it.
func (e ValidationError) String() string {
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors"`
}

// Messages returns every error formatted as "<scope>: <message>".
func (r ValidationResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.String())
	}
	return out
}

var allowedTransitions = map[NodeKind]map[NodeKind]bool{
	NodeKindText: {
		NodeKindText:  true,
		NodeKindImage: true,
		NodeKindVideo: true,
	},
	NodeKindImage: {
		NodeKindText:  true,
		NodeKindImage: true,
		NodeKindVideo: true,
	},
}

// CanConnect reports whether an edge from a node of kind from into a node of
// kind to is allowed.
func CanConnect(from, to NodeKind) bool {
	return allowedTransitions[from][to]
}

// Validate checks g and reports every problem found. It has no side effects
// and never stops at the first error: edge, node and cycle findings are
// concatenated in that order.
func Validate(g *Graph) ValidationResult {
	errs := make([]ValidationError, 0)
	errs = append(errs, validateEdges(g)...)
	errs = append(errs, validateNodes(g)...)
	errs = append(errs, validateStructure(g)...)

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateEdges(g *Graph) []ValidationError {
	var errs []ValidationError
	idx := g.nodeIndex()

	for _, e := range g.Edges {
		si, ok := idx[e.Source]
		if !ok {
			errs = append(errs, ValidationError{
				Type:    ScopeEdge,
				Message: fmt.Sprintf("Source node '%s' not found", e.Source),
				EdgeID:  e.ID,
			})
			continue
		}
		ti, ok := idx[e.Target]
		if !ok {
			errs = append(errs, ValidationError{
				Type:    ScopeEdge,
				Message: fmt.Sprintf("Target node '%s' not found", e.Target),
				EdgeID:  e.ID,
			})
			continue
		}

		source, target := g.Nodes[si], g.Nodes[ti]
		if !CanConnect(source.Type, target.Type) {
			errs = append(errs, ValidationError{
				Type:    ScopeEdge,
				Message: fmt.Sprintf("Invalid connection from %s to %s", source.Type, target.Type),
				EdgeID:  e.ID,
			})
		}
	}
	return errs
}

func validateNodes(g *Graph) []ValidationError {
	var errs []ValidationError
	incoming := g.incomingEdges()
	seen := make(map[string]bool, len(g.Nodes))

	for _, n := range g.Nodes {
		if seen[n.ID] {
			errs = append(errs, ValidationError{
				Type:    ScopeNode,
				Message: fmt.Sprintf("Duplicate node id '%s'", n.ID),
				NodeID:  n.ID,
			})
			continue
		}
		seen[n.ID] = true

		if !n.Type.Valid() {
			errs = append(errs, ValidationError{
				Type:    ScopeNode,
				Message: fmt.Sprintf("Unknown node type '%s'", n.Type),
				NodeID:  n.ID,
			})
			continue
		}

		inputs := len(incoming[n.ID])
		if inputs == 0 {
			switch {
			case n.Type == NodeKindText && n.Data.Text == "":
				errs = append(errs, ValidationError{
					Type:    ScopeNode,
					Message: "Text node without inputs must have text data",
					NodeID:  n.ID,
				})
			case n.Type != NodeKindText && n.Data.FileURL == "":
				errs = append(errs, ValidationError{
					Type:    ScopeNode,
					Message: fmt.Sprintf("%s node without inputs must have file data", n.Type.Title()),
					NodeID:  n.ID,
				})
			}
		}

		if n.Type != NodeKindText && inputs > maxMediaInputs {
			errs = append(errs, ValidationError{
				Type:    ScopeNode,
				Message: fmt.Sprintf("%s nodes can have at most %d inputs (text + image)", n.Type.Title(), maxMediaInputs),
				NodeID:  n.ID,
			})
		}
	}
	return errs
}

func validateStructure(g *Graph) []ValidationError {
	if hasCycle(g) {
		return []ValidationError{{Type: ScopeGraph, Message: CycleMessage}}
	}
	return nil
}

const (
	white = iota // unvisited
	grey         // on the current path
	black        // fully explored
)

// hasCycle runs a three-colour DFS from every node in graph order.
func hasCycle(g *Graph) bool {
	idx := g.nodeIndex()
	adj := g.adjacency(idx)
	color := make(map[string]int, len(idx))

	var visit func(id string) bool
	visit = func(id string) bool {
		color[id] = grey
		for _, next := range adj[id] {
			switch color[next] {
			case grey:
				return true
			case white:
				if visit(next) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}

	for _, n := range g.Nodes {
		if color[n.ID] == white && visit(n.ID) {
			return true
		}
	}
	return false
}
