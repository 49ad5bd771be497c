package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidGraph(t *testing.T) {
	g := &Graph{
		Nodes: []Node{textNode("t1", "a sunset"), {ID: "i1", Type: NodeKindImage}},
		Edges: []Edge{edge("t1", "i1")},
	}

	result := Validate(g)
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}

func TestValidate_EmptyGraph(t *testing.T) {
	result := Validate(&Graph{})
	assert.True(t, result.Valid)
	assert.NotNil(t, result.Errors)
}

func TestValidate_EdgeErrors(t *testing.T) {
	tests := []struct {
		name    string
		graph   Graph
		message string
	}{
		{
			name:    "missing source",
			graph:   Graph{Nodes: []Node{imageNode("i1", "a.png")}, Edges: []Edge{edge("ghost", "i1")}},
			message: "Source node 'ghost' not found",
		},
		{
			name:    "missing target",
			graph:   Graph{Nodes: []Node{textNode("t1", "x")}, Edges: []Edge{edge("t1", "ghost")}},
			message: "Target node 'ghost' not found",
		},
		{
			name: "video has no outgoing transitions",
			graph: Graph{
				Nodes: []Node{videoNode("v1", "a.mp4"), textNode("t1", "x")},
				Edges: []Edge{edge("v1", "t1")},
			},
			message: "Invalid connection from video to text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(&tt.graph)
			require.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)
			assert.Equal(t, ScopeEdge, result.Errors[0].Type)
			assert.Equal(t, tt.message, result.Errors[0].Message)
			assert.Equal(t, tt.graph.Edges[0].ID, result.Errors[0].EdgeID)
		})
	}
}

func TestValidate_MissingSourceSkipsCompatibilityCheck(t *testing.T) {
	g := &Graph{
		Nodes: []Node{textNode("t1", "x")},
		Edges: []Edge{edge("ghost", "nowhere")},
	}

	result := Validate(g)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Source node 'ghost' not found", result.Errors[0].Message)
}

func TestCanConnect(t *testing.T) {
	kinds := []NodeKind{NodeKindText, NodeKindImage, NodeKindVideo}
	for _, from := range kinds {
		for _, to := range kinds {
			want := from != NodeKindVideo
			assert.Equal(t, want, CanConnect(from, to), "%s -> %s", from, to)
		}
	}
}

func TestValidate_NodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		graph   Graph
		message string
	}{
		{
			name:    "text source without text",
			graph:   Graph{Nodes: []Node{{ID: "t1", Type: NodeKindText}}},
			message: "Text node without inputs must have text data",
		},
		{
			name:    "image source without file",
			graph:   Graph{Nodes: []Node{{ID: "i1", Type: NodeKindImage}}},
			message: "Image node without inputs must have file data",
		},
		{
			name:    "video source without file",
			graph:   Graph{Nodes: []Node{{ID: "v1", Type: NodeKindVideo}}},
			message: "Video node without inputs must have file data",
		},
		{
			name:    "unknown type",
			graph:   Graph{Nodes: []Node{{ID: "a1", Type: "audio"}}},
			message: "Unknown node type 'audio'",
		},
		{
			name:    "duplicate id",
			graph:   Graph{Nodes: []Node{textNode("t1", "x"), textNode("t1", "y")}},
			message: "Duplicate node id 't1'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(&tt.graph)
			require.False(t, result.Valid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, ScopeNode, result.Errors[0].Type)
			assert.Equal(t, tt.message, result.Errors[0].Message)
			assert.NotEmpty(t, result.Errors[0].NodeID)
		})
	}
}

func TestValidate_ImageArity(t *testing.T) {
	t.Run("three inputs fail", func(t *testing.T) {
		g := &Graph{
			Nodes: []Node{
				textNode("t1", "a"), textNode("t2", "b"), textNode("t3", "c"),
				{ID: "i1", Type: NodeKindImage},
			},
			Edges: []Edge{edge("t1", "i1"), edge("t2", "i1"), edge("t3", "i1")},
		}

		result := Validate(g)
		require.False(t, result.Valid)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "Image nodes can have at most 2 inputs (text + image)", result.Errors[0].Message)
		assert.Equal(t, "i1", result.Errors[0].NodeID)
	})

	t.Run("two inputs pass", func(t *testing.T) {
		g := &Graph{
			Nodes: []Node{textNode("t1", "a"), imageNode("i0", "cat.png"), {ID: "i1", Type: NodeKindImage}},
			Edges: []Edge{edge("t1", "i1"), edge("i0", "i1")},
		}

		assert.True(t, Validate(g).Valid)
	})

	t.Run("text nodes are unbounded", func(t *testing.T) {
		g := &Graph{
			Nodes: []Node{
				textNode("t1", "a"), textNode("t2", "b"), textNode("t3", "c"),
				{ID: "t4", Type: NodeKindText},
			},
			Edges: []Edge{edge("t1", "t4"), edge("t2", "t4"), edge("t3", "t4")},
		}

		assert.True(t, Validate(g).Valid)
	})
}

func TestValidate_Cycle(t *testing.T) {
	g := &Graph{
		Nodes: []Node{textNode("a", "x"), textNode("b", "y"), textNode("c", "z")},
		Edges: []Edge{edge("a", "b"), edge("b", "c"), edge("c", "a"), edge("b", "a")},
	}

	result := Validate(g)
	require.False(t, result.Valid)

	var graphErrors []ValidationError
	for _, e := range result.Errors {
		if e.Type == ScopeGraph {
			graphErrors = append(graphErrors, e)
		}
	}
	require.Len(t, graphErrors, 1, "a cyclic graph reports exactly one graph error")
	assert.Equal(t, CycleMessage, graphErrors[0].Message)
}

func TestValidate_SelfLoop(t *testing.T) {
	g := &Graph{
		Nodes: []Node{textNode("a", "x")},
		Edges: []Edge{edge("a", "a")},
	}

	result := Validate(g)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, ScopeGraph, result.Errors[0].Type)
}

func TestValidate_ErrorOrder(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "t1", Type: NodeKindText}, videoNode("v1", "a.mp4")},
		Edges: []Edge{edge("v1", "v1")},
	}

	result := Validate(g)
	require.Len(t, result.Errors, 3)
	assert.Equal(t, ScopeEdge, result.Errors[0].Type)
	assert.Equal(t, ScopeNode, result.Errors[1].Type)
	assert.Equal(t, ScopeGraph, result.Errors[2].Type)
	assert.Equal(t, []string{
		"edge: Invalid connection from video to video",
		"node: Text node without inputs must have text data",
		"graph: " + CycleMessage,
	}, result.Messages())
}

func TestValidate_Idempotent(t *testing.T) {
	g := &Graph{
		Nodes: []Node{{ID: "t1", Type: NodeKindText}, textNode("t2", "x")},
		Edges: []Edge{edge("t2", "ghost"), edge("t2", "t2")},
	}

	first := Validate(g)
	second := Validate(g)
	assert.Equal(t, first, second)
}
