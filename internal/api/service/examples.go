package service

import "mediaflow/internal/engine"

const DefaultExample = "image-question"

func pos(x, y float64) map[string]float64 {
	return map[string]float64{"x": x, "y": y}
}

// exampleWorkflows are starter graphs served to the editor.
var exampleWorkflows = map[string]func() engine.Graph{
	"image-question": func() engine.Graph {
		return engine.Graph{
			Nodes: []engine.Node{
				{ID: "text1", Type: engine.NodeKindText, Data: engine.NodeData{Text: "A majestic mountain landscape at sunset"}, Position: pos(100, 100)},
				{ID: "image1", Type: engine.NodeKindImage, Position: pos(400, 100)},
				{ID: "text2", Type: engine.NodeKindText, Data: engine.NodeData{Text: "What can you see in this image?"}, Position: pos(100, 300)},
				{ID: "text3", Type: engine.NodeKindText, Position: pos(700, 200)},
			},
			Edges: []engine.Edge{
				{ID: "e1", Source: "text1", Target: "image1"},
				{ID: "e2", Source: "image1", Target: "text3"},
				{ID: "e3", Source: "text2", Target: "text3"},
			},
		}
	},
	"text-to-video": func() engine.Graph {
		return engine.Graph{
			Nodes: []engine.Node{
				{ID: "text1", Type: engine.NodeKindText, Data: engine.NodeData{Text: "A cute dog running and playing happily in a sunny garden with colorful flowers"}, Position: pos(100, 200)},
				{ID: "video1", Type: engine.NodeKindVideo, Position: pos(500, 200)},
			},
			Edges: []engine.Edge{
				{ID: "e1", Source: "text1", Target: "video1"},
			},
		}
	},
	"text-image-to-video": func() engine.Graph {
		return engine.Graph{
			Nodes: []engine.Node{
				{ID: "text1", Type: engine.NodeKindText, Data: engine.NodeData{Text: "Beautiful mountain landscape at sunset"}, Position: pos(100, 100)},
				{ID: "image1", Type: engine.NodeKindImage, Position: pos(400, 100)},
				{ID: "text2", Type: engine.NodeKindText, Data: engine.NodeData{Text: "The camera slowly pans across this serene landscape as gentle wind moves the grass"}, Position: pos(100, 300)},
				{ID: "video1", Type: engine.NodeKindVideo, Position: pos(700, 200)},
			},
			Edges: []engine.Edge{
				{ID: "e1", Source: "text1", Target: "image1"},
				{ID: "e2", Source: "image1", Target: "video1"},
				{ID: "e3", Source: "text2", Target: "video1"},
			},
		}
	},
	"image-to-video": func() engine.Graph {
		return engine.Graph{
			Nodes: []engine.Node{
				{ID: "text1", Type: engine.NodeKindText, Data: engine.NodeData{Text: "A majestic eagle soaring over snow-capped mountains under a clear grey sky"}, Position: pos(100, 200)},
				{ID: "image1", Type: engine.NodeKindImage, Position: pos(400, 200)},
				{ID: "video1", Type: engine.NodeKindVideo, Position: pos(700, 200)},
			},
			Edges: []engine.Edge{
				{ID: "e1", Source: "text1", Target: "image1"},
				{ID: "e2", Source: "image1", Target: "video1"},
			},
		}
	},
}

// Example returns a fresh copy of the named starter workflow.
func Example(name string) (engine.Graph, bool) {
	build, ok := exampleWorkflows[name]
	if !ok {
		return engine.Graph{}, false
	}
	return build(), true
}
