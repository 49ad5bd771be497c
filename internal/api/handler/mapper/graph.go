package mapper

import (
	"mediaflow/internal/api/handler/request"
	"mediaflow/internal/api/handler/response"
	"mediaflow/internal/api/models"
	"mediaflow/internal/engine"
	"mediaflow/internal/provider"
)

// ToGraph converts a validated request body to the engine's graph.
func ToGraph(req request.Graph) engine.Graph {
	g := engine.Graph{
		Nodes: make([]engine.Node, 0, len(req.Nodes)),
		Edges: make([]engine.Edge, 0, len(req.Edges)),
	}
	for _, n := range req.Nodes {
		g.Nodes = append(g.Nodes, engine.Node{
			ID:   n.ID,
			Type: engine.NodeKind(n.Type),
			Data: engine.NodeData{
				Text:     n.Data.Text,
				FileURL:  n.Data.FileURL,
				FileType: n.Data.FileType,
				Result:   n.Data.Result,
				Error:    n.Data.Error,
			},
			Position: n.Position,
		})
	}
	for _, e := range req.Edges {
		g.Edges = append(g.Edges, engine.Edge{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
		})
	}
	return g
}

func ToKeys(req request.ConfigureProviders) provider.Keys {
	return provider.Keys{OpenAI: req.OpenAIKey, Fal: req.FalKey}
}

func ToRunResponse(r models.RunRecord) response.Run {
	errs := []string(r.Errors)
	if errs == nil {
		errs = []string{}
	}
	return response.Run{
		RunID:      r.RunID,
		Mode:       string(r.Mode),
		Success:    r.Success,
		NodeCount:  r.NodeCount,
		EdgeCount:  r.EdgeCount,
		Errors:     errs,
		DurationMs: r.Duration.Milliseconds(),
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
	}
}

func ToRunResponses(runs []models.RunRecord) []response.Run {
	out := make([]response.Run, 0, len(runs))
	for _, r := range runs {
		out = append(out, ToRunResponse(r))
	}
	return out
}
