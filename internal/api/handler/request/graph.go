package request

type NodeData struct {
	Text     string `json:"text,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
	FileType string `json:"file_type,omitempty"`
	Result   string `json:"result,omitempty"`
	Error    string `json:"error,omitempty"`
}

type Node struct {
	ID       string             `json:"id" validate:"required"`
	Type     string             `json:"type" validate:"required,oneof=text image video"`
	Data     NodeData           `json:"data"`
	Position map[string]float64 `json:"position,omitempty"`
}

type Edge struct {
	ID           string `json:"id" validate:"required"`
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle string `json:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty"`
}

type Graph struct {
	Nodes []Node `json:"nodes" validate:"dive"`
	Edges []Edge `json:"edges" validate:"dive"`
}

// ConfigureProviders only overwrites the keys that are set.
type ConfigureProviders struct {
	OpenAIKey string `json:"openai_api_key"`
	FalKey    string `json:"fal_api_key"`
}
