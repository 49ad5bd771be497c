package engine

import "fmt"

type EventType string

const (
	EventStart        EventType = "start"
	EventNodeStart    EventType = "node_start"
	EventNodeComplete EventType = "node_complete"
	EventNodeError    EventType = "node_error"
	EventComplete     EventType = "complete"
	EventError        EventType = "error"
)

// Event is one lifecycle record of a streaming run. Only the fields relevant
// to Type are set; pointer fields distinguish a zero value from an absent one.
type Event struct {
	Type           EventType `json:"type"`
	NodeID         string    `json:"node_id,omitempty"`
	NodeType       NodeKind  `json:"node_type,omitempty"`
	Result         string    `json:"result,omitempty"`
	Error          string    `json:"error,omitempty"`
	Progress       *float64  `json:"progress,omitempty"`
	TotalNodes     *int      `json:"total_nodes,omitempty"`
	CompletedNodes *int      `json:"completed_nodes,omitempty"`
	Success        *bool     `json:"success,omitempty"`
	Errors         []string  `json:"errors,omitempty"`
	Message        string    `json:"message,omitempty"`
}

// Terminal reports whether e ends a stream.
func (e Event) Terminal() bool {
	return e.Type == EventComplete || e.Type == EventError
}

func newStartEvent(total int) Event {
	return Event{
		Type:       EventStart,
		TotalNodes: &total,
		Message:    "Starting workflow execution...",
	}
}

func newNodeStartEvent(node *Node, progress float64) Event {
	return Event{
		Type:     EventNodeStart,
		NodeID:   node.ID,
		NodeType: node.Type,
		Progress: &progress,
		Message:  fmt.Sprintf("Executing %s node: %s", node.Type, node.ID),
	}
}

func newNodeCompleteEvent(node *Node, progress float64) Event {
	return Event{
		Type:     EventNodeComplete,
		NodeID:   node.ID,
		NodeType: node.Type,
		Result:   node.Data.Result,
		Progress: &progress,
		Message:  fmt.Sprintf("Completed %s node: %s", node.Type, node.ID),
	}
}

func newNodeErrorEvent(node *Node, err error, progress float64) Event {
	return Event{
		Type:     EventNodeError,
		NodeID:   node.ID,
		NodeType: node.Type,
		Error:    err.Error(),
		Progress: &progress,
		Message:  fmt.Sprintf("Error in %s node: %s", node.Type, node.ID),
	}
}

func newCompleteEvent(total, completed int, errs []string) Event {
	success := len(errs) == 0
	msg := "Workflow execution completed successfully"
	if !success {
		msg = "Workflow execution completed with errors"
	}
	return Event{
		Type:           EventComplete,
		Success:        &success,
		TotalNodes:     &total,
		CompletedNodes: &completed,
		Errors:         errs,
		Message:        msg,
	}
}

func newErrorEvent(errs []string) Event {
	return Event{Type: EventError, Errors: errs}
}

// SummaryEvent describes a finished batch run as a complete event, or as an
// error event when validation rejected the graph.
func SummaryEvent(result ExecutionResult) Event {
	completed := 0
	for _, n := range result.Nodes {
		if n.Data.Result != "" || n.Data.Error != "" {
			completed++
		}
	}
	if !result.Success && completed == 0 && len(result.Errors) > 0 {
		return newErrorEvent(result.Errors)
	}
	return newCompleteEvent(len(result.Nodes), completed, result.Errors)
}
