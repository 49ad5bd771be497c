package response

import "time"

type Run struct {
	RunID      string    `json:"runId"`
	Mode       string    `json:"mode"`
	Success    bool      `json:"success"`
	NodeCount  int       `json:"nodeCount"`
	EdgeCount  int       `json:"edgeCount"`
	Errors     []string  `json:"errors"`
	DurationMs int64     `json:"durationMs"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}
