package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

type RunMode string

const (
	RunModeBatch  RunMode = "batch"
	RunModeStream RunMode = "stream"
)

// RunRecord is the summary of one graph execution. Node results are never
// stored.
type RunRecord struct {
	ID         uint          `gorm:"primaryKey" json:"id"`
	RunID      string        `gorm:"type:varchar(36);uniqueIndex;not null" json:"runId"`
	Owner      string        `gorm:"index" json:"owner"`
	Mode       RunMode       `gorm:"type:varchar(10)" json:"mode"`
	Success    bool          `json:"success"`
	NodeCount  int           `json:"nodeCount"`
	EdgeCount  int           `json:"edgeCount"`
	Errors     ErrorList     `gorm:"type:jsonb" json:"errors"`
	Duration   time.Duration `json:"duration"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
}

type ErrorList []string

func (l ErrorList) Value() (driver.Value, error) {
	if l == nil {
		l = ErrorList{}
	}
	return json.Marshal(l)
}

func (l *ErrorList) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan ErrorList: expected []byte")
	}
	return json.Unmarshal(bytes, l)
}
