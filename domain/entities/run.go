package entities

import "time"

// RunStatus represents the status of an extraction run
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusFailed     RunStatus = "failed"
	RunStatusCancelled  RunStatus = "cancelled"
)

// PageSelection is how many grid pages the operator asked for
type PageSelection struct {
	All   bool `json:"all"`
	Pages int  `json:"pages,omitempty"`
}

// RunSummary describes the outcome of one extraction run
type RunSummary struct {
	Status     RunStatus     `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Records    int           `json:"records"`
	Pages      int           `json:"pages"`
	FirstIndex int           `json:"first_index"`
	LastIndex  int           `json:"last_index"`
	OutputPath string        `json:"output_path,omitempty"`
	JSONPath   string        `json:"json_path,omitempty"`
	Error      string        `json:"error,omitempty"`
}
