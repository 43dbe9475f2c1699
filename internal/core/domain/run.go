package domain

import "time"

// RunStatus is the lifecycle state of a logged job run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// TaskRun logs one execution of a scheduled job. A run stuck in running
// past the staleness window is force-failed by housekeeping.
type TaskRun struct {
	ID          string
	Name        string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Message     string
	Processed   int
	Succeeded   int
	Failed      int
	TriggeredBy string
}
