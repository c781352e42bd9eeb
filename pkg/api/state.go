package api

import (
	"time"
)

// RunState represents the state of a pipeline run.
type RunState struct {
	Name       string     `json:"name"`
	RunID      string     `json:"runId"`
	Status     Status     `json:"status"`
	Jobs       []JobState `json:"jobs,omitempty"`
	CreateTime *time.Time `json:"createTime,omitempty"`
	StartTime  *time.Time `json:"startTime,omitempty"`
	EndTime    *time.Time `json:"endTime,omitempty"`
}

// JobState represents the state of a job within a run.
type JobState struct {
	Name      string      `json:"name"`
	Status    Status      `json:"status"`
	Reason    string      `json:"reason,omitempty"`
	Units     []UnitState `json:"units,omitempty"`
	StartTime *time.Time  `json:"startTime,omitempty"`
	EndTime   *time.Time  `json:"endTime,omitempty"`
}

// UnitState represents the state of a single execution unit.
type UnitState struct {
	ID        string            `json:"id"`
	Params    map[string]string `json:"params,omitempty"`
	Status    Status            `json:"status"`
	Reason    string            `json:"reason,omitempty"`
	StartTime *time.Time        `json:"startTime,omitempty"`
	EndTime   *time.Time        `json:"endTime,omitempty"`
}
