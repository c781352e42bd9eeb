package events

import (
	"fmt"
	"time"

	"conveyor/pkg/api"
)

// EventType type of lifecycle event.
type EventType string

const (
	TypeRunStarted   EventType = "RUN_STARTED"
	TypeUnitStarted  EventType = "UNIT_STARTED"
	TypeUnitFinished EventType = "UNIT_FINISHED"
	TypeJobFinished  EventType = "JOB_FINISHED"
	TypeRunFinished  EventType = "RUN_FINISHED"
)

// Event represents a lifecycle message published to the observability sink.
type Event struct {
	Type   EventType   `json:"type"`
	RunID  string      `json:"runId"`
	Job    string      `json:"job,omitempty"`
	UnitID string      `json:"unitId,omitempty"`
	Status api.Status  `json:"status,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Time   time.Time   `json:"time"`
}

func (e Event) String() string {
	if e.Job == "" {
		return fmt.Sprintf("%s for run %s", e.Type, e.RunID)
	}
	if e.UnitID == "" {
		return fmt.Sprintf("%s for job %s of run %s", e.Type, e.Job, e.RunID)
	}
	return fmt.Sprintf("%s for unit %s of job %s", e.Type, e.UnitID, e.Job)
}
