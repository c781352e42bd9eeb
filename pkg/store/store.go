package store

import (
	"time"

	"conveyor/pkg/api"
	"conveyor/pkg/util/context"
)

// TimeOption is used when setting time is necessary.
type TimeOption struct {
	CreateTime time.Time
	StartTime  time.Time
	EndTime    time.Time
}

// Store defines access to the run-state backend.
type Store interface {
	SchedulerStore
	ReadOnlyStore
}

// SchedulerStore defines the write side used by the execution scheduler.
type SchedulerStore interface {
	// CreateRun creates a new run with its spec and triggering event.
	CreateRun(ctx context.Context, runID string, spec api.PipelineSpec, evt api.Event) error

	// CreateUnits creates the execution units of a job, one per parameter
	// set, with status PENDING. It returns the unit identifiers in order.
	CreateUnits(ctx context.Context, runID, job string, params []map[string]string) ([]string, error)

	// SetUnitStatus sets the status of a unit, with an optional reason
	// (skip cause or failure tag).
	SetUnitStatus(ctx context.Context, runID, job, unitID string, status api.Status, reason string, opt TimeOption) error

	// SetJobStatus sets the aggregate status of a job.
	SetJobStatus(ctx context.Context, runID, job string, status api.Status, reason string, opt TimeOption) error

	// SetRunStatus sets the overall run status.
	SetRunStatus(ctx context.Context, runID string, status api.Status, opt TimeOption) error

	// UnitStatuses returns the status of every unit of the given job.
	UnitStatuses(ctx context.Context, runID, job string) (map[string]api.Status, error)
}

// ReadOnlyStore is the read side, used by the controller.
type ReadOnlyStore interface {
	// ListRuns lists the runs as a map with runID as key and pipeline name as value.
	ListRuns(ctx context.Context) (map[string]string, error)

	// RunState returns the full state of a run.
	RunState(ctx context.Context, runID string) (api.RunState, error)

	// JobState returns the state of a single job of a run.
	JobState(ctx context.Context, runID, job string) (api.JobState, error)
}
