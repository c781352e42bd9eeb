package api

// Status is the state of a run, job or execution unit.
type Status string

const (
	// StatusPending default status, the item is created but not dispatched.
	StatusPending Status = "PENDING"

	// StatusRunning status for items currently executing.
	StatusRunning Status = "RUNNING"

	// StatusSucceeded terminal status for items that completed successfully.
	StatusSucceeded Status = "SUCCEEDED"

	// StatusFailed terminal status for items that failed.
	StatusFailed Status = "FAILED"

	// StatusSkipped terminal status for items never dispatched because a
	// prerequisite did not fully succeed or the run aborted before dispatch.
	StatusSkipped Status = "SKIPPED"

	// StatusNotTriggered is the run status when the trigger evaluator
	// rejected the incoming event. It is not a failure.
	StatusNotTriggered Status = "NOT_TRIGGERED"
)

// Skip causes, reported with StatusSkipped.
const (
	SkipPrerequisiteFailed = "prerequisite failed"
	SkipNeverScheduled     = "never scheduled"
)

// ReasonTimedOut tags failures caused by the global run timeout.
const ReasonTimedOut = "timed out"

// Finished returns true if the status is terminal.
func (s Status) Finished() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusSkipped, StatusNotTriggered:
		return true
	}
	return false
}
