package api

// PipelineResult is the final structured outcome of a run: the overall status
// and the terminal outcome of every job, including skipped ones with their cause.
type PipelineResult struct {
	Name     string               `json:"name"`
	RunID    string               `json:"runId,omitempty"`
	Status   Status               `json:"status"`
	Jobs     map[string]JobResult `json:"jobs,omitempty"`
	Failures []string             `json:"failures,omitempty"` // failing job/unit identifiers
	Error    string               `json:"error,omitempty"`    // definition error, if the run aborted before dispatch
}

// JobResult aggregates the outcomes of all execution units of a job.
// A job succeeded only if every unit succeeded.
type JobResult struct {
	Name   string       `json:"name"`
	Status Status       `json:"status"`
	Reason string       `json:"reason,omitempty"`
	Units  []UnitResult `json:"units,omitempty"`
}

// UnitResult is the terminal outcome of one execution unit.
type UnitResult struct {
	ID     string            `json:"id"`
	Params map[string]string `json:"params,omitempty"`
	Status Status            `json:"status"`
	Reason string            `json:"reason,omitempty"`
}

// Succeeded reports whether the run finished successfully.
func (r PipelineResult) Succeeded() bool {
	return r.Status == StatusSucceeded
}
