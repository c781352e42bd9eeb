package api

// PipelineSpec is the immutable definition of a pipeline: the events it
// triggers on and an ordered set of jobs. It is loaded once, before
// execution, and never mutated during a run.
type PipelineSpec struct {
	Name string    `json:"name"`
	On   []string  `json:"on,omitempty"` // event tags the pipeline triggers on
	Jobs []JobSpec `json:"jobs"`
}

// Job returns the job with the given name.
func (p PipelineSpec) Job(name string) (JobSpec, bool) {
	for _, j := range p.Jobs {
		if j.Name == name {
			return j, true
		}
	}
	return JobSpec{}, false
}

// JobSpec is the definition of a job: its prerequisites, an optional build
// matrix and an ordered sequence of steps.
type JobSpec struct {
	Name    string            `json:"name"`
	Needs   []string          `json:"needs,omitempty"`
	RunsOn  string            `json:"runsOn,omitempty"`
	Matrix  *MatrixSpec       `json:"matrix,omitempty"`
	Steps   []StepSpec        `json:"steps"`
	Env     map[string]string `json:"env,omitempty"`
	Secrets map[string]string `json:"secrets,omitempty"`
}

// MatrixSpec declares the named axes of a job's build matrix plus optional
// explicit combinations included verbatim in addition to the cross-product.
type MatrixSpec struct {
	Axes    map[string][]string `json:"axes,omitempty"`
	Include []map[string]string `json:"include,omitempty"`
}

// StepSpec is a single step of a job: either an external action reference
// (Uses, configured through With) or an inline command (Run).
type StepSpec struct {
	Name string            `json:"name,omitempty"`
	Uses string            `json:"uses,omitempty"`
	With map[string]string `json:"with,omitempty"`
	Run  string            `json:"run,omitempty"`
	Env  map[string]string `json:"env,omitempty"`
}

// Label returns the step name, falling back to the action or command.
func (s StepSpec) Label() string {
	if s.Name != "" {
		return s.Name
	}
	if s.Uses != "" {
		return s.Uses
	}
	return s.Run
}
