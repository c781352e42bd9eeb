package runner

import (
	"conveyor/pkg/api"
)

// Unit is one concrete execution unit of a job: a single matrix combination
// (or the whole job, for non-matrix jobs) with its resolved parameters and
// the ordered steps to execute.
type Unit struct {
	RunID   string
	Job     string
	ID      string
	RunsOn  string
	Params  map[string]string
	Steps   []api.StepSpec
	Env     map[string]string
	Secrets map[string]string
}

// Ref returns the global identifier of the unit, job-qualified.
func (u Unit) Ref() string {
	return u.Job + "/" + u.ID
}
