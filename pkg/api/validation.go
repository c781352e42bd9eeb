package api

import (
	"github.com/pkg/errors"
)

// Validate validates the pipeline specification.
// Rules are:
// - Job names are unique and non-empty
// - A job cannot depend on itself
// - Each step declares exactly one of `uses` or `run`
// Dangling prerequisite references and dependency cycles are detected by the
// graph resolver before any dispatch.
func (p PipelineSpec) Validate() error {
	if len(p.Jobs) == 0 {
		return errors.New("pipeline has no jobs")
	}
	seen := make(map[string]bool, len(p.Jobs))
	for _, j := range p.Jobs {
		if j.Name == "" {
			return errors.New("job with empty name")
		}
		if seen[j.Name] {
			return errors.Errorf("duplicate job name %s", j.Name)
		}
		seen[j.Name] = true

		for _, dep := range j.Needs {
			if dep == j.Name {
				return errors.Errorf("job %s depends on itself", j.Name)
			}
		}
		for i, s := range j.Steps {
			if (s.Uses == "") == (s.Run == "") {
				return errors.Errorf("job %s step %d must declare exactly one of uses or run", j.Name, i+1)
			}
		}
	}
	return nil
}
