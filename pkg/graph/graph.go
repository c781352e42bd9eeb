package graph

import (
	"fmt"
	"sort"
	"strings"

	"conveyor/pkg/api"
)

// CycleError is returned when the needs-relationships admit no valid ordering.
// Jobs holds the names trapped on or downstream of a cycle.
type CycleError struct {
	Jobs []string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("dependency cycle involving jobs [%s]", strings.Join(e.Jobs, ", "))
}

// UnknownReferenceError is returned when a job declares a prerequisite that
// does not match any declared job.
type UnknownReferenceError struct {
	Job       string
	Reference string
}

func (e UnknownReferenceError) Error() string {
	return fmt.Sprintf("job %s needs unknown job %s", e.Job, e.Reference)
}

// Resolve computes a topological ordering of the jobs as a sequence of
// batches. Each batch contains every job whose prerequisites are fully
// contained in prior batches, exposing maximal parallelism. Within a batch,
// jobs keep their declaration order.
func Resolve(jobs []api.JobSpec) ([][]string, error) {
	declared := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		declared[j.Name] = true
	}

	// prerequisite count per job, plus the reverse index used to decrement
	// dependents as batches are emitted.
	remaining := make(map[string]int, len(jobs))
	dependents := make(map[string][]string, len(jobs))
	for _, j := range jobs {
		remaining[j.Name] = len(j.Needs)
		for _, dep := range j.Needs {
			if !declared[dep] {
				return nil, UnknownReferenceError{Job: j.Name, Reference: dep}
			}
			dependents[dep] = append(dependents[dep], j.Name)
		}
	}

	var batches [][]string
	emitted := make(map[string]bool, len(jobs))
	for len(emitted) < len(jobs) {
		var batch []string
		for _, j := range jobs {
			if !emitted[j.Name] && remaining[j.Name] == 0 {
				batch = append(batch, j.Name)
			}
		}
		if len(batch) == 0 {
			var stuck []string
			for _, j := range jobs {
				if !emitted[j.Name] {
					stuck = append(stuck, j.Name)
				}
			}
			sort.Strings(stuck)
			return nil, CycleError{Jobs: stuck}
		}
		for _, name := range batch {
			emitted[name] = true
			for _, dep := range dependents[name] {
				remaining[dep]--
			}
		}
		batches = append(batches, batch)
	}
	return batches, nil
}
