package trigger

import (
	"conveyor/pkg/api"
)

// Evaluator decides whether an incoming repository event starts a run.
type Evaluator struct {
	events []string
}

// New returns an evaluator accepting the given event tags.
// With no tags, push and pull-request events are accepted.
func New(events ...string) Evaluator {
	if len(events) == 0 {
		events = []string{api.EventPush, api.EventPullRequest}
	}
	return Evaluator{events: events}
}

// ForPipeline returns the evaluator declared by the pipeline's `on` clause.
func ForPipeline(spec api.PipelineSpec) Evaluator {
	return New(spec.On...)
}

// ShouldRun reports whether the event starts the pipeline.
// A malformed event (missing tag) means "do not run", never an error:
// the engine must not crash the invoking system on unrecognized input.
func (e Evaluator) ShouldRun(evt api.Event) bool {
	if evt.Type == "" {
		return false
	}
	for _, t := range e.events {
		if evt.Type == t {
			return true
		}
	}
	return false
}
