package runner

import (
	gocontext "context"

	"conveyor/pkg/api"
	"conveyor/pkg/util/context"

	"github.com/pkg/errors"
)

// Runner executes the ordered steps of a single execution unit, fail-fast:
// the first step whose invocation fails or exits non-zero stops the unit, and
// subsequent steps are never invoked.
type Runner struct {
	invoker Invoker
	actions map[string]Action
	sink    Sink
}

// Option is a functional option for the Runner.
type Option func(*Runner)

// WithInvoker sets the invoker used for inline command steps.
func WithInvoker(iv Invoker) Option {
	return func(r *Runner) {
		r.invoker = iv
	}
}

// WithAction registers an external action under the given reference.
func WithAction(name string, a Action) Option {
	return func(r *Runner) {
		r.actions[name] = a
	}
}

// WithSink sets the observability sink step output is streamed to.
func WithSink(s Sink) Option {
	return func(r *Runner) {
		r.sink = s
	}
}

// New returns a new step runner.
func New(opts ...Option) *Runner {
	r := &Runner{
		invoker: CommandInvoker{},
		actions: make(map[string]Action),
		sink:    LogSink{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the unit's steps strictly in sequence and returns its terminal
// outcome. Steps share the unit context (matrix parameters, environment,
// secrets) but no in-process state; anything else must be persisted by the
// steps themselves.
func (r *Runner) Run(ctx context.Context, unit Unit) api.UnitResult {
	ctx = context.WithRunID(ctx, unit.RunID)
	ctx = context.WithJobName(ctx, unit.Job)
	ctx = context.WithUnitID(ctx, unit.ID)

	res := api.UnitResult{
		ID:     unit.ID,
		Params: unit.Params,
	}
	for _, step := range unit.Steps {
		if err := r.runStep(ctx, step, unit); err != nil {
			res.Status = api.StatusFailed
			res.Reason = err.Error()
			if errors.Is(err, gocontext.DeadlineExceeded) || ctx.Err() == gocontext.DeadlineExceeded {
				res.Reason = api.ReasonTimedOut
			}
			ctx.Logger().Errorf("step %s failed: %s", step.Label(), err)
			return res
		}
	}
	res.Status = api.StatusSucceeded
	return res
}

func (r *Runner) runStep(ctx context.Context, step api.StepSpec, unit Unit) error {
	out := &lineWriter{ctx: ctx, sink: r.sink, step: step.Label()}
	defer out.Flush()

	if step.Uses != "" {
		a, known := r.actions[step.Uses]
		if !known {
			return errors.Errorf("unknown action %s", step.Uses)
		}
		return errors.Wrapf(a.Run(ctx, step.With, unit, out), "action %s", step.Uses)
	}
	return r.invoker.Invoke(ctx, step, unit, out)
}
