package scheduler

import (
	"sort"
	"strconv"
	"sync"
	"time"

	"conveyor/pkg/api"
	"conveyor/pkg/broker"
	"conveyor/pkg/events"
	"conveyor/pkg/graph"
	"conveyor/pkg/matrix"
	"conveyor/pkg/runner"
	"conveyor/pkg/store"
	"conveyor/pkg/trigger"
	"conveyor/pkg/util/context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// SetupFunc is the function called when a run starts.
type SetupFunc func(ctx context.Context) error

// TearDownFunc is the function called when a run is finished. (Either success or failure)
type TearDownFunc func(ctx context.Context) error

// UnitRunner executes a single unit to a terminal outcome.
type UnitRunner interface {
	Run(ctx context.Context, unit runner.Unit) api.UnitResult
}

// Scheduler drives the execution of a pipeline: it gates on the trigger,
// resolves the job graph into batches, dispatches the units of each batch
// concurrently, propagates skips to dependents of failed jobs, and aggregates
// the outcomes into a PipelineResult.
type Scheduler interface {
	// Execute runs the pipeline for the given event.
	// The returned error is non-nil only for definition errors (cycle,
	// unknown prerequisite, invalid spec), which abort before any dispatch;
	// unit failures are carried inside the result.
	Execute(ctx context.Context, spec api.PipelineSpec, evt api.Event) (api.PipelineResult, error)

	// SetSetupFunc sets the function to be called when a run starts.
	SetSetupFunc(SetupFunc)

	// SetTearDownFunc sets the function to be called when a run is finished.
	SetTearDownFunc(TearDownFunc)
}

// Option is a functional option for the scheduler.
type Option func(*scheduler)

// WithBroker publishes lifecycle events to the given broker and queue.
func WithBroker(b broker.Broker, qname string) Option {
	return func(sc *scheduler) {
		sc.broker = b
		sc.qname = qname
	}
}

// WithTimeout sets a global run timeout. Units still running when it expires
// are cancelled and marked failed with a distinct timed-out reason.
func WithTimeout(d time.Duration) Option {
	return func(sc *scheduler) {
		sc.timeout = d
	}
}

// New returns a new Scheduler backed by the given store and unit runner.
func New(s store.SchedulerStore, r UnitRunner, opts ...Option) Scheduler {
	sc := &scheduler{
		store:  s,
		runner: r,
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

type scheduler struct {
	store        store.SchedulerStore
	runner       UnitRunner
	broker       broker.Broker
	qname        string
	timeout      time.Duration
	setupFunc    SetupFunc
	teardownFunc TearDownFunc
}

func (sc *scheduler) SetSetupFunc(f SetupFunc) {
	sc.setupFunc = f
}

func (sc *scheduler) SetTearDownFunc(f TearDownFunc) {
	sc.teardownFunc = f
}

func (sc *scheduler) Execute(ctx context.Context, spec api.PipelineSpec, evt api.Event) (api.PipelineResult, error) {
	// Trigger gate: a rejected event is not a failure.
	if !trigger.ForPipeline(spec).ShouldRun(evt) {
		ctx.Logger().Infof("pipeline %s not triggered by event %q", spec.Name, evt.Type)
		return api.PipelineResult{Name: spec.Name, Status: api.StatusNotTriggered}, nil
	}

	runID := ctx.RunID()
	if runID == "" {
		runID = uuid.New().String()
	}
	ctx = context.WithRunID(ctx, runID)
	ctx.Logger().Infof("starting pipeline %s", spec.Name)

	// Definition errors are fatal before any job dispatch.
	if err := spec.Validate(); err != nil {
		return definitionError(spec, runID, err), err
	}
	batches, err := graph.Resolve(spec.Jobs)
	if err != nil {
		return definitionError(spec, runID, err), err
	}

	if sc.setupFunc != nil {
		if err := sc.setupFunc(ctx); err != nil {
			return definitionError(spec, runID, err), err
		}
	}

	if err := sc.store.CreateRun(ctx, runID, spec, evt); err != nil {
		return definitionError(spec, runID, err), errors.Wrapf(err, "cannot create run for pipeline %s", spec.Name)
	}
	sc.setRunStatus(ctx, runID, api.StatusRunning, store.TimeOption{StartTime: time.Now()})
	sc.publish(ctx, events.Event{Type: events.TypeRunStarted, RunID: runID, Time: time.Now()})

	if sc.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, sc.timeout)
		defer cancel()
	}

	results := make(map[string]api.JobResult, len(spec.Jobs))
	for _, batch := range batches {
		sc.runBatch(ctx, runID, spec, batch, results)
	}

	result := aggregateRun(spec, runID, results)
	endOpt := store.TimeOption{EndTime: time.Now()}
	sc.setRunStatus(ctx, runID, result.Status, endOpt)
	sc.publish(ctx, events.Event{Type: events.TypeRunFinished, RunID: runID, Status: result.Status, Time: time.Now()})
	ctx.Logger().Infof("pipeline %s finished with status %s", spec.Name, result.Status)

	if sc.teardownFunc != nil {
		if err := sc.teardownFunc(ctx); err != nil {
			ctx.Logger().Error(errors.Wrap(err, "error calling teardown function"))
		}
	}
	return result, nil
}

// runBatch expands and dispatches every runnable job of the batch, waits for
// all dispatched units to reach a terminal outcome, then aggregates job
// results. Later batches never start before this barrier.
func (sc *scheduler) runBatch(ctx context.Context, runID string, spec api.PipelineSpec, batch []string, results map[string]api.JobResult) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	unitResults := make(map[string][]api.UnitResult, len(batch))

	for _, name := range batch {
		job, _ := spec.Job(name)
		jctx := context.WithJobName(ctx, name)

		combos := matrix.Expand(job.Matrix)
		params := make([]map[string]string, len(combos))
		for i, c := range combos {
			params[i] = c
		}
		ids, err := sc.store.CreateUnits(jctx, runID, name, params)
		if err != nil {
			jctx.Logger().Error(errors.Wrapf(err, "cannot create units for job %s", name))
		}

		// A job whose prerequisites did not all succeed is skipped without
		// dispatching any of its units.
		if cause, ok := skipCause(job, results); ok {
			results[name] = sc.skipJob(jctx, runID, job, ids, params, cause)
			continue
		}

		sc.setJobStatus(jctx, runID, name, api.StatusRunning, "", store.TimeOption{StartTime: time.Now()})
		for i, id := range ids {
			unit := runner.Unit{
				RunID:   runID,
				Job:     name,
				ID:      id,
				RunsOn:  job.RunsOn,
				Params:  params[i],
				Steps:   job.Steps,
				Env:     job.Env,
				Secrets: job.Secrets,
			}
			wg.Add(1)
			go func(uctx context.Context, unit runner.Unit) {
				defer wg.Done()
				res := sc.runUnit(uctx, unit)
				mu.Lock()
				unitResults[unit.Job] = append(unitResults[unit.Job], res)
				mu.Unlock()
			}(context.WithUnitID(jctx, id), unit)
		}
	}

	// Join barrier: completion order within the batch is unconstrained, the
	// next batch starts only once every dispatched unit is terminal.
	wg.Wait()

	for _, name := range batch {
		if _, skipped := results[name]; skipped {
			continue
		}
		jr := aggregateJob(name, unitResults[name])
		results[name] = jr
		sc.setJobStatus(ctx, runID, name, jr.Status, jr.Reason, store.TimeOption{EndTime: time.Now()})
		sc.publish(ctx, events.Event{Type: events.TypeJobFinished, RunID: runID, Job: name, Status: jr.Status, Time: time.Now()})
	}
}

func (sc *scheduler) runUnit(ctx context.Context, unit runner.Unit) api.UnitResult {
	now := time.Now()
	if err := sc.store.SetUnitStatus(ctx, unit.RunID, unit.Job, unit.ID, api.StatusRunning, "", store.TimeOption{StartTime: now}); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set unit %s running", unit.Ref()))
	}
	sc.publish(ctx, events.Event{Type: events.TypeUnitStarted, RunID: unit.RunID, Job: unit.Job, UnitID: unit.ID, Status: api.StatusRunning, Time: now})

	res := sc.runner.Run(ctx, unit)

	end := time.Now()
	if err := sc.store.SetUnitStatus(ctx, unit.RunID, unit.Job, unit.ID, res.Status, res.Reason, store.TimeOption{EndTime: end}); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set unit %s status", unit.Ref()))
	}
	sc.publish(ctx, events.Event{Type: events.TypeUnitFinished, RunID: unit.RunID, Job: unit.Job, UnitID: unit.ID, Status: res.Status, Time: end})
	return res
}

// skipJob marks every unit of the job skipped with the given cause; none of
// them ever enters RUNNING.
func (sc *scheduler) skipJob(ctx context.Context, runID string, job api.JobSpec, ids []string, params []map[string]string, cause string) api.JobResult {
	ctx.Logger().Infof("skipping job %s: %s", job.Name, cause)
	jr := api.JobResult{
		Name:   job.Name,
		Status: api.StatusSkipped,
		Reason: cause,
	}
	now := time.Now()
	for i, id := range ids {
		if err := sc.store.SetUnitStatus(ctx, runID, job.Name, id, api.StatusSkipped, cause, store.TimeOption{EndTime: now}); err != nil {
			ctx.Logger().Error(errors.Wrapf(err, "cannot skip unit %s/%s", job.Name, id))
		}
		jr.Units = append(jr.Units, api.UnitResult{ID: id, Params: params[i], Status: api.StatusSkipped, Reason: cause})
	}
	sc.setJobStatus(ctx, runID, job.Name, api.StatusSkipped, cause, store.TimeOption{EndTime: now})
	sc.publish(ctx, events.Event{Type: events.TypeJobFinished, RunID: runID, Job: job.Name, Status: api.StatusSkipped, Time: now})
	return jr
}

func (sc *scheduler) publish(ctx context.Context, evt events.Event) {
	if sc.broker == nil {
		return
	}
	if err := sc.broker.Publish(ctx, evt, sc.qname); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot publish event %s", evt))
	}
}

func (sc *scheduler) setJobStatus(ctx context.Context, runID, job string, status api.Status, reason string, opt store.TimeOption) {
	if err := sc.store.SetJobStatus(ctx, runID, job, status, reason, opt); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set status %s for job %s", status, job))
	}
}

func (sc *scheduler) setRunStatus(ctx context.Context, runID string, status api.Status, opt store.TimeOption) {
	if err := sc.store.SetRunStatus(ctx, runID, status, opt); err != nil {
		ctx.Logger().Error(errors.Wrapf(err, "cannot set status %s for run %s", status, runID))
	}
}

// skipCause reports whether the job must be skipped and why. The needs
// relationship is job-level: one failed unit fails the job and skips all of
// its dependents.
func skipCause(job api.JobSpec, results map[string]api.JobResult) (string, bool) {
	for _, dep := range job.Needs {
		if r, ok := results[dep]; !ok || r.Status != api.StatusSucceeded {
			return api.SkipPrerequisiteFailed, true
		}
	}
	return "", false
}

// aggregateJob computes a job result from its unit outcomes: succeeded only
// if every unit succeeded. A job that expanded to zero units succeeds
// vacuously.
func aggregateJob(name string, units []api.UnitResult) api.JobResult {
	sort.Slice(units, func(i, j int) bool {
		a, _ := strconv.Atoi(units[i].ID)
		b, _ := strconv.Atoi(units[j].ID)
		return a < b
	})
	jr := api.JobResult{
		Name:   name,
		Status: api.StatusSucceeded,
		Units:  units,
	}
	for _, u := range units {
		if u.Status == api.StatusFailed {
			jr.Status = api.StatusFailed
			jr.Reason = u.Reason
			break
		}
	}
	return jr
}

func aggregateRun(spec api.PipelineSpec, runID string, results map[string]api.JobResult) api.PipelineResult {
	result := api.PipelineResult{
		Name:   spec.Name,
		RunID:  runID,
		Status: api.StatusSucceeded,
		Jobs:   results,
	}
	for _, job := range spec.Jobs {
		jr := results[job.Name]
		if jr.Status == api.StatusSucceeded {
			continue
		}
		// A skipped job means some prerequisite failed upstream.
		result.Status = api.StatusFailed
		for _, u := range jr.Units {
			if u.Status == api.StatusFailed {
				result.Failures = append(result.Failures, job.Name+"/"+u.ID)
			}
		}
	}
	return result
}

// definitionError builds the report for a run aborted before any dispatch:
// every job is skipped with cause "never scheduled" and the run failed.
func definitionError(spec api.PipelineSpec, runID string, err error) api.PipelineResult {
	result := api.PipelineResult{
		Name:   spec.Name,
		RunID:  runID,
		Status: api.StatusFailed,
		Jobs:   make(map[string]api.JobResult, len(spec.Jobs)),
		Error:  err.Error(),
	}
	for _, j := range spec.Jobs {
		result.Jobs[j.Name] = api.JobResult{
			Name:   j.Name,
			Status: api.StatusSkipped,
			Reason: api.SkipNeverScheduled,
		}
	}
	return result
}
