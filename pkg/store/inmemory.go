package store

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"conveyor/pkg/api"
	"conveyor/pkg/util/context"
)

type run struct {
	spec       api.PipelineSpec
	event      api.Event
	status     api.Status
	jobs       map[string]*job
	createTime *time.Time
	startTime  *time.Time
	endTime    *time.Time
}

type job struct {
	name      string
	status    api.Status
	reason    string
	units     map[string]*unit
	order     []string
	startTime *time.Time
	endTime   *time.Time
}

type unit struct {
	id        string
	params    map[string]string
	status    api.Status
	reason    string
	startTime *time.Time
	endTime   *time.Time
}

// NewInMemoryStore returns a new in-memory store. Units of a batch report
// their outcomes concurrently, so all access is guarded by a single lock.
func NewInMemoryStore() Store {
	return &inMemory{
		runs: make(map[string]*run),
	}
}

type inMemory struct {
	mu   sync.RWMutex
	runs map[string]*run
}

func (s *inMemory) CreateRun(ctx context.Context, runID string, spec api.PipelineSpec, evt api.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	r := run{
		spec:       spec,
		event:      evt,
		status:     api.StatusPending,
		jobs:       make(map[string]*job, len(spec.Jobs)),
		createTime: &now,
	}
	for _, j := range spec.Jobs {
		r.jobs[j.Name] = &job{
			name:   j.Name,
			status: api.StatusPending,
			units:  make(map[string]*unit),
		}
	}
	s.runs[runID] = &r
	return nil
}

func (s *inMemory) CreateUnits(ctx context.Context, runID, jobName string, params []map[string]string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, err := s.job(runID, jobName)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(params))
	for i, p := range params {
		id := strconv.Itoa(i + 1)
		j.units[id] = &unit{
			id:     id,
			params: p,
			status: api.StatusPending,
		}
		j.order = append(j.order, id)
		ids[i] = id
	}
	return ids, nil
}

func (s *inMemory) SetUnitStatus(ctx context.Context, runID, jobName, unitID string, status api.Status, reason string, opt TimeOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, err := s.job(runID, jobName)
	if err != nil {
		return err
	}
	u, exists := j.units[unitID]
	if !exists {
		return NotFoundError(fmt.Sprintf("unit %s of job %s in run %s", unitID, jobName, runID))
	}
	u.status = status
	u.reason = reason
	applyTimes(&u.startTime, &u.endTime, opt)
	return nil
}

func (s *inMemory) SetJobStatus(ctx context.Context, runID, jobName string, status api.Status, reason string, opt TimeOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, err := s.job(runID, jobName)
	if err != nil {
		return err
	}
	j.status = status
	j.reason = reason
	applyTimes(&j.startTime, &j.endTime, opt)
	return nil
}

func (s *inMemory) SetRunStatus(ctx context.Context, runID string, status api.Status, opt TimeOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, exists := s.runs[runID]
	if !exists {
		return NotFoundError(fmt.Sprintf("run %s", runID))
	}
	r.status = status
	applyTimes(&r.startTime, &r.endTime, opt)
	return nil
}

func (s *inMemory) UnitStatuses(ctx context.Context, runID, jobName string) (map[string]api.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, err := s.job(runID, jobName)
	if err != nil {
		return nil, err
	}
	res := make(map[string]api.Status, len(j.units))
	for id, u := range j.units {
		res[id] = u.status
	}
	return res, nil
}

func (s *inMemory) ListRuns(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make(map[string]string, len(s.runs))
	for id, r := range s.runs {
		res[id] = r.spec.Name
	}
	return res, nil
}

func (s *inMemory) RunState(ctx context.Context, runID string) (api.RunState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, exists := s.runs[runID]
	if !exists {
		return api.RunState{}, NotFoundError(fmt.Sprintf("run %s", runID))
	}
	state := api.RunState{
		Name:       r.spec.Name,
		RunID:      runID,
		Status:     r.status,
		CreateTime: r.createTime,
		StartTime:  r.startTime,
		EndTime:    r.endTime,
	}
	// Jobs are reported in declaration order.
	for _, js := range r.spec.Jobs {
		state.Jobs = append(state.Jobs, jobState(r.jobs[js.Name]))
	}
	return state, nil
}

func (s *inMemory) JobState(ctx context.Context, runID, jobName string) (api.JobState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, err := s.job(runID, jobName)
	if err != nil {
		return api.JobState{}, err
	}
	return jobState(j), nil
}

// job returns the named job; callers hold the lock.
func (s *inMemory) job(runID, jobName string) (*job, error) {
	r, exists := s.runs[runID]
	if !exists {
		return nil, NotFoundError(fmt.Sprintf("run %s", runID))
	}
	j, exists := r.jobs[jobName]
	if !exists {
		return nil, NotFoundError(fmt.Sprintf("job %s in run %s", jobName, runID))
	}
	return j, nil
}

func jobState(j *job) api.JobState {
	state := api.JobState{
		Name:      j.name,
		Status:    j.status,
		Reason:    j.reason,
		StartTime: j.startTime,
		EndTime:   j.endTime,
	}
	for _, id := range j.order {
		u := j.units[id]
		state.Units = append(state.Units, api.UnitState{
			ID:        u.id,
			Params:    u.params,
			Status:    u.status,
			Reason:    u.reason,
			StartTime: u.startTime,
			EndTime:   u.endTime,
		})
	}
	return state
}

func applyTimes(start, end **time.Time, opt TimeOption) {
	if !opt.StartTime.IsZero() {
		t := opt.StartTime
		*start = &t
	}
	if !opt.EndTime.IsZero() {
		t := opt.EndTime
		*end = &t
	}
}
