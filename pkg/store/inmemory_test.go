package store

import (
	"testing"
	"time"

	"conveyor/pkg/api"
	"conveyor/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() api.PipelineSpec {
	return api.PipelineSpec{
		Name: "build",
		Jobs: []api.JobSpec{
			{Name: "lint"},
			{Name: "test", Needs: []string{"lint"}},
		},
	}
}

func TestInMemoryRunLifecycle(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateRun(ctx, "r1", testSpec(), api.Event{Type: api.EventPush}))

	ids, err := s.CreateUnits(ctx, "r1", "test", []map[string]string{
		{"os": "ubuntu"},
		{"os": "macos"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, ids)

	start := time.Now()
	require.NoError(t, s.SetUnitStatus(ctx, "r1", "test", "1", api.StatusRunning, "", TimeOption{StartTime: start}))
	require.NoError(t, s.SetUnitStatus(ctx, "r1", "test", "1", api.StatusSucceeded, "", TimeOption{EndTime: start.Add(time.Second)}))
	require.NoError(t, s.SetUnitStatus(ctx, "r1", "test", "2", api.StatusFailed, "exit status 1", TimeOption{}))
	require.NoError(t, s.SetJobStatus(ctx, "r1", "test", api.StatusFailed, "exit status 1", TimeOption{}))
	require.NoError(t, s.SetRunStatus(ctx, "r1", api.StatusFailed, TimeOption{EndTime: time.Now()}))

	statuses, err := s.UnitStatuses(ctx, "r1", "test")
	require.NoError(t, err)
	assert.Equal(t, map[string]api.Status{"1": api.StatusSucceeded, "2": api.StatusFailed}, statuses)

	state, err := s.RunState(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "build", state.Name)
	assert.Equal(t, api.StatusFailed, state.Status)
	require.Equal(t, 2, len(state.Jobs))
	// Declaration order, not update order.
	assert.Equal(t, "lint", state.Jobs[0].Name)
	assert.Equal(t, "test", state.Jobs[1].Name)
	require.Equal(t, 2, len(state.Jobs[1].Units))
	assert.Equal(t, "exit status 1", state.Jobs[1].Units[1].Reason)
	require.NotNil(t, state.Jobs[1].Units[0].StartTime)
	assert.Equal(t, start, *state.Jobs[1].Units[0].StartTime)
}

func TestInMemoryJobState(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateRun(ctx, "r1", testSpec(), api.Event{Type: api.EventPush}))
	_, err := s.CreateUnits(ctx, "r1", "lint", []map[string]string{{}})
	require.NoError(t, err)

	js, err := s.JobState(ctx, "r1", "lint")
	require.NoError(t, err)
	assert.Equal(t, api.StatusPending, js.Status)
	require.Equal(t, 1, len(js.Units))
	assert.Equal(t, api.StatusPending, js.Units[0].Status)
}

func TestInMemoryListRuns(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.CreateRun(ctx, "r1", testSpec(), api.Event{Type: api.EventPush}))
	require.NoError(t, s.CreateRun(ctx, "r2", api.PipelineSpec{Name: "release"}, api.Event{Type: api.EventPush}))

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"r1": "build", "r2": "release"}, runs)
}

func TestInMemoryNotFound(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	_, err := s.RunState(ctx, "ghost")
	require.Error(t, err)
	var nf ErrNotFound
	assert.True(t, errors.As(err, &nf))

	require.NoError(t, s.CreateRun(ctx, "r1", testSpec(), api.Event{Type: api.EventPush}))
	assert.Error(t, s.SetJobStatus(ctx, "r1", "ghost", api.StatusRunning, "", TimeOption{}))
	assert.Error(t, s.SetUnitStatus(ctx, "r1", "lint", "99", api.StatusRunning, "", TimeOption{}))
	assert.Error(t, s.SetRunStatus(ctx, "ghost", api.StatusRunning, TimeOption{}))
}
