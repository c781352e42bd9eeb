package graph

import (
	"testing"

	"conveyor/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveChain(t *testing.T) {
	jobs := []api.JobSpec{
		{Name: "lint"},
		{Name: "coverage", Needs: []string{"build"}},
		{Name: "build", Needs: []string{"lint"}},
	}
	batches, err := Resolve(jobs)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"lint"}, {"build"}, {"coverage"}}, batches)
}

func TestResolveMaximalParallelism(t *testing.T) {
	// Diamond: b and c can run concurrently once a finished.
	jobs := []api.JobSpec{
		{Name: "a"},
		{Name: "b", Needs: []string{"a"}},
		{Name: "c", Needs: []string{"a"}},
		{Name: "d", Needs: []string{"b", "c"}},
	}
	batches, err := Resolve(jobs)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a"}, {"b", "c"}, {"d"}}, batches)
}

func TestResolveAllJobsExactlyOnce(t *testing.T) {
	jobs := []api.JobSpec{
		{Name: "a"},
		{Name: "b"},
		{Name: "c", Needs: []string{"a"}},
		{Name: "d", Needs: []string{"a", "b"}},
		{Name: "e", Needs: []string{"d"}},
	}
	batches, err := Resolve(jobs)
	require.NoError(t, err)

	seen := make(map[string]int)
	position := make(map[string]int)
	for i, batch := range batches {
		for _, name := range batch {
			seen[name]++
			position[name] = i
		}
	}
	assert.Equal(t, len(jobs), len(seen))
	for _, n := range seen {
		assert.Equal(t, 1, n)
	}
	// Every prerequisite sits in a strictly earlier batch.
	for _, j := range jobs {
		for _, dep := range j.Needs {
			assert.Less(t, position[dep], position[j.Name])
		}
	}
}

func TestResolveCycle(t *testing.T) {
	jobs := []api.JobSpec{
		{Name: "a", Needs: []string{"c"}},
		{Name: "b", Needs: []string{"a"}},
		{Name: "c", Needs: []string{"b"}},
	}
	_, err := Resolve(jobs)
	require.Error(t, err)

	var cerr CycleError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, cerr.Jobs, "a")
	assert.Contains(t, err.Error(), "a")
}

func TestResolveCycleWithPrefix(t *testing.T) {
	// An acyclic prefix still resolves before the cycle is reported.
	jobs := []api.JobSpec{
		{Name: "ok"},
		{Name: "x", Needs: []string{"y"}},
		{Name: "y", Needs: []string{"x"}},
	}
	_, err := Resolve(jobs)
	var cerr CycleError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, []string{"x", "y"}, cerr.Jobs)
}

func TestResolveUnknownReference(t *testing.T) {
	jobs := []api.JobSpec{
		{Name: "a", Needs: []string{"ghost"}},
	}
	_, err := Resolve(jobs)
	var uerr UnknownReferenceError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "a", uerr.Job)
	assert.Equal(t, "ghost", uerr.Reference)
}
