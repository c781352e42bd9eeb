package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	valid := PipelineSpec{
		Name: "build",
		Jobs: []JobSpec{
			{Name: "lint", Steps: []StepSpec{{Run: "true"}}},
			{Name: "test", Needs: []string{"lint"}, Steps: []StepSpec{{Uses: "checkout"}}},
		},
	}
	assert.NoError(t, valid.Validate())

	cases := []struct {
		name string
		spec PipelineSpec
	}{
		{"no jobs", PipelineSpec{Name: "empty"}},
		{"empty job name", PipelineSpec{Jobs: []JobSpec{{Name: "", Steps: []StepSpec{{Run: "true"}}}}}},
		{"duplicate job name", PipelineSpec{Jobs: []JobSpec{
			{Name: "a", Steps: []StepSpec{{Run: "true"}}},
			{Name: "a", Steps: []StepSpec{{Run: "true"}}},
		}}},
		{"self dependency", PipelineSpec{Jobs: []JobSpec{{Name: "a", Needs: []string{"a"}, Steps: []StepSpec{{Run: "true"}}}}}},
		{"step with both uses and run", PipelineSpec{Jobs: []JobSpec{{Name: "a", Steps: []StepSpec{{Uses: "checkout", Run: "true"}}}}}},
		{"step with neither uses nor run", PipelineSpec{Jobs: []JobSpec{{Name: "a", Steps: []StepSpec{{Name: "noop"}}}}}},
	}
	for _, c := range cases {
		assert.Error(t, c.spec.Validate(), c.name)
	}
}

func TestStatusFinished(t *testing.T) {
	assert.False(t, StatusPending.Finished())
	assert.False(t, StatusRunning.Finished())
	assert.True(t, StatusSucceeded.Finished())
	assert.True(t, StatusFailed.Finished())
	assert.True(t, StatusSkipped.Finished())
	assert.True(t, StatusNotTriggered.Finished())
}

func TestStepLabel(t *testing.T) {
	assert.Equal(t, "named", StepSpec{Name: "named", Run: "true"}.Label())
	assert.Equal(t, "checkout", StepSpec{Uses: "checkout"}.Label())
	assert.Equal(t, "make all", StepSpec{Run: "make all"}.Label())
}

func TestPipelineJobLookup(t *testing.T) {
	spec := PipelineSpec{Jobs: []JobSpec{{Name: "lint"}, {Name: "test"}}}
	j, ok := spec.Job("test")
	assert.True(t, ok)
	assert.Equal(t, "test", j.Name)
	_, ok = spec.Job("ghost")
	assert.False(t, ok)
}

func TestResultSucceeded(t *testing.T) {
	assert.True(t, PipelineResult{Status: StatusSucceeded}.Succeeded())
	assert.False(t, PipelineResult{Status: StatusFailed}.Succeeded())
	assert.False(t, PipelineResult{Status: StatusNotTriggered}.Succeeded())
}
