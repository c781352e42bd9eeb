package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"conveyor/pkg/api"
	"conveyor/pkg/util/context"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	var got api.PipelineResult
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("content-type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	result := api.PipelineResult{
		Name:   "build",
		RunID:  "r1",
		Status: api.StatusFailed,
		Jobs: map[string]api.JobResult{
			"lint": {Name: "lint", Status: api.StatusFailed},
		},
		Failures: []string{"lint/1"},
	}
	require.NoError(t, NewHTTPReporter(srv.URL).Report(context.Background(), result))
	assert.Equal(t, result, got)
}

func TestReportErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	err := NewHTTPReporter(srv.URL).Report(context.Background(), api.PipelineResult{Name: "build"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
}
