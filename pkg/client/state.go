package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"conveyor/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	// ListRunsMethod is the http method used for the ListRuns endpoint.
	ListRunsMethod = http.MethodGet
	// ListRunsPath is the path definition of the ListRuns endpoint.
	ListRunsPath = "/api/runs"

	// RunStateMethod is the http method used for the RunState endpoint.
	RunStateMethod     = http.MethodGet
	runStatePathFormat = "/api/runs/%s/state"
)

// RunStatePath is the path definition of the RunState endpoint.
var RunStatePath = fmt.Sprintf(runStatePathFormat, fmt.Sprintf(":%s", RunIDParam))

func (cli client) ListRuns(ctx context.Context) (map[string]string, error) {
	req, err := retryablehttp.NewRequest(ListRunsMethod, cli.uri+ListRunsPath, nil)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create request")
	}
	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return nil, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("controller returned status %d", resp.StatusCode)
	}

	var runs map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
		return nil, errors.Wrap(err, "cannot decode response")
	}
	return runs, nil
}

func (cli client) RunState(ctx context.Context, runID string) (api.RunState, error) {
	req, err := retryablehttp.NewRequest(RunStateMethod, fmt.Sprintf(cli.uri+runStatePathFormat, runID), nil)
	if err != nil {
		return api.RunState{}, errors.Wrap(err, "cannot create request")
	}
	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return api.RunState{}, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return api.RunState{}, errors.Errorf("controller returned status %d", resp.StatusCode)
	}

	var state api.RunState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return api.RunState{}, errors.Wrap(err, "cannot decode response")
	}
	return state, nil
}
