package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"conveyor/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	// SubmitMethod is the http method used for the Submit endpoint.
	SubmitMethod = http.MethodPost
	// SubmitPath is the path definition of the Submit endpoint.
	SubmitPath = "/api/events"
)

// SubmitRequest is the request body of the Submit endpoint.
type SubmitRequest struct {
	Pipeline api.PipelineSpec `json:"pipeline"`
	Event    api.Event        `json:"event"`
}

// SubmitResponse is the response body of the Submit endpoint.
type SubmitResponse struct {
	RunID     string `json:"runId,omitempty"`
	Triggered bool   `json:"triggered"`
}

func (cli client) SubmitEvent(ctx context.Context, r SubmitRequest) (string, bool, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return "", false, errors.Wrap(err, "cannot marshal request")
	}
	req, err := retryablehttp.NewRequest(SubmitMethod, cli.uri+SubmitPath, bytes.NewReader(body))
	if err != nil {
		return "", false, errors.Wrap(err, "cannot create request")
	}
	req.Header.Set("content-type", "application/json")

	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return "", false, errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return "", false, errors.Errorf("controller returned status %d", resp.StatusCode)
	}

	var sr SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", false, errors.Wrap(err, "cannot decode response")
	}
	return sr.RunID, sr.Triggered, nil
}
