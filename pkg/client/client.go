package client

import (
	"context"
	"strings"

	"conveyor/pkg/api"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	// RunIDParam is the route param definition for RunID.
	RunIDParam = "runID"
)

// Client is the API client that performs all operations against a conveyor controller.
type Client interface {
	// SubmitEvent submits a repository event with its pipeline definition.
	// It returns the run identifier, or triggered=false when the trigger
	// evaluator rejected the event.
	SubmitEvent(ctx context.Context, req SubmitRequest) (runID string, triggered bool, err error)

	// ListRuns lists the known runs.
	ListRuns(ctx context.Context) (map[string]string, error)

	// RunState returns the state of a run.
	RunState(ctx context.Context, runID string) (api.RunState, error)
}

// NewClient creates a conveyor controller client.
func NewClient(uri string) (Client, error) {
	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	return client{
		httpcli: httpcli,
		uri:     strings.TrimRight(uri, "/"),
	}, nil
}

type client struct {
	httpcli *retryablehttp.Client
	uri     string
}
