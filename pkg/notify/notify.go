package notify

import (
	"bytes"
	"encoding/json"
	"net/http"

	"conveyor/pkg/api"
	"conveyor/pkg/util/context"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

// Config is the reporting endpoint configuration.
type Config struct {
	URL string `json:"url" env:"REPORT_URL"`
}

// Reporter delivers the final structured result of a run to an external
// reporting service.
type Reporter interface {
	Report(ctx context.Context, result api.PipelineResult) error
}

// NewHTTPReporter returns a Reporter posting results as JSON to the given URL.
func NewHTTPReporter(url string) Reporter {
	cli := retryablehttp.NewClient()
	cli.Logger = nil
	return &httpReporter{
		httpcli: cli,
		url:     url,
	}
}

type httpReporter struct {
	httpcli *retryablehttp.Client
	url     string
}

func (r *httpReporter) Report(ctx context.Context, result api.PipelineResult) error {
	body, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "cannot marshal result")
	}
	req, err := retryablehttp.NewRequest(http.MethodPost, r.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "cannot create request")
	}
	req.Header.Set("content-type", "application/json")

	resp, err := r.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrapf(err, "cannot post result to %s", r.url)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return errors.Errorf("reporting service returned status %d", resp.StatusCode)
	}
	ctx.Logger().Infof("result reported to %s", r.url)
	return nil
}
