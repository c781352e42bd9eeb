package main

import (
	"net/http"

	"conveyor/pkg/api"
	"conveyor/pkg/client"
	"conveyor/pkg/notify"
	"conveyor/pkg/scheduler"
	"conveyor/pkg/store"
	"conveyor/pkg/trigger"
	"conveyor/pkg/util/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handlers struct {
	sc       scheduler.Scheduler
	store    store.Store
	reporter notify.Reporter
}

// SubmitEvent receives a repository event with its pipeline definition.
// If the trigger evaluator accepts the event, the run starts asynchronously
// and 202 is returned with the run identifier; otherwise 200 with
// triggered=false. Graph definition errors abort the run before any state is
// recorded; they are logged and the run never appears in the store.
func (h handlers) SubmitEvent(c echo.Context) error {
	var req client.SubmitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.Wrap(err, "cannot decode request").Error())
	}
	if err := req.Pipeline.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// Evaluate the trigger synchronously so the caller learns immediately
	// whether anything will run.
	if !trigger.ForPipeline(req.Pipeline).ShouldRun(req.Event) {
		return c.JSON(http.StatusOK, client.SubmitResponse{Triggered: false})
	}

	runID := uuid.New().String()
	ctx := context.WithRunID(context.Background(), runID)

	// The run outlives the request.
	go func() {
		result, err := h.sc.Execute(ctx, req.Pipeline, req.Event)
		if err != nil {
			ctx.Logger().Error(errors.Wrapf(err, "run %s aborted", runID))
			return
		}
		if h.reporter != nil && result.Status != api.StatusNotTriggered {
			if err := h.reporter.Report(ctx, result); err != nil {
				ctx.Logger().Error(errors.Wrap(err, "cannot report result"))
			}
		}
	}()

	return c.JSON(http.StatusAccepted, client.SubmitResponse{RunID: runID, Triggered: true})
}
