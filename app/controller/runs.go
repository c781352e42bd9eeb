package main

import (
	"net/http"

	"conveyor/pkg/client"
	"conveyor/pkg/store"
	"conveyor/pkg/util/context"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ListRuns lists the known runs as runID to pipeline name.
func (h handlers) ListRuns(c echo.Context) error {
	runs, err := h.store.ListRuns(context.FromContext(c.Request().Context()))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, runs)
}

// RunState returns the full state of a run.
func (h handlers) RunState(c echo.Context) error {
	runID := c.Param(client.RunIDParam)
	state, err := h.store.RunState(context.FromContext(c.Request().Context()), runID)
	if err != nil {
		if errors.As(err, &store.ErrNotFound{}) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, state)
}
