package api

import (
	"errors"
	"net/http"
	"time"

	models "EquipWatch/internal/domain/models"
	domrepo "EquipWatch/internal/domain/repository"
	"EquipWatch/internal/usecase"
	xhttp "EquipWatch/pkg/http"
	xlogger "EquipWatch/pkg/logger"

	"github.com/labstack/echo/v4"
)

// AnalyticsEchoHandler exposes the analytics engine and the readings
// store over HTTP.
type AnalyticsEchoHandler struct {
	logger   *xlogger.Logger
	runner   *usecase.AnalyticsRunner
	readings *usecase.ReadingsUseCase
	store    domrepo.Storage
}

func NewAnalyticsEchoHandler(logger *xlogger.Logger, runner *usecase.AnalyticsRunner, readings *usecase.ReadingsUseCase, store domrepo.Storage) *AnalyticsEchoHandler {
	return &AnalyticsEchoHandler{logger: logger, runner: runner, readings: readings, store: store}
}

func (h *AnalyticsEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/analytics/spectrum", h.Spectrum)
	g.POST("/analytics/statistics", h.Statistics)
	g.POST("/analytics/forecast", h.Forecast)
	g.POST("/analytics/optimize", h.Optimize)
	g.GET("/readings", h.Readings)
	g.GET("/system/logs", h.SystemLogs)
	e.GET("/healthz", h.Health)
}

func (h *AnalyticsEchoHandler) Spectrum(c echo.Context) error {
	req := &models.SpectrumRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.runner.Spectrum(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("spectrum usecase error", xlogger.Error(err))
		return xhttp.BadRequestResponse(c, err.Error())
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsEchoHandler) Statistics(c echo.Context) error {
	req := &models.StatisticsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.runner.Statistics(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("statistics usecase error", xlogger.Error(err))
		return xhttp.BadRequestResponse(c, err.Error())
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsEchoHandler) Forecast(c echo.Context) error {
	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.runner.Forecast(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("forecast usecase error", xlogger.Error(err))
		return xhttp.BadRequestResponse(c, err.Error())
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsEchoHandler) Optimize(c echo.Context) error {
	req := &models.OptimizeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.runner.Optimize(c.Request().Context(), c.RealIP(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrRateLimited) {
			return xhttp.DataResponse(c, http.StatusTooManyRequests, err.Error())
		}
		h.logger.Error("optimize usecase error", xlogger.Error(err))
		return xhttp.BadRequestResponse(c, err.Error())
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalyticsEchoHandler) Readings(c echo.Context) error {
	req := &models.ReadingsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	now := time.Now()
	params := usecase.GetReadingsParams{
		EquipmentID: req.EquipmentID,
		SensorID:    req.SensorID,
		From:        xhttp.ParseTimeDefault(req.From, now.Add(-time.Hour)),
		To:          xhttp.ParseTimeDefault(req.To, now),
		Interval:    req.Interval,
		Limit:       req.Limit,
	}

	res, err := h.readings.GetReadings(c.Request().Context(), params)
	if err != nil {
		h.logger.Error("readings usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, res.Readings, int64(res.Count))
}

// SystemLogs exposes the in-memory ring of recent aggregated error
// records for quick diagnostics.
func (h *AnalyticsEchoHandler) SystemLogs(c echo.Context) error {
	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 100)
	collector := h.logger.Collector()
	if collector == nil {
		return xhttp.SuccessResponse(c, []struct{}{})
	}
	return xhttp.SuccessResponse(c, collector.Recent(limit))
}

func (h *AnalyticsEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["storage"] = err.Error()
			return xhttp.DataResponse(c, http.StatusServiceUnavailable, status)
		}
		status["storage"] = "ok"
	}
	return xhttp.SuccessResponse(c, status)
}
