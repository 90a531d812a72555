package tools

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/auditflow/auditflow/internal/ledger"
	"github.com/auditflow/auditflow/internal/observability"
	"github.com/auditflow/auditflow/internal/platform/httpx"
	"github.com/auditflow/auditflow/internal/variance"
)

const maxArgsBytes = 64 << 10

// Handler exposes the tool catalogue over HTTP.
type Handler struct {
	logger  *slog.Logger
	service *Service
	metrics *observability.Metrics
}

// NewHandler constructs handler.
func NewHandler(logger *slog.Logger, service *Service, metrics *observability.Metrics) *Handler {
	return &Handler{logger: logger, service: service, metrics: metrics}
}

// MountRoutes registers routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/varianceAnalysis/export", h.exportVariance)
	r.Post("/{name}", h.call)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]any{"tools": h.service.Tools()})
}

func (h *Handler) call(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	args, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArgsBytes))
	if err != nil {
		httpx.BadRequest(w, "request body too large or unreadable")
		return
	}
	start := time.Now()
	resp, err := h.service.Call(r.Context(), name, json.RawMessage(args))
	h.observe(name, err, time.Since(start))
	if err != nil {
		h.respondError(w, r, name, err)
		return
	}
	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) exportVariance(w http.ResponseWriter, r *http.Request) {
	args, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxArgsBytes))
	if err != nil {
		httpx.BadRequest(w, "request body too large or unreadable")
		return
	}
	var req VarianceRequest
	start := time.Now()
	if err := decodeArgs(args, &req); err != nil {
		h.observe(ToolVarianceAnalysis, err, time.Since(start))
		h.respondError(w, r, ToolVarianceAnalysis, err)
		return
	}
	resp, err := h.service.VarianceAnalysis(r.Context(), req)
	h.observe(ToolVarianceAnalysis, err, time.Since(start))
	if err != nil {
		h.respondError(w, r, ToolVarianceAnalysis, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=variance_analysis.csv")
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(variance.ExportRows(resp.VariancesExceedingThreshold)); err != nil && h.logger != nil {
		h.logger.Warn("write variance csv", slog.Any("error", err))
	}
}

func (h *Handler) observe(tool string, err error, elapsed time.Duration) {
	outcome := "ok"
	switch {
	case errors.Is(err, ErrUnknownTool):
		return
	case errors.Is(err, ErrInvalidArgument):
		outcome = "invalid"
	case err != nil:
		outcome = "error"
	}
	h.metrics.ObserveTool(tool, outcome, elapsed)
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, tool string, err error) {
	var invalid *InvalidArgumentError
	if errors.As(err, &invalid) {
		httpx.BadRequest(w, invalid.Error(), httpx.InvalidParam{
			Name:    invalid.Field,
			Value:   invalid.Value,
			Allowed: invalid.Allowed,
		})
		return
	}
	if !errors.Is(err, ErrUnknownTool) && h.logger != nil {
		h.logger.Error("tool call failed",
			slog.String("tool", tool),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Any("error", err),
		)
	}
	httpx.RespondError(w, err,
		httpx.Mapping{Target: ErrUnknownTool, Status: http.StatusNotFound, Title: "Unknown Tool", Expose: true},
		httpx.Mapping{Target: ledger.ErrUnknownPeriod, Status: http.StatusBadRequest, Title: "Invalid Argument", Expose: true},
		httpx.Mapping{Target: ledger.ErrInvalidColumn, Status: http.StatusBadRequest, Title: "Invalid Argument", Expose: true},
		httpx.Mapping{Target: ledger.ErrDataSourceUnavailable, Status: http.StatusServiceUnavailable, Title: "Data Source Unavailable"},
	)
}
