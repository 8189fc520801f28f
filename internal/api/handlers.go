package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/cwihealth/cwi-server/internal/database"
	"github.com/cwihealth/cwi-server/internal/engine"
	"github.com/cwihealth/cwi-server/internal/service"
)

// WasteOperations is the waste-side service surface the handlers need.
type WasteOperations interface {
	LogWaste(ctx context.Context, input *service.LogWasteInput) (*database.WasteEvent, error)
	ListEntries(ctx context.Context, filters database.EventFilters) ([]database.WasteEvent, error)
	GetStats(ctx context.Context) (*engine.Snapshot, error)
	GetAlerts(ctx context.Context, status string) ([]service.Alert, error)
	History(ctx context.Context, days int) ([]database.DailyDepartmentTotal, error)
	ResetAllData(ctx context.Context) (int64, error)
}

// BaselineOperations is the baseline-side service surface.
type BaselineOperations interface {
	Save(ctx context.Context, baseline *database.DepartmentBaseline) (*database.DepartmentBaseline, error)
	List(ctx context.Context) ([]database.DepartmentBaseline, error)
	Delete(ctx context.Context, department string) error
}

// Handlers holds the HTTP handlers for the API server.
type Handlers struct {
	waste     WasteOperations
	baselines BaselineOperations
	logger    *zap.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(waste WasteOperations, baselines BaselineOperations, logger *zap.Logger) *Handlers {
	return &Handlers{waste: waste, baselines: baselines, logger: logger}
}

func (h *Handlers) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func (h *Handlers) logWaste(w http.ResponseWriter, r *http.Request) {
	var input service.LogWasteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event, err := h.waste.LogWaste(r.Context(), &input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeData(w, http.StatusCreated, event)
}

func (h *Handlers) listEntries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filters := database.EventFilters{
		Department: query.Get("department"),
		WasteType:  query.Get("wasteType"),
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		filters.Limit = n
	}

	events, err := h.waste.ListEntries(r.Context(), filters)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if events == nil {
		events = []database.WasteEvent{}
	}

	h.writeData(w, http.StatusOK, events)
}

func (h *Handlers) getStats(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.waste.GetStats(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, snapshot)
}

func (h *Handlers) getAlerts(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = string(engine.StatusActive)
	}

	alerts, err := h.waste.GetAlerts(r.Context(), status)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, alerts)
}

func (h *Handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	days := 0
	if d := r.URL.Query().Get("days"); d != "" {
		n, err := strconv.Atoi(d)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "days must be an integer")
			return
		}
		days = n
	}

	totals, err := h.waste.History(r.Context(), days)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if totals == nil {
		totals = []database.DailyDepartmentTotal{}
	}

	h.writeData(w, http.StatusOK, totals)
}

// resetData clears the event store. The confirm flag is mandatory so the
// irreversible path cannot be hit by a stray request.
func (h *Handlers) resetData(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "true" {
		h.writeError(w, http.StatusBadRequest, "reset requires confirm=true")
		return
	}

	deleted, err := h.waste.ResetAllData(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

func (h *Handlers) saveBaseline(w http.ResponseWriter, r *http.Request) {
	var baseline database.DepartmentBaseline
	if err := json.NewDecoder(r.Body).Decode(&baseline); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	stored, err := h.baselines.Save(r.Context(), &baseline)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, stored)
}

func (h *Handlers) listBaselines(w http.ResponseWriter, r *http.Request) {
	baselines, err := h.baselines.List(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if baselines == nil {
		baselines = []database.DepartmentBaseline{}
	}

	h.writeData(w, http.StatusOK, baselines)
}

func (h *Handlers) deleteBaseline(w http.ResponseWriter, r *http.Request) {
	department := mux.Vars(r)["department"]

	if err := h.baselines.Delete(r.Context(), department); err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.writeData(w, http.StatusOK, map[string]string{"department": department})
}

type dataEnvelope struct {
	Data interface{} `json:"data"`
}

type errorEnvelope struct {
	Error string `json:"error"`
}

func (h *Handlers) writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(dataEnvelope{Data: data}); err != nil {
		h.logger.Warn("failed to write response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorEnvelope{Error: message})
}

// writeServiceError maps classified service errors onto status codes. The
// body stays generic; precise classification is for retry policy, not for
// leaking store internals.
func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		h.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		h.logger.Error("store unavailable", zap.Error(err))
		h.writeError(w, http.StatusServiceUnavailable, "store unavailable")
	default:
		h.logger.Error("unhandled service error", zap.Error(err))
		h.writeError(w, http.StatusInternalServerError, "internal error")
	}
}
