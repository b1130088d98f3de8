package nutrition

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fdg312/fitbot/internal/storage"
)

// Handler handles HTTP requests for meals, water and nutrition views.
type Handler struct {
	service *Service
	log     *slog.Logger
}

// NewHandler creates a new nutrition handler.
func NewHandler(service *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{service: service, log: log}
}

// HandleListMeals handles GET /v1/meals?date=
func (h *Handler) HandleListMeals(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListMeals(r.URL.Query().Get("date"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleAddMeal handles POST /v1/meals
func (h *Handler) HandleAddMeal(w http.ResponseWriter, r *http.Request) {
	var req MealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	meal, err := h.service.AddMeal(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

// HandleUpdateMeal handles PUT /v1/meals/{id}
func (h *Handler) HandleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	var req MealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	resp, err := h.service.UpdateMeal(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDeleteMeal handles DELETE /v1/meals/{id}
func (h *Handler) HandleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.DeleteMeal(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDay handles GET /v1/nutrition/day?date=
func (h *Handler) HandleDay(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Day(r.URL.Query().Get("date"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCalendar handles GET /v1/nutrition/calendar?from=&to=
func (h *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.Calendar(q.Get("from"), q.Get("to"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleGetWater handles GET /v1/water?date=
func (h *Handler) HandleGetWater(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Water(r.URL.Query().Get("date"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandlePutWater handles PUT /v1/water
func (h *Handler) HandlePutWater(w http.ResponseWriter, r *http.Request) {
	var req WaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	resp, err := h.service.SetWater(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleWaterIncrement handles POST /v1/water/increment?date=
func (h *Handler) HandleWaterIncrement(w http.ResponseWriter, r *http.Request) {
	h.stepWater(w, r, 1)
}

// HandleWaterDecrement handles POST /v1/water/decrement?date=
func (h *Handler) HandleWaterDecrement(w http.ResponseWriter, r *http.Request) {
	h.stepWater(w, r, -1)
}

func (h *Handler) stepWater(w http.ResponseWriter, r *http.Request, direction int) {
	resp, err := h.service.StepWater(r.Context(), r.URL.Query().Get("date"), direction)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, storage.ErrStorageFailure):
		h.log.Error("nutrition storage failure", "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "Failed to save data")
	default:
		h.log.Error("nutrition request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}
