package workouts

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fdg312/fitbot/internal/storage"
)

type Handlers struct {
	service *Service
	log     *slog.Logger
}

func NewHandlers(service *Service, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{service: service, log: log}
}

// HandleList returns the sessions of one day with their volume.
// GET /v1/workouts?date=YYYY-MM-DD
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.List(r.URL.Query().Get("date"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCreate logs a new session.
// POST /v1/workouts
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid JSON body")
		return
	}

	resp, err := h.service.Add(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleUpdate replaces a session.
// PUT /v1/workouts/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "invalid JSON body")
		return
	}

	resp, err := h.service.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete removes a session.
// DELETE /v1/workouts/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleMonth returns the monthly count and goal progress.
// GET /v1/workouts/month?month=YYYY-MM
func (h *Handlers) HandleMonth(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Month(r.URL.Query().Get("month"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleCalendar returns the days with at least one session.
// GET /v1/workouts/calendar?from=&to=
func (h *Handlers) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp, err := h.service.Calendar(q.Get("from"), q.Get("to"))
	if err != nil {
		h.handleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, storage.ErrStorageFailure):
		h.log.Error("workouts storage failure", "error", err)
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", "failed to save data")
	default:
		h.log.Error("workouts request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
