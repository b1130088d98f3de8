package profiles

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fdg312/fitbot/internal/storage"
)

// Handler содержит HTTP обработчики профиля, онбординга и настроек
type Handler struct {
	service *Service
	log     *slog.Logger
}

func NewHandler(service *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{service: service, log: log}
}

// HandleState обрабатывает GET /v1/state
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, h.service.State())
}

// HandleOnboarding обрабатывает POST /v1/onboarding
func (h *Handler) HandleOnboarding(w http.ResponseWriter, r *http.Request) {
	var req OnboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.CompleteOnboarding(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.sendJSON(w, http.StatusCreated, resp)
}

// HandleGetProfile обрабатывает GET /v1/profile
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProfile()
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, ProfileResponse{Profile: *p})
}

// HandleUpdateProfile обрабатывает PUT /v1/profile
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, ProfileResponse{Profile: *p})
}

// HandleNutritionGoal обрабатывает PUT /v1/profile/nutrition-goal
func (h *Handler) HandleNutritionGoal(w http.ResponseWriter, r *http.Request) {
	var req NutritionGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	p, err := h.service.SetNutritionGoal(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, ProfileResponse{Profile: *p})
}

// HandleWorkoutGoal обрабатывает PUT /v1/profile/workout-goal
func (h *Handler) HandleWorkoutGoal(w http.ResponseWriter, r *http.Request) {
	var req WorkoutGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	p, err := h.service.SetWorkoutGoal(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, ProfileResponse{Profile: *p})
}

func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	h.sendJSON(w, http.StatusOK, h.service.GetSettings())
}

func (h *Handler) HandlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.UpdateSettings(r.Context(), req)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.sendJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		h.sendError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ErrNotOnboarded):
		h.sendError(w, http.StatusConflict, "onboarding_required", "Complete onboarding first")
	case errors.Is(err, ErrAlreadyOnboarded):
		h.sendError(w, http.StatusConflict, "already_onboarded", "Onboarding is already completed")
	case errors.Is(err, storage.ErrStorageFailure):
		h.log.Error("profile storage failure", "error", err)
		h.sendError(w, http.StatusServiceUnavailable, "storage_unavailable", "Failed to save data")
	default:
		h.log.Error("profile request failed", "error", err)
		h.sendError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// sendJSON отправляет JSON ответ
func (h *Handler) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// sendError отправляет ошибку в формате ErrorResponse
func (h *Handler) sendError(w http.ResponseWriter, status int, code, message string) {
	h.sendJSON(w, status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message},
	})
}
