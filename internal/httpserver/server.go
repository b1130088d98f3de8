package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/fdg312/fitbot/internal/ai"
	"github.com/fdg312/fitbot/internal/config"
	"github.com/fdg312/fitbot/internal/nutrition"
	"github.com/fdg312/fitbot/internal/profiles"
	"github.com/fdg312/fitbot/internal/state"
	"github.com/fdg312/fitbot/internal/summary"
	"github.com/fdg312/fitbot/internal/telemetry"
	"github.com/fdg312/fitbot/internal/workouts"
)

// Summarizer produces the AI advice text.
type Summarizer interface {
	Analyze(ctx context.Context, in ai.SummaryInput) string
}

// Deps - зависимости сервера
type Deps struct {
	State      *state.Manager
	Summarizer Summarizer
	Log        *slog.Logger
}

// Server представляет HTTP сервер
type Server struct {
	config *config.Config
	mux    *http.ServeMux
	state  *state.Manager
	log    *slog.Logger
	ai     Summarizer
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = slog.Default()
	}
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
		state:  deps.State,
		log:    log,
		ai:     deps.Summarizer,
	}
	s.routes()
	return s
}

// routes регистрирует маршруты
func (s *Server) routes() {
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", telemetry.Handler())

	// Profile, onboarding, settings
	profileHandler := profiles.NewHandler(profiles.NewService(s.state), s.log)
	s.mux.HandleFunc("GET /v1/state", profileHandler.HandleState)
	s.mux.HandleFunc("POST /v1/onboarding", profileHandler.HandleOnboarding)
	s.mux.HandleFunc("GET /v1/profile", profileHandler.HandleGetProfile)
	s.mux.HandleFunc("PUT /v1/profile", profileHandler.HandleUpdateProfile)
	s.mux.HandleFunc("PUT /v1/profile/nutrition-goal", profileHandler.HandleNutritionGoal)
	s.mux.HandleFunc("PUT /v1/profile/workout-goal", profileHandler.HandleWorkoutGoal)
	s.mux.HandleFunc("GET /v1/settings", profileHandler.HandleGetSettings)
	s.mux.HandleFunc("PUT /v1/settings", profileHandler.HandlePutSettings)

	// Meals, water, nutrition views
	nutritionHandler := nutrition.NewHandler(nutrition.NewService(s.state, s.config.WaterStepML), s.log)
	s.mux.HandleFunc("GET /v1/meals", nutritionHandler.HandleListMeals)
	s.mux.HandleFunc("POST /v1/meals", nutritionHandler.HandleAddMeal)
	s.mux.HandleFunc("PUT /v1/meals/{id}", nutritionHandler.HandleUpdateMeal)
	s.mux.HandleFunc("DELETE /v1/meals/{id}", nutritionHandler.HandleDeleteMeal)
	s.mux.HandleFunc("GET /v1/nutrition/day", nutritionHandler.HandleDay)
	s.mux.HandleFunc("GET /v1/nutrition/calendar", nutritionHandler.HandleCalendar)
	s.mux.HandleFunc("GET /v1/water", nutritionHandler.HandleGetWater)
	s.mux.HandleFunc("PUT /v1/water", nutritionHandler.HandlePutWater)
	s.mux.HandleFunc("POST /v1/water/increment", nutritionHandler.HandleWaterIncrement)
	s.mux.HandleFunc("POST /v1/water/decrement", nutritionHandler.HandleWaterDecrement)

	// Workouts
	workoutHandlers := workouts.NewHandlers(workouts.NewService(s.state), s.log)
	s.mux.HandleFunc("GET /v1/workouts", workoutHandlers.HandleList)
	s.mux.HandleFunc("POST /v1/workouts", workoutHandlers.HandleCreate)
	s.mux.HandleFunc("PUT /v1/workouts/{id}", workoutHandlers.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/workouts/{id}", workoutHandlers.HandleDelete)
	s.mux.HandleFunc("GET /v1/workouts/month", workoutHandlers.HandleMonth)
	s.mux.HandleFunc("GET /v1/workouts/calendar", workoutHandlers.HandleCalendar)

	// AI summary
	summaryHandler := summary.NewHandler(summary.NewService(s.state, s.ai))
	s.mux.HandleFunc("POST /v1/summary", summaryHandler.HandleSummary)
}

// Handler builds the middleware chain (outermost first): metrics → CORS → rate limit → onboarding gate → router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = OnboardingGate(s.state, handler)
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	handler = MetricsMiddleware(handler)
	return handler
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер и останавливает его при отмене ctx.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server started", "addr", "http://localhost"+srv.Addr, "healthz", "/healthz", "metrics", "/metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// openPaths are reachable before onboarding.
var openPaths = []string{"/healthz", "/metrics", "/v1/state", "/v1/onboarding", "/v1/settings"}

// OnboardingGate answers 409 onboarding_required until the profile is onboarded.
func OnboardingGate(st *state.Manager, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || isOpenPath(r.URL.Path) || st.IsOnboarded() {
			next.ServeHTTP(w, r)
			return
		}
		writeError(w, http.StatusConflict, "onboarding_required", "Complete onboarding first")
	})
}

func isOpenPath(path string) bool {
	for _, p := range openPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware counts requests by route pattern and status.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		telemetry.ObserveHTTP(r.Method, route, strconv.Itoa(rec.status), started)
	})
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
