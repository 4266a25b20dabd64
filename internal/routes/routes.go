package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"Sator.eden/internal/controller"
	"Sator.eden/internal/middleware"
	"Sator.eden/internal/models"
	"Sator.eden/internal/utils"
)

// Controllers groups the handlers the router dispatches to.
type Controllers struct {
	Chat      *controller.ChatController
	Telemetry *controller.TelemetryController
	Camera    *controller.CameraController
	Health    *controller.HealthController
	// ChatAuth guards the chat routes; nil leaves them open.
	ChatAuth func(http.Handler) http.Handler
}

// NewRouter registers all application routes.
func NewRouter(c Controllers, logger *zap.Logger) *mux.Router {
	logging := middleware.Logging(logger)
	r := mux.NewRouter()
	r.Use(logging)

	// r.Use only wraps matched routes.
	r.NotFoundHandler = logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, "Not found", nil, http.StatusNotFound))
	}))
	r.MethodNotAllowedHandler = logging(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMethodNotAllowed, "Method not allowed", nil, http.StatusMethodNotAllowed))
	}))

	protect := func(h http.HandlerFunc) http.Handler {
		if c.ChatAuth == nil {
			return h
		}
		return c.ChatAuth(h)
	}

	// Chat
	r.Handle("/api/chat", protect(c.Chat.HandleChat)).Methods(http.MethodPost)
	r.Handle("/api/chat/audio", protect(c.Chat.HandleAudio)).Methods(http.MethodPost)
	r.Handle("/api/chat/models", protect(c.Chat.HandleModels)).Methods(http.MethodGet)

	// Telemetry
	r.HandleFunc("/api/thingspeak/top", c.Telemetry.HandleTop).Methods(http.MethodGet)
	r.HandleFunc("/api/thingspeak/bottom", c.Telemetry.HandleBottom).Methods(http.MethodGet)
	r.HandleFunc("/api/archive/{channel}", c.Telemetry.HandleArchive).Methods(http.MethodGet)

	// Camera
	r.HandleFunc("/api/camera-stream", c.Camera.HandleStream).Methods(http.MethodGet)

	// Health check and metrics (GET only)
	r.HandleFunc("/health", c.Health.HandleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return r
}
