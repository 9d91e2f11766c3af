package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	profileHandler "github.com/zhouzirui/tractor-swipe/backend/internal/handler/profile"
	"github.com/zhouzirui/tractor-swipe/backend/internal/handler/realtime"
	sessionHandler "github.com/zhouzirui/tractor-swipe/backend/internal/handler/session"
	middlewarePkg "github.com/zhouzirui/tractor-swipe/backend/internal/middleware"
	"github.com/zhouzirui/tractor-swipe/backend/internal/model/profile"
	sessionService "github.com/zhouzirui/tractor-swipe/backend/internal/service/session"
	"github.com/zhouzirui/tractor-swipe/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(profiles profile.Store, sessions *sessionService.Service, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"profiles": len(profiles.List()),
			"sessions": len(sessions.List()),
		})
	})

	r.Route("/api", func(api chi.Router) {
		profileHandler.New(profiles).RegisterRoutes(api)
		sessionHandler.New(sessions, logger).RegisterRoutes(api)
		realtime.NewWebSocketHandler(sessions, logger).RegisterRoutes(api)
	})

	return r
}
