package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/zhouzirui/serenity/backend/internal/handler/chat"
	"github.com/zhouzirui/serenity/backend/internal/handler/mood"
	"github.com/zhouzirui/serenity/backend/internal/handler/prompt"
	"github.com/zhouzirui/serenity/backend/internal/logger"
	middlewarePkg "github.com/zhouzirui/serenity/backend/internal/middleware"
	promptModel "github.com/zhouzirui/serenity/backend/internal/model/prompt"
	"github.com/zhouzirui/serenity/backend/pkg/utils"
)

// Deps groups what the HTTP layer needs from the core services.
type Deps struct {
	Gateway      chat.Streamer
	Moods        mood.Store
	Prompts      promptModel.Store
	AppURL       string
	MaxBodyBytes int64
	Logger       zerolog.Logger
}

// NewRouter wires HTTP routes to core services.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.Tracing)
	r.Use(middlewarePkg.Logger(logger.Component(deps.Logger, "http")))
	r.Use(middlewarePkg.Metrics)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(deps.AppURL))

	chatHandler := chat.New(deps.Gateway, deps.MaxBodyBytes, logger.Component(deps.Logger, "chat"))
	moodHandler := mood.New(deps.Moods, deps.MaxBodyBytes, logger.Component(deps.Logger, "mood"))
	promptHandler := prompt.New(deps.Prompts)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(api chi.Router) {
		chatHandler.RegisterRoutes(api)
		moodHandler.RegisterRoutes(api)
		promptHandler.RegisterRoutes(api)
	})

	return r
}
