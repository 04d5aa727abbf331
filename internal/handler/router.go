package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/navigator/backend/internal/config"
	"github.com/zhouzirui/navigator/backend/internal/handler/chat"
	"github.com/zhouzirui/navigator/backend/internal/handler/prompt"
	"github.com/zhouzirui/navigator/backend/internal/handler/render"
	"github.com/zhouzirui/navigator/backend/internal/handler/stream"
	"github.com/zhouzirui/navigator/backend/internal/handler/ws"
	middlewarePkg "github.com/zhouzirui/navigator/backend/internal/middleware"
	promptModel "github.com/zhouzirui/navigator/backend/internal/model/prompt"
	chatService "github.com/zhouzirui/navigator/backend/internal/service/chat"
	"github.com/zhouzirui/navigator/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(cfg config.ServerConfig, prompts promptModel.Store, chatSvc *chatService.Service, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.RequestLogger(logger.Named("http")))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(cfg.AllowedOrigin))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		chat.New(chatSvc).RegisterRoutes(api)
		prompt.New(prompts, chatSvc).RegisterRoutes(api)
		render.New().RegisterRoutes(api)
		stream.New(chatSvc, cfg.HeartbeatInterval).RegisterRoutes(api)
		ws.New(chatSvc).RegisterRoutes(api)
	})

	return r
}
