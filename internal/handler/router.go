package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/handler/chat"
	"github.com/zhouzirui/yaros-chat/backend/internal/handler/realtime"
	"github.com/zhouzirui/yaros-chat/backend/internal/handler/stream"
	middlewarePkg "github.com/zhouzirui/yaros-chat/backend/internal/middleware"
	chatModel "github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
	chatService "github.com/zhouzirui/yaros-chat/backend/internal/service/chat"
	"github.com/zhouzirui/yaros-chat/backend/pkg/utils"
)

// NewRouter wires HTTP routes to the chat workflow. Every transport shares conv.
func NewRouter(chatSvc *chatService.Service, conv *chatModel.Conversation, allowedOrigin string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middlewarePkg.AccessLog(logger))
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS(allowedOrigin))

	chat.New(chatSvc, conv, logger).RegisterRoutes(r)
	stream.New(chatSvc, conv, logger).RegisterRoutes(r)
	realtime.NewWebSocketHandler(chatSvc, conv, allowedOrigin, logger).RegisterRoutes(r)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_ = utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
