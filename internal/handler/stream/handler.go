package stream

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
	chatService "github.com/zhouzirui/yaros-chat/backend/internal/service/chat"
	"github.com/zhouzirui/yaros-chat/backend/pkg/utils"
)

// SSE event names.
const (
	EventProgress = "progress"
	EventReply    = "reply"
	EventError    = "error"
)

// ProgressChatter runs the chat workflow and reports each step.
type ProgressChatter interface {
	ChatWithProgress(ctx context.Context, conv *chat.Conversation, prompt string, observe chatService.Observer) (*chat.Reply, error)
}

// Handler manages streaming chat progress via Server-Sent Events
type Handler struct {
	chatSvc ProgressChatter
	conv    *chat.Conversation
	logger  *zap.Logger
}

// New creates a new stream handler
func New(chatSvc ProgressChatter, conv *chat.Conversation, logger *zap.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		conv:    conv,
		logger:  logger.Named("handler.stream"),
	}
}

// RegisterRoutes 注册流式路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/stream", h.handleStream)
}

// handleStream 以 SSE 推送工作流进度，最后发送 reply 或 error 事件。
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	prompt := r.URL.Query().Get("prompt")
	if prompt == "" {
		_ = utils.RespondError(w, http.StatusBadRequest, utils.MsgNoInput)
		return
	}

	sse, err := utils.NewSSEWriter(w)
	if err != nil {
		_ = utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reply, err := h.chatSvc.ChatWithProgress(r.Context(), h.conv, prompt, func(event chat.Event) {
		if err := sse.Send(EventProgress, event); err != nil {
			h.logger.Debug("failed to send progress", zap.Error(err))
		}
	})
	if err != nil {
		if sendErr := sse.Send(EventError, utils.ErrorBody{Error: utils.MsgAssistantFailed}); sendErr != nil {
			h.logger.Debug("failed to send error event", zap.Error(sendErr))
		}
		return
	}

	if err := sse.Send(EventReply, reply); err != nil {
		h.logger.Warn("failed to send reply", zap.Error(err))
	}
}
