package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
	chatService "github.com/zhouzirui/yaros-chat/backend/internal/service/chat"
	"github.com/zhouzirui/yaros-chat/backend/pkg/utils"
)

// Chatter runs one prompt through the chat workflow.
type Chatter interface {
	Chat(ctx context.Context, conv *chat.Conversation, prompt string) (*chat.Reply, error)
}

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc Chatter
	conv    *chat.Conversation
	logger  *zap.Logger
}

// New 创建聊天处理器，所有请求共享同一个对话上下文。
func New(chatSvc Chatter, conv *chat.Conversation, logger *zap.Logger) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		conv:    conv,
		logger:  logger.Named("handler.chat"),
	}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// handleChat 处理一次聊天请求
func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload chat.Request
	// 无法解析的请求体按缺少输入处理。
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Prompt == "" {
		h.respondError(w, http.StatusBadRequest, utils.MsgNoInput)
		return
	}

	reply, err := h.chatSvc.Chat(r.Context(), h.conv, payload.Prompt)
	if err != nil {
		if errors.Is(err, chatService.ErrEmptyPrompt) {
			h.respondError(w, http.StatusBadRequest, utils.MsgNoInput)
			return
		}
		h.respondError(w, http.StatusInternalServerError, utils.MsgAssistantFailed)
		return
	}

	if err := utils.RespondJSON(w, http.StatusOK, reply); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	if err := utils.RespondError(w, status, message); err != nil {
		h.logger.Warn("failed to encode error response", zap.Error(err))
	}
}
