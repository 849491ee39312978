package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
	"github.com/zhouzirui/yaros-chat/backend/pkg/utils"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Outgoing frame types.
const (
	TypeReply = "reply"
	TypeError = "error"
)

// Chatter runs one prompt through the chat workflow.
type Chatter interface {
	Chat(ctx context.Context, conv *chat.Conversation, prompt string) (*chat.Reply, error)
}

// InboundMessage 客户端发送的提问帧
type InboundMessage struct {
	Prompt string `json:"prompt"`
}

// OutgoingMessage 服务端回复帧，Data 为 chat.Reply 或 utils.ErrorBody。
type OutgoingMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// WebSocketHandler WebSocket聊天处理器
type WebSocketHandler struct {
	chatSvc  Chatter
	conv     *chat.Conversation
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler 创建WebSocket处理器，仅接受 allowedOrigin 或无 Origin 的连接。
func NewWebSocketHandler(chatSvc Chatter, conv *chat.Conversation, allowedOrigin string, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		chatSvc: chatSvc,
		conv:    conv,
		logger:  logger.Named("handler.ws"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/chat/ws", h.handleWebSocket)
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

// handleWebSocket 处理WebSocket连接，每个提问帧按顺序执行一次聊天流程。
func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}
	h.logger.Info("connection opened", zap.String("conversation_id", h.conv.ID), zap.String("remote", r.RemoteAddr))

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	go h.pingLoop(ctx, ws)

	for {
		var msg InboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read error", zap.Error(err))
			}
			return
		}

		h.handlePrompt(ctx, c, msg.Prompt)
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	}
}

func (h *WebSocketHandler) handlePrompt(ctx context.Context, c *conn, prompt string) {
	if prompt == "" {
		h.send(c, OutgoingMessage{Type: TypeError, Data: utils.ErrorBody{Error: utils.MsgNoInput}})
		return
	}

	reply, err := h.chatSvc.Chat(ctx, h.conv, prompt)
	if err != nil {
		h.send(c, OutgoingMessage{Type: TypeError, Data: utils.ErrorBody{Error: utils.MsgAssistantFailed}})
		return
	}
	h.send(c, OutgoingMessage{Type: TypeReply, Data: reply})
}

func (h *WebSocketHandler) send(c *conn, msg OutgoingMessage) {
	if err := c.writeJSON(msg); err != nil {
		h.logger.Warn("write failed", zap.String("type", msg.Type), zap.Error(err))
	}
}

// pingLoop 定期发送ping消息
func (h *WebSocketHandler) pingLoop(ctx context.Context, ws *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		}
	}
}
