package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
)

type stubChatter struct {
	reply *chat.Reply
	err   error
}

func (s *stubChatter) Chat(_ context.Context, _ *chat.Conversation, prompt string) (*chat.Reply, error) {
	if s.err != nil {
		return nil, s.err
	}
	reply := *s.reply
	reply.AssistantResponse += " " + prompt
	return &reply, nil
}

type frame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dial(t *testing.T, chatter Chatter, origin string) *websocket.Conn {
	t.Helper()

	r := chi.NewRouter()
	NewWebSocketHandler(chatter, chat.NewConversation(), "http://localhost:3000", zap.NewNop()).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	header := http.Header{}
	if origin != "" {
		header.Set("Origin", origin)
	}
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/chat/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, header)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { ws.Close() })
	return ws
}

func TestWebSocketRoundTrip(t *testing.T) {
	ws := dial(t, &stubChatter{reply: &chat.Reply{AssistantResponse: "echo:"}}, "http://localhost:3000")

	for _, prompt := range []string{"Hello", "again"} {
		if err := ws.WriteJSON(InboundMessage{Prompt: prompt}); err != nil {
			t.Fatalf("write: %v", err)
		}

		var got frame
		if err := ws.ReadJSON(&got); err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.Type != TypeReply {
			t.Fatalf("expected reply frame, got %s", got.Type)
		}
		var reply chat.Reply
		if err := json.Unmarshal(got.Data, &reply); err != nil {
			t.Fatalf("decode reply: %v", err)
		}
		if reply.AssistantResponse != "echo: "+prompt {
			t.Fatalf("unexpected reply %q", reply.AssistantResponse)
		}
	}
}

func TestWebSocketErrorFrames(t *testing.T) {
	ws := dial(t, &stubChatter{err: errors.New("boom")}, "")

	cases := map[string]string{
		"":      "No input provided",
		"Hello": "Failed to interact with the assistant",
	}
	for prompt, want := range cases {
		if err := ws.WriteJSON(InboundMessage{Prompt: prompt}); err != nil {
			t.Fatalf("write: %v", err)
		}

		var got frame
		if err := ws.ReadJSON(&got); err != nil {
			t.Fatalf("read: %v", err)
		}
		if got.Type != TypeError {
			t.Fatalf("expected error frame, got %s", got.Type)
		}
		if !strings.Contains(string(got.Data), want) {
			t.Fatalf("prompt %q: expected %q in %s", prompt, want, got.Data)
		}
	}
}

func TestWebSocketRejectsForeignOrigin(t *testing.T) {
	r := chi.NewRouter()
	NewWebSocketHandler(&stubChatter{}, chat.NewConversation(), "http://localhost:3000", zap.NewNop()).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	defer srv.Close()

	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/chat/ws", header)
	if err == nil {
		t.Fatal("expected handshake failure")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", resp)
	}
}
