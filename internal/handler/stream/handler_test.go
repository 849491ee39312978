package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
	chatService "github.com/zhouzirui/yaros-chat/backend/internal/service/chat"
	"github.com/zhouzirui/yaros-chat/backend/pkg/utils"
)

type stubChatter struct {
	events []chat.Event
	reply  *chat.Reply
	err    error
}

func (s *stubChatter) ChatWithProgress(_ context.Context, _ *chat.Conversation, _ string, observe chatService.Observer) (*chat.Reply, error) {
	for _, e := range s.events {
		observe(e)
	}
	return s.reply, s.err
}

func serve(chatter *stubChatter, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	New(chatter, chat.NewConversation(), zap.NewNop()).RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestStreamEndsWithReply(t *testing.T) {
	chatter := &stubChatter{
		events: []chat.Event{
			{Stage: chat.StageSentiment, Status: "done"},
			{Stage: chat.StageRun, Status: "completed"},
		},
		reply: &chat.Reply{AssistantResponse: "Hi there!"},
	}

	rec := serve(chatter, "/chat/stream?prompt=Hello")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if strings.Count(body, "event: progress\n") != 2 {
		t.Fatalf("expected 2 progress events, got %q", body)
	}
	if !strings.Contains(body, `"stage":"sentiment"`) {
		t.Fatalf("missing sentiment stage in %q", body)
	}
	last := body[strings.LastIndex(body, "event: "):]
	if !strings.HasPrefix(last, "event: reply\n") || !strings.Contains(last, `"assistant_response":"Hi there!"`) {
		t.Fatalf("expected trailing reply event, got %q", last)
	}
}

func TestStreamReportsError(t *testing.T) {
	rec := serve(&stubChatter{err: errors.New("boom")}, "/chat/stream?prompt=Hello")

	body := rec.Body.String()
	if !strings.Contains(body, "event: error\ndata: {\"error\":\"Failed to interact with the assistant\"}") {
		t.Fatalf("expected error event, got %q", body)
	}
	if strings.Contains(body, "event: reply") {
		t.Fatalf("unexpected reply event in %q", body)
	}
}

func TestStreamRequiresPrompt(t *testing.T) {
	rec := serve(&stubChatter{}, "/chat/stream")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), utils.MsgNoInput) {
		t.Fatalf("expected shared no-input message, got %q", rec.Body.String())
	}
}
