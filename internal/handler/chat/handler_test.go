package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
	"github.com/zhouzirui/yaros-chat/backend/internal/model/sentiment"
	chatService "github.com/zhouzirui/yaros-chat/backend/internal/service/chat"
)

type stubChatter struct {
	reply   *chat.Reply
	err     error
	prompts []string
	convs   []*chat.Conversation
}

func (s *stubChatter) Chat(_ context.Context, conv *chat.Conversation, prompt string) (*chat.Reply, error) {
	s.prompts = append(s.prompts, prompt)
	s.convs = append(s.convs, conv)
	if prompt == "" {
		return nil, chatService.ErrEmptyPrompt
	}
	return s.reply, s.err
}

func setupRouter(chatter *stubChatter) (*chi.Mux, *chat.Conversation) {
	conv := chat.NewConversation()
	handler := New(chatter, conv, zap.NewNop())

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, conv
}

func postChat(r http.Handler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestChatReturnsReply(t *testing.T) {
	gif := "https://media.giphy.com/happy.gif"
	chatter := &stubChatter{reply: &chat.Reply{
		AssistantResponse: "Hi there!",
		Sentiment:         sentiment.Result{Score: 0.5, Magnitude: 0.5},
		GifURL:            &gif,
	}}
	r, conv := setupRouter(chatter)

	resp := postChat(r, []byte(`{"prompt":"Hello"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["assistant_response"] != "Hi there!" {
		t.Fatalf("unexpected assistant_response %v", body["assistant_response"])
	}
	if body["gifUrl"] != gif {
		t.Fatalf("unexpected gifUrl %v", body["gifUrl"])
	}
	score := body["sentiment"].(map[string]any)["score"]
	if score != 0.5 {
		t.Fatalf("unexpected score %v", score)
	}
	if len(chatter.convs) != 1 || chatter.convs[0] != conv {
		t.Fatal("expected the shared conversation to be used")
	}
}

func TestChatNullGif(t *testing.T) {
	chatter := &stubChatter{reply: &chat.Reply{AssistantResponse: "ok"}}
	r, _ := setupRouter(chatter)

	resp := postChat(r, []byte(`{"prompt":"The sky is blue"}`))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if !bytes.Contains(resp.Body.Bytes(), []byte(`"gifUrl":null`)) {
		t.Fatalf("expected null gifUrl, got %s", resp.Body.String())
	}
}

func TestChatMissingPrompt(t *testing.T) {
	for _, body := range []string{`{}`, `{"prompt":""}`, `not json`, ``} {
		chatter := &stubChatter{}
		r, _ := setupRouter(chatter)

		resp := postChat(r, []byte(body))

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, resp.Code)
		}
		if got := resp.Body.String(); got != "{\"error\":\"No input provided\"}\n" {
			t.Fatalf("body %q: unexpected response %q", body, got)
		}
		if len(chatter.prompts) != 0 {
			t.Fatalf("body %q: workflow must not run", body)
		}
	}
}

func TestChatWorkflowFailure(t *testing.T) {
	chatter := &stubChatter{err: errors.New("run: assistant run did not complete")}
	r, _ := setupRouter(chatter)

	resp := postChat(r, []byte(`{"prompt":"Hello"}`))

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.Code)
	}
	if got := resp.Body.String(); got != "{\"error\":\"Failed to interact with the assistant\"}\n" {
		t.Fatalf("unexpected response %q", got)
	}
}
