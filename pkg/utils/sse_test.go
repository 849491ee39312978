package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSSEWriterSend(t *testing.T) {
	rec := httptest.NewRecorder()

	sse, err := NewSSEWriter(rec)
	if err != nil {
		t.Fatalf("NewSSEWriter err: %v", err)
	}
	if err := sse.Send("progress", map[string]string{"stage": "sentiment"}); err != nil {
		t.Fatalf("Send err: %v", err)
	}

	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Fatalf("unexpected content type %q", got)
	}
	want := "event: progress\ndata: {\"stage\":\"sentiment\"}\n\n"
	if rec.Body.String() != want {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if !rec.Flushed {
		t.Fatal("expected flush")
	}
}

type plainWriter struct {
	header http.Header
}

func (p *plainWriter) Header() http.Header         { return p.header }
func (p *plainWriter) Write(b []byte) (int, error) { return len(b), nil }
func (p *plainWriter) WriteHeader(int)             {}

func TestSSEWriterRequiresFlusher(t *testing.T) {
	if _, err := NewSSEWriter(&plainWriter{header: http.Header{}}); err != ErrStreamingUnsupported {
		t.Fatalf("expected ErrStreamingUnsupported, got %v", err)
	}
}

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	if err := RespondError(rec, http.StatusBadRequest, "No input provided"); err != nil {
		t.Fatalf("RespondError err: %v", err)
	}

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != "{\"error\":\"No input provided\"}\n" {
		t.Fatalf("unexpected body %q", got)
	}
}
