// Package assistanttest provides an in-memory assistants API for tests.
package assistanttest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Method names accepted by FakeAPI.Calls.
const (
	CreateThread  = "CreateThread"
	CreateMessage = "CreateMessage"
	CreateRun     = "CreateRun"
	RetrieveRun   = "RetrieveRun"
	ListMessage   = "ListMessage"
)

// ListCall records the arguments of a ListMessage call.
type ListCall struct {
	ThreadID string
	Order    string
	After    string
}

// FakeAPI scripts the assistants endpoints. Statuses are returned in order by
// RetrieveRun; the last one repeats once the script is exhausted.
type FakeAPI struct {
	Statuses  []openai.RunStatus
	Reply     string
	NoReply   bool
	LastError *openai.RunLastError

	// ThreadDelay slows CreateThread down to widen race windows.
	ThreadDelay time.Duration

	Errors map[string]error

	mu       sync.Mutex
	calls    map[string]int
	threads  int
	messages []openai.MessageRequest
	lists    []ListCall
}

// NewFakeAPI returns a fake whose runs go queued → in_progress → completed.
func NewFakeAPI(reply string) *FakeAPI {
	return &FakeAPI{
		Statuses: []openai.RunStatus{openai.RunStatusQueued, openai.RunStatusInProgress, openai.RunStatusCompleted},
		Reply:    reply,
		Errors:   map[string]error{},
		calls:    map[string]int{},
	}
}

// Calls returns how many times method was invoked.
func (f *FakeAPI) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls sums calls across every method.
func (f *FakeAPI) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

// Messages returns the posted message requests.
func (f *FakeAPI) Messages() []openai.MessageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]openai.MessageRequest(nil), f.messages...)
}

// Lists returns the recorded ListMessage arguments.
func (f *FakeAPI) Lists() []ListCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ListCall(nil), f.lists...)
}

func (f *FakeAPI) record(method string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[method]++
	return f.Errors[method]
}

func (f *FakeAPI) CreateThread(ctx context.Context, _ openai.ThreadRequest) (openai.Thread, error) {
	if err := f.record(CreateThread); err != nil {
		return openai.Thread{}, err
	}
	if f.ThreadDelay > 0 {
		select {
		case <-time.After(f.ThreadDelay):
		case <-ctx.Done():
			return openai.Thread{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.threads++
	return openai.Thread{ID: fmt.Sprintf("thread_%d", f.threads)}, nil
}

func (f *FakeAPI) CreateMessage(_ context.Context, threadID string, request openai.MessageRequest) (openai.Message, error) {
	if err := f.record(CreateMessage); err != nil {
		return openai.Message{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, request)
	return openai.Message{ID: fmt.Sprintf("msg_%d", len(f.messages)), ThreadID: threadID, Role: request.Role}, nil
}

func (f *FakeAPI) CreateRun(_ context.Context, threadID string, request openai.RunRequest) (openai.Run, error) {
	if err := f.record(CreateRun); err != nil {
		return openai.Run{}, err
	}
	return openai.Run{ID: "run_" + threadID, ThreadID: threadID, AssistantID: request.AssistantID, Status: openai.RunStatusQueued}, nil
}

func (f *FakeAPI) RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error) {
	if err := ctx.Err(); err != nil {
		return openai.Run{}, err
	}
	if err := f.record(RetrieveRun); err != nil {
		return openai.Run{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	status := openai.RunStatusCompleted
	if len(f.Statuses) > 0 {
		idx := f.calls[RetrieveRun] - 1
		if idx >= len(f.Statuses) {
			idx = len(f.Statuses) - 1
		}
		status = f.Statuses[idx]
	}

	run := openai.Run{ID: runID, ThreadID: threadID, Status: status}
	if status != openai.RunStatusCompleted {
		run.LastError = f.LastError
	}
	return run, nil
}

func (f *FakeAPI) ListMessage(_ context.Context, threadID string, _ *int, order *string, after *string, _ *string, _ *string) (openai.MessagesList, error) {
	if err := f.record(ListMessage); err != nil {
		return openai.MessagesList{}, err
	}

	call := ListCall{ThreadID: threadID}
	if order != nil {
		call.Order = *order
	}
	if after != nil {
		call.After = *after
	}

	f.mu.Lock()
	f.lists = append(f.lists, call)
	f.mu.Unlock()

	if f.NoReply {
		return openai.MessagesList{}, nil
	}
	return openai.MessagesList{Messages: []openai.Message{{
		ID:       "msg_reply",
		ThreadID: threadID,
		Role:     openai.ChatMessageRoleAssistant,
		Content: []openai.MessageContent{{
			Type: "text",
			Text: &openai.MessageText{Value: f.Reply},
		}},
	}}}, nil
}
