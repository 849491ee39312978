package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
)

// UnknownErrorMessage is shown when the server gave no error text.
const UnknownErrorMessage = "An unknown error occurred"

// promptTimeLayout 与浏览器 toLocaleString 的 en-US 输出一致。
const promptTimeLayout = "1/2/2006, 3:04:05 PM"

var (
	// ErrEmptyInput is returned without contacting the server.
	ErrEmptyInput = errors.New("input is empty")
	// ErrBusy is returned while a previous submission is in flight.
	ErrBusy = errors.New("a message is already being sent")
)

// State 界面状态
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Sender posts a prompt to the backend.
type Sender interface {
	Chat(ctx context.Context, prompt string) (*chat.Reply, error)
}

// StampPrompt prefixes text with the local date and time, as the assistant expects.
func StampPrompt(now time.Time, text string) string {
	return fmt.Sprintf("Current date and time: %s. User query: %s", now.Format(promptTimeLayout), text)
}

// Session 保存一次终端会话的状态和对话记录。
type Session struct {
	sender Sender
	now    func() time.Time

	mu      sync.Mutex
	state   State
	draft   string
	errMsg  string
	history []chat.Turn
}

// SessionOption customises a Session.
type SessionOption func(*Session)

// WithClock overrides the clock used to stamp prompts.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession returns an idle session with an empty transcript.
func NewSession(sender Sender, opts ...SessionOption) *Session {
	s := &Session{sender: sender, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit sends input and appends the resulting turn. On failure the input is
// kept as the draft and the error message is recorded; the session is always
// ready for another submission afterwards.
func (s *Session) Submit(ctx context.Context, input string) (chat.Turn, error) {
	if input == "" {
		return chat.Turn{}, ErrEmptyInput
	}

	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return chat.Turn{}, ErrBusy
	}
	s.state = StateSubmitting
	s.draft = input
	s.errMsg = ""
	now := s.now()
	s.mu.Unlock()

	reply, err := s.sender.Chat(ctx, StampPrompt(now.Local(), input))

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateError
		s.errMsg = errorMessage(err)
		return chat.Turn{}, err
	}

	turn := chat.Turn{
		User:      input,
		Assistant: reply.AssistantResponse,
		Gif:       reply.GifURL,
		At:        now,
	}
	s.history = append(s.history, turn)
	s.draft = ""
	s.state = StateIdle
	return turn, nil
}

// State reports the current UI state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns the input kept after a failed submission.
func (s *Session) Draft() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// ErrorMessage returns the text to display for the last failure, or "".
func (s *Session) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// History returns a copy of the transcript, oldest first.
func (s *Session) History() []chat.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]chat.Turn(nil), s.history...)
}

func errorMessage(err error) string {
	var serverErr *ServerError
	if errors.As(err, &serverErr) && serverErr.Message != "" {
		return serverErr.Message
	}
	return UnknownErrorMessage
}
