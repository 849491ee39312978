package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/config"
	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
)

// API is the subset of the OpenAI assistants endpoints the chat workflow uses.
// *openai.Client satisfies it.
type API interface {
	CreateThread(ctx context.Context, request openai.ThreadRequest) (openai.Thread, error)
	CreateMessage(ctx context.Context, threadID string, request openai.MessageRequest) (openai.Message, error)
	CreateRun(ctx context.Context, threadID string, request openai.RunRequest) (openai.Run, error)
	RetrieveRun(ctx context.Context, threadID string, runID string) (openai.Run, error)
	ListMessage(ctx context.Context, threadID string, limit *int, order *string, after *string, before *string, runID *string) (openai.MessagesList, error)
}

var _ API = (*openai.Client)(nil)

// errRunPending marks a poll that saw a non-terminal status.
var errRunPending = errors.New("run pending")

const (
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxAttempts  = 120
)

// StatusFunc receives every run status observed while polling.
type StatusFunc func(status openai.RunStatus)

// NewClient builds the OpenAI client from configuration.
func NewClient(cfg config.AssistantConfig) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

// Service 封装助手服务的 thread / message / run 调用。
type Service struct {
	api          API
	assistantID  string
	pollInterval time.Duration
	maxAttempts  int
	runTimeout   time.Duration
	logger       *zap.Logger
}

// NewService creates the assistant workflow over api.
func NewService(api API, cfg config.AssistantConfig, logger *zap.Logger) *Service {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	attempts := cfg.PollMaxAttempts
	if attempts < 1 {
		attempts = defaultMaxAttempts
	}

	return &Service{
		api:          api,
		assistantID:  cfg.AssistantID,
		pollInterval: interval,
		maxAttempts:  attempts,
		runTimeout:   cfg.RunTimeout,
		logger:       logger.Named("assistant"),
	}
}

// EnsureThread returns the conversation's thread, creating it on first use.
// Concurrent callers on the same conversation share a single creation.
func (s *Service) EnsureThread(ctx context.Context, conv *chat.Conversation) (string, error) {
	threadID, created, err := conv.Provision(func() (string, error) {
		thread, err := s.api.CreateThread(ctx, openai.ThreadRequest{})
		if err != nil {
			return "", err
		}
		return thread.ID, nil
	})
	if err != nil {
		s.logger.Error("error creating thread", zap.String("conversation_id", conv.ID), zap.Error(err))
		return "", fmt.Errorf("create thread: %w", err)
	}

	if created {
		s.logger.Info("thread created", zap.String("conversation_id", conv.ID), zap.String("thread_id", threadID))
	}
	return threadID, nil
}

// PostMessage appends a user message to the thread and returns its id.
func (s *Service) PostMessage(ctx context.Context, threadID, text string) (string, error) {
	msg, err := s.api.CreateMessage(ctx, threadID, openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: text,
	})
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}
	return msg.ID, nil
}

// StartRun starts the configured assistant on the thread and returns the run id.
func (s *Service) StartRun(ctx context.Context, threadID string) (string, error) {
	run, err := s.api.CreateRun(ctx, threadID, openai.RunRequest{AssistantID: s.assistantID})
	if err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}
	return run.ID, nil
}

// WaitForRun polls the run at a fixed interval until it leaves queued/in_progress.
// The wait is bounded by the attempt budget, the run timeout and ctx.
func (s *Service) WaitForRun(ctx context.Context, threadID, runID string, onStatus StatusFunc) (openai.RunStatus, error) {
	pollCtx := ctx
	if s.runTimeout > 0 {
		var cancel context.CancelFunc
		pollCtx, cancel = context.WithTimeout(ctx, s.runTimeout)
		defer cancel()
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(s.pollInterval), uint64(s.maxAttempts-1)),
		pollCtx,
	)

	fetches := 0
	status, err := backoff.RetryWithData(func() (openai.RunStatus, error) {
		fetches++
		run, err := s.api.RetrieveRun(pollCtx, threadID, runID)
		if err != nil {
			return "", backoff.Permanent(fmt.Errorf("retrieve run: %w", err))
		}
		if onStatus != nil {
			onStatus(run.Status)
		}

		switch run.Status {
		case openai.RunStatusQueued, openai.RunStatusInProgress:
			return run.Status, errRunPending
		case openai.RunStatusCompleted:
			return run.Status, nil
		default:
			return run.Status, backoff.Permanent(newRunError(run))
		}
	}, policy)

	s.logger.Debug("run poll finished",
		zap.String("thread_id", threadID),
		zap.String("run_id", runID),
		zap.String("status", string(status)),
		zap.Int("fetches", fetches))

	var runErr *RunError
	switch {
	case err == nil:
		return status, nil
	case errors.As(err, &runErr):
		return status, err
	case errors.Is(err, errRunPending):
		return status, fmt.Errorf("%w: run %s still %s after %d polls", ErrRunTimedOut, runID, status, fetches)
	case ctx.Err() != nil:
		return status, ctx.Err()
	case pollCtx.Err() != nil:
		return status, fmt.Errorf("%w: run %s exceeded %s", ErrRunTimedOut, runID, s.runTimeout)
	default:
		return status, err
	}
}

// ReplyAfter returns the first text content of the first message posted after messageID.
func (s *Service) ReplyAfter(ctx context.Context, threadID, messageID string) (string, error) {
	order := "asc"
	after := messageID
	list, err := s.api.ListMessage(ctx, threadID, nil, &order, &after, nil, nil)
	if err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}

	if len(list.Messages) == 0 {
		return "", ErrEmptyReply
	}
	first := list.Messages[0]
	if len(first.Content) == 0 || first.Content[0].Text == nil {
		return "", ErrEmptyReply
	}
	return first.Content[0].Text.Value, nil
}
