package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/chat"
	"github.com/zhouzirui/yaros-chat/backend/internal/model/sentiment"
	"github.com/zhouzirui/yaros-chat/backend/internal/service/assistant"
	"github.com/zhouzirui/yaros-chat/backend/internal/service/gif"
)

// ErrEmptyPrompt is returned before any collaborator is called.
var ErrEmptyPrompt = errors.New("prompt is required")

// SentimentAnalyzer scores the user's text.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (sentiment.Result, error)
}

// GifFinder picks a decorative GIF for a score. It never fails.
type GifFinder interface {
	ForScore(ctx context.Context, score float64) gif.Outcome
}

// Assistant drives one thread/message/run round trip.
type Assistant interface {
	EnsureThread(ctx context.Context, conv *chat.Conversation) (string, error)
	PostMessage(ctx context.Context, threadID, text string) (string, error)
	StartRun(ctx context.Context, threadID string) (string, error)
	WaitForRun(ctx context.Context, threadID, runID string, onStatus assistant.StatusFunc) (openai.RunStatus, error)
	ReplyAfter(ctx context.Context, threadID, messageID string) (string, error)
}

// Observer receives progress events while a prompt is processed. It is called
// synchronously from the request goroutine.
type Observer func(event chat.Event)

// Service 串联情感分析、GIF 与助手调用，产出一次聊天回复。
type Service struct {
	sentiment SentimentAnalyzer
	gifs      GifFinder
	assistant Assistant
	logger    *zap.Logger
}

// NewService wires the chat workflow.
func NewService(analyzer SentimentAnalyzer, gifs GifFinder, asst Assistant, logger *zap.Logger) *Service {
	return &Service{
		sentiment: analyzer,
		gifs:      gifs,
		assistant: asst,
		logger:    logger.Named("chat"),
	}
}

// Chat runs the workflow for one prompt.
func (s *Service) Chat(ctx context.Context, conv *chat.Conversation, prompt string) (*chat.Reply, error) {
	return s.ChatWithProgress(ctx, conv, prompt, nil)
}

// ChatWithProgress runs the workflow and reports each step to observe.
// Steps run strictly in order: sentiment, gif, thread, message, run, reply.
func (s *Service) ChatWithProgress(ctx context.Context, conv *chat.Conversation, prompt string, observe Observer) (*chat.Reply, error) {
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}
	emit := func(stage chat.Stage, status string, detail any) {
		if observe != nil {
			observe(chat.Event{Stage: stage, Status: status, Detail: detail})
		}
	}

	result, err := s.sentiment.Analyze(ctx, prompt)
	if err != nil {
		return nil, s.fail(conv, chat.StageSentiment, err)
	}
	emit(chat.StageSentiment, "done", result)

	outcome := s.gifs.ForScore(ctx, result.Score)
	switch {
	case outcome.Degraded:
		emit(chat.StageGif, "degraded", nil)
	case outcome.Mood == "":
		emit(chat.StageGif, "skipped", nil)
	default:
		emit(chat.StageGif, "done", outcome.URL)
	}

	threadID, err := s.assistant.EnsureThread(ctx, conv)
	if err != nil {
		return nil, s.fail(conv, chat.StageThread, err)
	}
	emit(chat.StageThread, "ready", nil)

	messageID, err := s.assistant.PostMessage(ctx, threadID, prompt)
	if err != nil {
		return nil, s.fail(conv, chat.StageMessage, err)
	}
	emit(chat.StageMessage, "posted", nil)

	runID, err := s.assistant.StartRun(ctx, threadID)
	if err != nil {
		return nil, s.fail(conv, chat.StageRun, err)
	}

	status, err := s.assistant.WaitForRun(ctx, threadID, runID, func(status openai.RunStatus) {
		emit(chat.StageRun, string(status), nil)
	})
	if err != nil {
		return nil, s.fail(conv, chat.StageRun, err)
	}

	text, err := s.assistant.ReplyAfter(ctx, threadID, messageID)
	if err != nil {
		return nil, s.fail(conv, chat.StageReply, err)
	}
	emit(chat.StageReply, "done", nil)

	s.logger.Info("chat completed",
		zap.String("conversation_id", conv.ID),
		zap.String("thread_id", threadID),
		zap.String("run_id", runID),
		zap.String("run_status", string(status)),
		zap.Bool("gif", outcome.URL != ""))

	return &chat.Reply{
		AssistantResponse: text,
		Sentiment:         result,
		GifURL:            outcome.URLPtr(),
	}, nil
}

func (s *Service) fail(conv *chat.Conversation, stage chat.Stage, err error) error {
	s.logger.Error("error interacting with assistant",
		zap.String("conversation_id", conv.ID),
		zap.String("stage", string(stage)),
		zap.Error(err))
	return fmt.Errorf("%s: %w", stage, err)
}
