package sentiment

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/config"
	"github.com/zhouzirui/yaros-chat/backend/internal/model/sentiment"
)

// Analyzer scores the emotional tone of a piece of text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (sentiment.Result, error)
}

// Service 是带诊断日志的情感分析入口，内部委托给具体实现。
type Service struct {
	provider string
	analyzer Analyzer
	closer   io.Closer
	logger   *zap.Logger
}

// NewService wraps an analyzer with the diagnostic log line every lookup emits.
func NewService(provider string, analyzer Analyzer, logger *zap.Logger) *Service {
	return &Service{
		provider: provider,
		analyzer: analyzer,
		logger:   logger.Named("sentiment"),
	}
}

// New 根据配置选择情感分析实现：google（默认）、ark 或 lexicon。
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Service, error) {
	switch cfg.Sentiment.Provider {
	case config.SentimentProviderGoogle:
		analyzer, err := NewGoogleAnalyzer(ctx, cfg.Sentiment.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create natural language client: %w", err)
		}
		svc := NewService(cfg.Sentiment.Provider, analyzer, logger)
		svc.closer = analyzer
		return svc, nil
	case config.SentimentProviderArk:
		chatModel, err := cfg.AI.NewChatModel(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		analyzer, err := NewLLMAnalyzer(ctx, chatModel)
		if err != nil {
			return nil, err
		}
		return NewService(cfg.Sentiment.Provider, analyzer, logger), nil
	case config.SentimentProviderLexicon:
		return NewService(cfg.Sentiment.Provider, LexiconAnalyzer{}, logger), nil
	default:
		return nil, fmt.Errorf("unknown sentiment provider %q", cfg.Sentiment.Provider)
	}
}

// Analyze scores text. Errors from the provider are returned unchanged apart from wrapping.
func (s *Service) Analyze(ctx context.Context, text string) (sentiment.Result, error) {
	result, err := s.analyzer.Analyze(ctx, text)
	if err != nil {
		s.logger.Error("sentiment analysis failed", zap.String("provider", s.provider), zap.Error(err))
		return sentiment.Result{}, fmt.Errorf("sentiment analysis (%s): %w", s.provider, err)
	}

	s.logger.Info("sentiment analysis",
		zap.String("provider", s.provider),
		zap.Float64("score", result.Score),
		zap.Float64("magnitude", result.Magnitude))
	return result, nil
}

// Provider returns the configured provider name.
func (s *Service) Provider() string {
	return s.provider
}

// Close releases the underlying client, if any.
func (s *Service) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
