package gif

import (
	"context"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/zhouzirui/yaros-chat/backend/internal/analysis/emotion"
)

// resultLimit 每次只取一张图。
const resultLimit = 1

// Outcome separates "no GIF wanted" from "GIF wanted but lookup degraded".
// URL is empty in both cases; Degraded and Err tell them apart.
type Outcome struct {
	Mood     emotion.Mood
	URL      string
	Offset   int
	Degraded bool
	Err      error
}

// URLPtr returns the URL for JSON encoding, nil when there is none.
func (o Outcome) URLPtr() *string {
	if o.URL == "" {
		return nil
	}
	u := o.URL
	return &u
}

// Service picks a GIF that matches the mood of a sentiment score.
type Service struct {
	searcher  Searcher
	maxOffset int
	intn      func(n int) int
	logger    *zap.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithRandom replaces the offset source; intn must return a value in [0, n).
func WithRandom(intn func(n int) int) Option {
	return func(s *Service) {
		s.intn = intn
	}
}

// NewService creates the mood GIF lookup. Offsets are drawn uniformly from [0, maxOffset).
func NewService(searcher Searcher, maxOffset int, logger *zap.Logger, opts ...Option) *Service {
	if maxOffset < 1 {
		maxOffset = 1
	}
	s := &Service{
		searcher:  searcher,
		maxOffset: maxOffset,
		intn:      rand.IntN,
		logger:    logger.Named("gif"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForScore 根据情感得分查找 GIF。该步骤只是装饰，任何失败都降级为无 GIF，从不返回错误。
func (s *Service) ForScore(ctx context.Context, score float64) Outcome {
	mood, ok := emotion.ClassifyMood(score)
	if !ok {
		return Outcome{}
	}

	outcome := Outcome{Mood: mood, Offset: s.intn(s.maxOffset)}

	url, err := s.searcher.Search(ctx, string(mood), resultLimit, outcome.Offset)
	if err != nil {
		s.logger.Warn("error fetching gif, continuing without one",
			zap.String("mood", string(mood)),
			zap.Int("offset", outcome.Offset),
			zap.Error(err))
		outcome.Degraded = true
		outcome.Err = err
		return outcome
	}

	outcome.URL = url
	return outcome
}
