package sentiment

import (
	"context"

	"github.com/zhouzirui/yaros-chat/backend/internal/analysis/emotion"
	"github.com/zhouzirui/yaros-chat/backend/internal/model/sentiment"
)

// LexiconAnalyzer scores text offline with the keyword heuristics.
type LexiconAnalyzer struct{}

// Analyze implements Analyzer.
func (LexiconAnalyzer) Analyze(ctx context.Context, text string) (sentiment.Result, error) {
	if err := ctx.Err(); err != nil {
		return sentiment.Result{}, err
	}
	return emotion.Analyze(text), nil
}
