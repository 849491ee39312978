package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/sentiment"
)

// LLMAnalyzer 使用大模型给出与 Cloud Natural Language 同形的情感得分。
type LLMAnalyzer struct {
	classifier compose.Runnable[map[string]any, *schema.Message]
}

// NewLLMAnalyzer compiles the scoring chain over chatModel.
func NewLLMAnalyzer(ctx context.Context, chatModel model.ChatModel) (*LLMAnalyzer, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(sentimentSystemPrompt),
		schema.UserMessage(sentimentUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile sentiment chain: %w", err)
	}

	return &LLMAnalyzer{classifier: runnable}, nil
}

// Analyze implements Analyzer.
func (a *LLMAnalyzer) Analyze(ctx context.Context, text string) (sentiment.Result, error) {
	msg, err := a.classifier.Invoke(ctx, map[string]any{"text": strings.TrimSpace(text)})
	if err != nil {
		return sentiment.Result{}, fmt.Errorf("failed to run sentiment chain: %w", err)
	}
	if msg == nil {
		return sentiment.Result{}, fmt.Errorf("sentiment chain returned no message")
	}

	return parseScoreOutput(msg.Content)
}

type scorePayload struct {
	Score     *float64 `json:"score"`
	Magnitude *float64 `json:"magnitude"`
}

// parseScoreOutput 解析大模型返回的 JSON，容忍前后多余文本。
func parseScoreOutput(content string) (sentiment.Result, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return sentiment.Result{}, fmt.Errorf("missing json object in %q", trimmed)
	}

	var payload scorePayload
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return sentiment.Result{}, err
	}
	if payload.Score == nil {
		return sentiment.Result{}, fmt.Errorf("score field missing")
	}

	magnitude := math.Abs(*payload.Score)
	if payload.Magnitude != nil {
		magnitude = math.Max(0, *payload.Magnitude)
	}

	return sentiment.Result{
		Score:     math.Max(-1, math.Min(1, *payload.Score)),
		Magnitude: magnitude,
	}, nil
}

const sentimentSystemPrompt = "You are a sentiment analysis engine. Read the user's text and rate its overall emotional tone.\n" +
	"Respond with a single JSON object and nothing else. It has two numeric fields: score, between -1.0 (very negative) and 1.0 (very positive), " +
	"and magnitude, a non-negative number for how much emotion the text carries overall (0 for flat text, larger for longer or more intense text)."

const sentimentUserPrompt = "Text:\n{text}"
