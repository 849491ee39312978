package sentiment

import (
	"context"
	"errors"
	"math"

	language "cloud.google.com/go/language/apiv1"
	"cloud.google.com/go/language/apiv1/languagepb"
	"google.golang.org/api/option"

	"github.com/zhouzirui/yaros-chat/backend/internal/model/sentiment"
)

type analyzeSentimentFunc func(ctx context.Context, req *languagepb.AnalyzeSentimentRequest) (*languagepb.AnalyzeSentimentResponse, error)

// GoogleAnalyzer calls Cloud Natural Language analyzeSentiment on a plain-text document.
type GoogleAnalyzer struct {
	analyze analyzeSentimentFunc
	close   func() error
}

// NewGoogleAnalyzer dials the Natural Language API. An empty credentialsFile falls back to
// application default credentials.
func NewGoogleAnalyzer(ctx context.Context, credentialsFile string) (*GoogleAnalyzer, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := language.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return &GoogleAnalyzer{
		analyze: func(ctx context.Context, req *languagepb.AnalyzeSentimentRequest) (*languagepb.AnalyzeSentimentResponse, error) {
			return client.AnalyzeSentiment(ctx, req)
		},
		close: client.Close,
	}, nil
}

// Analyze implements Analyzer.
func (g *GoogleAnalyzer) Analyze(ctx context.Context, text string) (sentiment.Result, error) {
	resp, err := g.analyze(ctx, &languagepb.AnalyzeSentimentRequest{
		Document: &languagepb.Document{
			Source: &languagepb.Document_Content{Content: text},
			Type:   languagepb.Document_PLAIN_TEXT,
		},
	})
	if err != nil {
		return sentiment.Result{}, err
	}

	doc := resp.GetDocumentSentiment()
	if doc == nil {
		return sentiment.Result{}, errors.New("natural language response carried no document sentiment")
	}

	return sentiment.Result{
		Score:     roundFloat32(doc.GetScore()),
		Magnitude: roundFloat32(doc.GetMagnitude()),
	}, nil
}

// Close implements io.Closer.
func (g *GoogleAnalyzer) Close() error {
	if g.close == nil {
		return nil
	}
	return g.close()
}

// roundFloat32 trims float32 noise (0.5 stays 0.5, 0.3 does not become 0.30000001192).
func roundFloat32(v float32) float64 {
	return math.Round(float64(v)*1e6) / 1e6
}
