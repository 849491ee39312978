package emotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyMoodStrictThresholds(t *testing.T) {
	cases := []struct {
		score float64
		mood  Mood
		ok    bool
	}{
		{score: 0.5, mood: Happy, ok: true},
		{score: 0.1000001, mood: Happy, ok: true},
		{score: 0.1, ok: false},
		{score: 0, ok: false},
		{score: -0.1, ok: false},
		{score: -0.1000001, mood: Comforting, ok: true},
		{score: -0.9, mood: Comforting, ok: true},
	}

	for _, tc := range cases {
		mood, ok := ClassifyMood(tc.score)
		assert.Equal(t, tc.ok, ok, "score %v", tc.score)
		assert.Equal(t, tc.mood, mood, "score %v", tc.score)
	}
}

func TestAnalyzePositiveText(t *testing.T) {
	result := Analyze("I love this, it is great!")
	assert.Greater(t, result.Score, MoodThreshold)
	assert.Greater(t, result.Magnitude, 0.0)
}

func TestAnalyzeNegativeText(t *testing.T) {
	result := Analyze("我今天很难过，也很累")
	assert.Less(t, result.Score, -MoodThreshold)
}

func TestAnalyzeNegationFlipsPolarity(t *testing.T) {
	result := Analyze("I am not happy")
	assert.Less(t, result.Score, 0.0)
}

func TestAnalyzeNeutralText(t *testing.T) {
	assert.Equal(t, 0.0, Analyze("").Score)
	result := Analyze("The meeting is at ten")
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0.0, result.Magnitude)
}

func TestAnalyzeWordBoundaries(t *testing.T) {
	result := Analyze("my badge number")
	assert.Equal(t, 0.0, result.Magnitude)
}

func TestAnalyzeScoreStaysInRange(t *testing.T) {
	result := Analyze("great great great awesome amazing love love wonderful!!!")
	assert.LessOrEqual(t, result.Score, 1.0)
	assert.GreaterOrEqual(t, result.Score, -1.0)
}

func TestAnalyzeNegationPerOccurrence(t *testing.T) {
	cases := []struct {
		text  string
		score float64
	}{
		{text: "i am not bad", score: 0.5},
		{text: "my badge is fine and i am not bad", score: 0.5},
		{text: "good news, but i am not good", score: 0},
		{text: "bad, bad, not bad", score: -0.25},
		{text: "我不开心", score: -0.5},
	}

	for _, tc := range cases {
		result := Analyze(tc.text)
		assert.Equal(t, tc.score, result.Score, "text %q", tc.text)
	}
}

func TestCountTermSplitsNegatedHits(t *testing.T) {
	plain, flipped := countTerm("good news, but i am not good", "good")
	assert.Equal(t, 1, plain)
	assert.Equal(t, 1, flipped)

	plain, flipped = countTerm("my badge is not bad", "bad")
	assert.Equal(t, 0, plain)
	assert.Equal(t, 1, flipped)

	plain, flipped = countTerm("cannot stand it", "not")
	assert.Equal(t, 0, plain+flipped)
}
