package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScoreOutput(t *testing.T) {
	result, err := parseScoreOutput("Sure! {\"score\": 0.7, \"magnitude\": 1.4}")
	require.NoError(t, err)
	assert.Equal(t, 0.7, result.Score)
	assert.Equal(t, 1.4, result.Magnitude)
}

func TestParseScoreOutputClampsAndDefaults(t *testing.T) {
	result, err := parseScoreOutput(`{"score": -3}`)
	require.NoError(t, err)
	assert.Equal(t, -1.0, result.Score)
	assert.Equal(t, 3.0, result.Magnitude)

	result, err = parseScoreOutput(`{"score": 0.2, "magnitude": -1}`)
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Magnitude)
}

func TestParseScoreOutputRejectsGarbage(t *testing.T) {
	for _, content := range []string{"", "no json here", `{"magnitude": 1}`, `{"score": "high"}`} {
		_, err := parseScoreOutput(content)
		assert.Error(t, err, content)
	}
}
