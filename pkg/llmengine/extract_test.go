package llmengine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractEnvelope_FullBody(t *testing.T) {
	body := `{"thinking":"count orders","sql":"SELECT count(*) FROM orders","chart_type":"bar","echarts_option":{"title":{"text":"x"}}}`

	env, ok := extractEnvelope(body)
	require.True(t, ok)
	assert.Equal(t, "SELECT count(*) FROM orders", env.SQL)
	assert.Equal(t, "bar", env.ChartType)
	assert.Equal(t, "count orders", env.Thinking)
}

func TestExtractEnvelope_FencedCodeBlock(t *testing.T) {
	body := "Here is my answer:\n```json\n{\"thinking\":\"t\",\"sql\":\"SELECT 1\",\"chart_type\":\"line\"}\n```\nthanks"

	env, ok := extractEnvelope(body)
	require.True(t, ok)
	assert.Equal(t, "SELECT 1", env.SQL)
	assert.Equal(t, "line", env.ChartType)
}

func TestExtractEnvelope_BraceSubstring(t *testing.T) {
	body := `sure, {"thinking":"t","sql":"SELECT 2","chart_type":"pie"} hope that helps`

	env, ok := extractEnvelope(body)
	require.True(t, ok)
	assert.Equal(t, "SELECT 2", env.SQL)
	assert.Equal(t, "pie", env.ChartType)
}

func TestExtractEnvelope_Unparseable(t *testing.T) {
	_, ok := extractEnvelope("I cannot help with that.")
	assert.False(t, ok)
}

func TestExtractEnvelope_MissingChartTypeDefaultsToBar(t *testing.T) {
	env, ok := extractEnvelope(`{"sql":"SELECT 1"}`)
	require.True(t, ok)
	assert.Equal(t, "bar", env.ChartType)
}

func TestExtractEnvelope_UnrecognizedChartTypeDefaultsToBar(t *testing.T) {
	env, ok := extractEnvelope(`{"sql":"SELECT 1","chart_type":"scatter"}`)
	require.True(t, ok)
	assert.Equal(t, "bar", env.ChartType)
}

func TestEnvelope_HasQuery(t *testing.T) {
	assert.True(t, Envelope{SQL: "SELECT 1"}.HasQuery())
	assert.False(t, Envelope{}.HasQuery())
}
