package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildSQLGenerationPrompt(t *testing.T) {
	prompt := BuildSQLGenerationPrompt("Who is the most consistent instructor in Q2 2025?", "America/Los_Angeles")

	// Every rule the generator depends on has to be present in the text.
	assert.Contains(t, prompt, "session_ratings")
	assert.Contains(t, prompt, "America/Los_Angeles")
	assert.Contains(t, prompt, "STDDEV")
	assert.Contains(t, prompt, "NULLIF(SUM(responses), 0)")
	assert.Contains(t, prompt, "LAG")
	assert.Contains(t, prompt, "ROUND(AVG(avg_rating)::numeric, 2)")
	assert.Contains(t, prompt, "Who is the most consistent instructor in Q2 2025?")
	assert.Contains(t, prompt, "No explanations, no markdown fences")
}

func TestBuildSummaryPrompt_BoundsRowSample(t *testing.T) {
	rows := make([]map[string]any, 50)
	for i := range rows {
		rows[i] = map[string]any{"instructor": "A", "n": i}
	}

	prompt := BuildSummaryPrompt("How many sessions per instructor?", "SELECT 1", rows, 20)

	assert.Contains(t, prompt, "Result rows (20 of 50)")
	assert.Equal(t, 20, strings.Count(prompt, `"instructor"`))
	assert.Contains(t, prompt, "SELECT 1")
	assert.Contains(t, prompt, "How many sessions per instructor?")
}

func TestBuildSummaryPrompt_SmallResultIncludedWhole(t *testing.T) {
	rows := []map[string]any{
		{"instructor": "Kim Lee", "stddev": 0.12},
	}

	prompt := BuildSummaryPrompt("q", "SELECT 1", rows, 20)
	assert.Contains(t, prompt, "Result rows (1 of 1)")
	assert.Contains(t, prompt, "Kim Lee")
}
