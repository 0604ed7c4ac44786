package interview

import "github.com/Kiko915/techterview-mainapp-sub001/internal/llm"

// FeedbackSchema constrains the evaluator's output. Feedback is persisted
// only when the whole object validates; a partial object is never stored.
var FeedbackSchema = &llm.Schema{
	Name:        "interview-feedback",
	Description: "Structured evaluation of a finished mock interview",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     100,
				"description": "Overall interview performance from 0 to 100",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "Two or three sentence overall assessment",
			},
			"strengths": map[string]any{
				"type":        "array",
				"minItems":    3,
				"maxItems":    5,
				"items":       map[string]any{"type": "string"},
				"description": "Specific things the candidate did well",
			},
			"improvements": map[string]any{
				"type":        "array",
				"minItems":    3,
				"maxItems":    5,
				"items":       map[string]any{"type": "string"},
				"description": "Specific areas the candidate should work on",
			},
		},
		"required":             []any{"score", "summary", "strengths", "improvements"},
		"additionalProperties": false,
	},
}
