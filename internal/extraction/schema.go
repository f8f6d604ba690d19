package extraction

import "github.com/abhisek/pdfquiz/internal/llm"

var (
	strictSchema    = newQuizSchema("quiz-extraction-strict", false)
	augmentedSchema = newQuizSchema("quiz-extraction-augmented", true)
)

// QuizSchema returns the structured-output schema for the given mode.
// Augmented mode pins options to exactly four entries.
func QuizSchema(mode Mode) *llm.Schema {
	if mode == ModeAugmented {
		return augmentedSchema
	}
	return strictSchema
}

func newQuizSchema(name string, fixedOptions bool) *llm.Schema {
	options := map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": "The four answer options, in the order they appear",
	}
	question := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question": map[string]any{
				"type":        "string",
				"description": "The question text",
			},
			"options": options,
			"correctAnswer": map[string]any{
				"type":        "string",
				"description": "Exact text of the correct option, or the not-found sentinel",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Why the answer is correct, from the document, or the not-found sentinel",
			},
			"pageNumber": map[string]any{
				"type":        "number",
				"minimum":     1,
				"description": "Page the question comes from",
			},
			"confidence": map[string]any{
				"type":        "number",
				"minimum":     0,
				"maximum":     1,
				"description": "Extraction certainty from 0 to 1",
			},
		},
		"required": []any{"question", "options", "correctAnswer", "explanation", "pageNumber", "confidence"},
	}
	if fixedOptions {
		options["minItems"] = 4
		options["maxItems"] = 4
		question["additionalProperties"] = false
	}

	return &llm.Schema{
		Name:        name,
		Description: "A multiple-choice quiz extracted from a document",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{
					"type":        "string",
					"description": "Short quiz title",
				},
				"questions": map[string]any{
					"type":  "array",
					"items": question,
				},
			},
			"required": []any{"title", "questions"},
		},
	}
}

// envelopeSchema is the part of the contract a reply must meet before
// individual records are looked at.
var envelopeSchema = &llm.Schema{
	Name:        "quiz-extraction-envelope",
	Description: "Reply envelope",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{"type": "array"},
		},
		"required": []any{"questions"},
	},
}
