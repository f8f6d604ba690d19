package llm

import (
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.0-flash"},
		{"gemini-pro", "gemini-2.0-pro"},
		{"gemini-2.5-flash", "gemini-2.5-flash"}, // pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{"type": "string"},
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question":   map[string]any{"type": "string"},
						"options":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 4, "maxItems": 4},
						"pageNumber": map[string]any{"type": "integer"},
						"confidence": map[string]any{"type": "number"},
					},
					"required": []any{"question", "options"},
				},
			},
		},
		"required": []any{"title", "questions"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != "OBJECT" {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(schema.Properties))
	}
	questions := schema.Properties["questions"]
	if questions.Type != "ARRAY" {
		t.Fatalf("expected ARRAY for questions, got %s", questions.Type)
	}
	item := questions.Items
	if item.Type != "OBJECT" {
		t.Fatalf("expected OBJECT items, got %s", item.Type)
	}
	if item.Properties["pageNumber"].Type != "INTEGER" {
		t.Fatalf("expected INTEGER for pageNumber, got %s", item.Properties["pageNumber"].Type)
	}
	if item.Properties["confidence"].Type != "NUMBER" {
		t.Fatalf("expected NUMBER for confidence, got %s", item.Properties["confidence"].Type)
	}
	options := item.Properties["options"]
	if options.MinItems == nil || *options.MinItems != 4 {
		t.Fatalf("expected minItems 4, got %v", options.MinItems)
	}
	if options.MaxItems == nil || *options.MaxItems != 4 {
		t.Fatalf("expected maxItems 4, got %v", options.MaxItems)
	}
	if len(item.Required) != 2 {
		t.Fatalf("expected 2 required item fields, got %d", len(item.Required))
	}
}
