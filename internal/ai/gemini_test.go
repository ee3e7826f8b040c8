package ai

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestConvertSchema(t *testing.T) {
	schema, err := convertSchema(map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"score":      map[string]any{"type": "integer", "minimum": 1, "maximum": 10},
			"complexity": map[string]any{"type": "string", "enum": []string{"Low", "High"}},
			"risks":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"score", "complexity"},
	})
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if schema.Type != genai.TypeObject {
		t.Fatalf("expected object got %v", schema.Type)
	}
	if len(schema.Required) != 2 || schema.Required[0] != "score" {
		t.Fatalf("unexpected required %v", schema.Required)
	}
	if schema.Properties["score"].Type != genai.TypeInteger {
		t.Fatalf("expected integer score got %v", schema.Properties["score"].Type)
	}
	if got := schema.Properties["complexity"].Enum; len(got) != 2 || got[1] != "High" {
		t.Fatalf("unexpected enum %v", got)
	}
	risks := schema.Properties["risks"]
	if risks.Type != genai.TypeArray || risks.Items == nil || risks.Items.Type != genai.TypeString {
		t.Fatalf("unexpected risks schema %+v", risks)
	}
}

func TestConvertSchemaRejectsUnknownType(t *testing.T) {
	if _, err := convertSchema(map[string]any{"type": "object", "properties": map[string]any{"x": map[string]any{"type": "date"}}}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := convertSchema(nil); err == nil {
		t.Fatalf("expected error for empty schema")
	}
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"a":`), genai.Text(`1}`)}},
		}},
	}
	if got := responseText(resp); got != `{"a":1}` {
		t.Fatalf("expected joined text got %q", got)
	}
	if got := responseText(&genai.GenerateContentResponse{}); got != "" {
		t.Fatalf("expected empty text got %q", got)
	}
	if got := responseText(nil); got != "" {
		t.Fatalf("expected empty text got %q", got)
	}
}
