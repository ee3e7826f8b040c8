package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"validateai/backend/internal/ai"
	"validateai/backend/internal/scoring"
)

type fakeGenerator struct {
	text string
	err  error
}

func (f fakeGenerator) Generate(ctx context.Context, req ai.StructuredRequest) (string, error) {
	return f.text, f.err
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func call(t *testing.T, gen fakeGenerator, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	tool := NewScoreTool(scoring.NewScorer(gen))
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	return result
}

func TestScoreToolSuccess(t *testing.T) {
	gen := fakeGenerator{text: `{"score_out_of_10":3,"complexity":"High","summary":"Crowded.","risks":[],"costs_effort":[],"verdict":"DON'T BUILD. Primary blocker: no edge."}`}
	result := call(t, gen, map[string]interface{}{"idea": "Another todo app", "previous_score": 5.0})
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}

	var decoded scoring.Result
	if err := json.Unmarshal([]byte(resultText(t, result)), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ScoreOutOf10 != 3 || decoded.IterationDelta == nil || *decoded.IterationDelta != -2 {
		t.Fatalf("unexpected result %+v", decoded)
	}
}

func TestScoreToolErrors(t *testing.T) {
	tests := []struct {
		name     string
		gen      fakeGenerator
		args     map[string]interface{}
		expected string
	}{
		{"missing idea", fakeGenerator{}, map[string]interface{}{}, "Missing idea"},
		{"upstream", fakeGenerator{err: errors.New("gemini request: quota")}, map[string]interface{}{"idea": "x"}, "gemini request: quota"},
		{"empty", fakeGenerator{text: ""}, map[string]interface{}{"idea": "x"}, "AI returned empty output"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := call(t, tc.gen, tc.args)
			if !result.IsError {
				t.Fatalf("expected tool error")
			}
			if got := resultText(t, result); got != tc.expected {
				t.Fatalf("expected %q got %q", tc.expected, got)
			}
		})
	}
}

func TestDefinition(t *testing.T) {
	def := NewScoreTool(nil).Definition()
	if def.Name != "score_idea" {
		t.Fatalf("expected score_idea got %s", def.Name)
	}
	if len(def.InputSchema.Required) != 1 || def.InputSchema.Required[0] != "idea" {
		t.Fatalf("expected idea required got %v", def.InputSchema.Required)
	}
	if _, ok := def.InputSchema.Properties["previous_score"]; !ok {
		t.Fatalf("expected previous_score property")
	}
}
