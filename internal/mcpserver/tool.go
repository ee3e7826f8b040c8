package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"validateai/backend/internal/scoring"
)

// IdeaScorer is the part of scoring.Scorer the tool needs.
type IdeaScorer interface {
	Score(ctx context.Context, body any) (scoring.Result, error)
}

// ScoreTool exposes idea scoring as the score_idea MCP tool.
type ScoreTool struct {
	scorer IdeaScorer
}

func NewScoreTool(scorer IdeaScorer) *ScoreTool {
	return &ScoreTool{scorer: scorer}
}

// Definition returns the MCP tool definition for registration.
func (t *ScoreTool) Definition() mcp.Tool {
	return mcp.NewTool("score_idea",
		mcp.WithDescription(
			"Score an early-stage product idea from 1 to 10 for a solo developer MVP. "+
				"Returns JSON with score_out_of_10, complexity, summary, risks, costs_effort, "+
				"verdict and iteration_delta.",
		),
		mcp.WithString("idea",
			mcp.Required(),
			mcp.Description("The idea to evaluate, in plain language."),
		),
		mcp.WithNumber("previous_score",
			mcp.Description("Score of the previous iteration of this idea; enables iteration_delta."),
		),
	)
}

// Handle runs the scoring pipeline on the tool arguments. Scoring failures are
// reported as tool errors, not protocol errors.
func (t *ScoreTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := t.scorer.Score(ctx, req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(payload)), nil
}
