package scoring

import (
	"context"

	"validateai/backend/internal/ai"
)

// Generator is the part of ai.Generator the pipeline needs.
type Generator interface {
	Generate(ctx context.Context, req ai.StructuredRequest) (string, error)
}

// Scorer runs validation, prompting, model invocation, normalization and delta
// computation. It holds no per-request state and is safe for concurrent use.
type Scorer struct {
	generator Generator
}

func NewScorer(generator Generator) *Scorer {
	return &Scorer{generator: generator}
}

// Score validates an untyped request body and scores the idea it carries.
func (s *Scorer) Score(ctx context.Context, body any) (Result, error) {
	req, err := ParseRequest(body)
	if err != nil {
		return Result{}, err
	}
	return s.ScoreRequest(ctx, req)
}

// ScoreRequest scores an already validated request with a single model call.
func (s *Scorer) ScoreRequest(ctx context.Context, req Request) (Result, error) {
	prompt := BuildPrompt(req.Idea)
	text, err := s.generator.Generate(ctx, ai.StructuredRequest{
		SchemaName: SchemaName,
		System:     prompt.System,
		User:       prompt.User,
		Schema:     ResponseSchema(),
	})
	if err != nil {
		return Result{}, upstreamError(err)
	}

	parsed, err := DecodeOutput(text)
	if err != nil {
		return Result{}, err
	}
	result, err := Normalize(parsed)
	if err != nil {
		return Result{}, err
	}
	return ApplyDelta(result, req.PreviousScore), nil
}
