package scoring

// Request is a validated scoring request.
type Request struct {
	Idea          string
	PreviousScore *int
}

// ParseRequest extracts the idea and optional previous score from an untyped
// body. Anything that is not an object is read as an empty object.
func ParseRequest(body any) (Request, error) {
	fields, _ := body.(map[string]any)

	idea := trimmedString(fields["idea"])
	if idea == "" {
		return Request{}, ErrMissingIdea
	}
	return Request{
		Idea:          idea,
		PreviousScore: previousScore(fields["previous_score"]),
	}, nil
}

func previousScore(value any) *int {
	n, ok := finiteNumber(value)
	if !ok {
		return nil
	}
	score := clampScore(n)
	return &score
}
