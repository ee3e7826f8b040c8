package scoring

import (
	"encoding/json"
	"strings"
)

// DecodeOutput parses the raw model payload.
func DecodeOutput(text string) (any, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyOutput
	}
	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, ErrMalformedOutput.wrap(err)
	}
	return parsed, nil
}

// Normalize turns untrusted parsed output into a Result. Field anomalies are
// corrected; only a non-object value or an empty summary/verdict fail.
func Normalize(parsed any) (Result, error) {
	fields, ok := parsed.(map[string]any)
	if !ok {
		return Result{}, ErrInvalidStructuredOutput
	}
	result := normalizeFields(fields)
	if err := checkComplete(result); err != nil {
		return Result{}, err
	}
	return result, nil
}

func normalizeFields(fields map[string]any) Result {
	score := defaultScore
	if n, ok := lenientNumber(fields["score_out_of_10"]); ok {
		score = clampScore(n)
	}
	return Result{
		ScoreOutOf10: score,
		Complexity:   parseComplexity(fields["complexity"]),
		Summary:      trimmedString(fields["summary"]),
		Risks:        stringList(fields["risks"]),
		CostsEffort:  stringList(fields["costs_effort"]),
		Verdict:      trimmedString(fields["verdict"]),
	}
}

func checkComplete(result Result) error {
	if result.Summary == "" || result.Verdict == "" {
		return ErrIncompleteOutput
	}
	return nil
}
