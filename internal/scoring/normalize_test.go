package scoring

import (
	"errors"
	"reflect"
	"testing"
)

func validOutput() map[string]any {
	return map[string]any{
		"score_out_of_10": 6.0,
		"complexity":      "Low",
		"summary":         "A focused niche tool.",
		"risks":           []any{"Demand unproven"},
		"costs_effort":    []any{"Two weekends"},
		"verdict":         "BUILD ONLY IF you can pre-sell ten seats.",
	}
}

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected int
	}{
		{"integer", 6.0, 6},
		{"rounds", 7.6, 8},
		{"clamps high", 11.0, 10},
		{"clamps low", 0.0, 1},
		{"numeric string", "7", 7},
		{"padded string", " 4 ", 4},
		{"text", "high", 5},
		{"empty string", "", 5},
		{"null", nil, 5},
		{"bool", true, 5},
		{"composite", []any{9.0}, 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			fields := validOutput()
			fields["score_out_of_10"] = tc.value
			result, err := Normalize(fields)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.ScoreOutOf10 != tc.expected {
				t.Fatalf("expected %d got %d", tc.expected, result.ScoreOutOf10)
			}
		})
	}

	missing := validOutput()
	delete(missing, "score_out_of_10")
	result, err := Normalize(missing)
	if err != nil || result.ScoreOutOf10 != defaultScore {
		t.Fatalf("expected default score got %d (%v)", result.ScoreOutOf10, err)
	}
}

func TestNormalizeComplexity(t *testing.T) {
	tests := []struct {
		value    any
		expected Complexity
	}{
		{"Low", ComplexityLow},
		{"Medium", ComplexityMedium},
		{"High", ComplexityHigh},
		{"low", ComplexityMedium},
		{"Very High", ComplexityMedium},
		{nil, ComplexityMedium},
		{3.0, ComplexityMedium},
	}
	for _, tc := range tests {
		fields := validOutput()
		fields["complexity"] = tc.value
		result, err := Normalize(fields)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.Complexity != tc.expected {
			t.Fatalf("expected %s got %s for %v", tc.expected, result.Complexity, tc.value)
		}
	}
}

func TestNormalizeLists(t *testing.T) {
	fields := validOutput()
	fields["risks"] = []any{" churn ", "", 3.0, nil, map[string]any{"a": 1.0}, []any{"x"}, true, "   "}
	fields["costs_effort"] = "not a list"

	result, err := Normalize(fields)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"churn", "3", "true"}
	if !reflect.DeepEqual(result.Risks, expected) {
		t.Fatalf("expected %v got %v", expected, result.Risks)
	}
	if result.CostsEffort == nil || len(result.CostsEffort) != 0 {
		t.Fatalf("expected empty non-nil costs got %#v", result.CostsEffort)
	}
}

func TestNormalizeFailures(t *testing.T) {
	blankSummary := validOutput()
	blankSummary["summary"] = "   "
	noVerdict := validOutput()
	delete(noVerdict, "verdict")

	tests := []struct {
		name     string
		parsed   any
		expected error
	}{
		{"array", []any{1.0}, ErrInvalidStructuredOutput},
		{"string", "hello", ErrInvalidStructuredOutput},
		{"null", nil, ErrInvalidStructuredOutput},
		{"number", 7.0, ErrInvalidStructuredOutput},
		{"blank summary", blankSummary, ErrIncompleteOutput},
		{"missing verdict", noVerdict, ErrIncompleteOutput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.parsed)
			if !errors.Is(err, tc.expected) {
				t.Fatalf("expected %v got %v", tc.expected, err)
			}
			if StatusOf(err) != 500 {
				t.Fatalf("expected 500 got %d", StatusOf(err))
			}
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first, err := Normalize(validOutput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	again, err := Normalize(map[string]any{
		"score_out_of_10": first.ScoreOutOf10,
		"complexity":      string(first.Complexity),
		"summary":         first.Summary,
		"risks":           first.Risks,
		"costs_effort":    first.CostsEffort,
		"verdict":         first.Verdict,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, again) {
		t.Fatalf("expected %+v got %+v", first, again)
	}
}

func TestDecodeOutput(t *testing.T) {
	if _, err := DecodeOutput("  \n"); !errors.Is(err, ErrEmptyOutput) {
		t.Fatalf("expected empty output got %v", err)
	}
	if _, err := DecodeOutput("{not json"); !errors.Is(err, ErrMalformedOutput) {
		t.Fatalf("expected malformed output got %v", err)
	}
	parsed, err := DecodeOutput(`{"summary":"ok"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := parsed.(map[string]any); !ok {
		t.Fatalf("expected object got %T", parsed)
	}
}

func TestApplyDelta(t *testing.T) {
	prev := 4
	result := ApplyDelta(Result{ScoreOutOf10: 6}, &prev)
	if result.IterationDelta == nil || *result.IterationDelta != 2 {
		t.Fatalf("expected delta 2 got %v", result.IterationDelta)
	}
	cleared := ApplyDelta(result, nil)
	if cleared.IterationDelta != nil {
		t.Fatalf("expected nil delta got %d", *cleared.IterationDelta)
	}
}
