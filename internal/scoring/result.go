package scoring

// Complexity is the model's build-complexity estimate.
type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

// Result is the normalized score returned to callers.
type Result struct {
	ScoreOutOf10   int        `json:"score_out_of_10"`
	Complexity     Complexity `json:"complexity"`
	Summary        string     `json:"summary"`
	Risks          []string   `json:"risks"`
	CostsEffort    []string   `json:"costs_effort"`
	Verdict        string     `json:"verdict"`
	IterationDelta *int       `json:"iteration_delta"`
}

func parseComplexity(value any) Complexity {
	text, _ := value.(string)
	switch Complexity(text) {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return Complexity(text)
	}
	return ComplexityMedium
}
