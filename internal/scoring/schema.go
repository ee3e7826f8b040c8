package scoring

// SchemaName identifies the response format to the model provider.
const SchemaName = "idea_score"

// ResponseSchema is the strict JSON schema the model output must satisfy.
// iteration_delta is never requested from the model.
func ResponseSchema() map[string]any {
	stringArray := func() map[string]any {
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"score_out_of_10": map[string]any{"type": "integer", "minimum": minScore, "maximum": maxScore},
			"complexity":      map[string]any{"type": "string", "enum": []string{string(ComplexityLow), string(ComplexityMedium), string(ComplexityHigh)}},
			"summary":         map[string]any{"type": "string"},
			"risks":           stringArray(),
			"costs_effort":    stringArray(),
			"verdict":         map[string]any{"type": "string"},
		},
		"required": []string{"score_out_of_10", "complexity", "summary", "risks", "costs_effort", "verdict"},
	}
}
