package scoring

// ApplyDelta sets IterationDelta relative to previous, or clears it when there
// is no previous score.
func ApplyDelta(result Result, previous *int) Result {
	result.IterationDelta = nil
	if previous != nil {
		delta := result.ScoreOutOf10 - *previous
		result.IterationDelta = &delta
	}
	return result
}
