package scoring

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

const (
	minScore     = 1
	maxScore     = 10
	defaultScore = 5
)

// trimmedString renders scalars as text and composites as JSON. nil is "".
func trimmedString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return strings.TrimSpace(v.String())
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(data))
	}
}

// finiteNumber accepts only numeric values; strings are rejected.
func finiteNumber(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int32:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = parsed
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

// lenientNumber is finiteNumber plus numeric strings such as "7" or " 6.5 ".
func lenientNumber(value any) (float64, bool) {
	text, ok := value.(string)
	if !ok {
		return finiteNumber(value)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func clampScore(n float64) int {
	rounded := math.Round(n)
	if rounded < minScore {
		return minScore
	}
	if rounded > maxScore {
		return maxScore
	}
	return int(rounded)
}

// stringList keeps the non-empty scalar entries of an array, in order.
func stringList(value any) []string {
	var items []any
	switch v := value.(type) {
	case []any:
		items = v
	case []string:
		items = make([]any, len(v))
		for i, s := range v {
			items[i] = s
		}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch item.(type) {
		case nil, map[string]any, []any:
			continue
		}
		if text := trimmedString(item); text != "" {
			out = append(out, text)
		}
	}
	return out
}
