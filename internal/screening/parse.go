package screening

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	defaultRelevanceScore  = 50.0
	defaultAnalysisSummary = "Parsing failed."
	defaultConfidenceScore = 75.0
)

var (
	errNoJSONObject    = errors.New("no JSON object in response")
	errEmptyJSONObject = errors.New("empty JSON object in response")
)

// Analysis is the structured result of the deep profile analysis stage.
type Analysis struct {
	RelevanceScore  float64
	AnalysisSummary string
}

// fallbackAnalysis is used whenever the deep analysis response cannot be parsed.
var fallbackAnalysis = Analysis{
	RelevanceScore:  defaultRelevanceScore,
	AnalysisSummary: defaultAnalysisSummary,
}

// ParseAnalysis extracts the relevance score and summary from a model response.
// On any failure it returns the fixed fallback together with the cause.
func ParseAnalysis(response string) (Analysis, error) {
	jsonStr, err := extractJSON(response)
	if err != nil {
		return fallbackAnalysis, err
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &data); err != nil {
		return fallbackAnalysis, fmt.Errorf("failed to unmarshal analysis: %w", err)
	}
	if len(data) == 0 {
		return fallbackAnalysis, errEmptyJSONObject
	}

	result := Analysis{RelevanceScore: defaultRelevanceScore}
	if raw, ok := data["relevance_score"]; ok {
		score := coerceFloat(raw)
		if math.IsNaN(score) {
			return fallbackAnalysis, fmt.Errorf("relevance_score is not a number: %v", raw)
		}
		result.RelevanceScore = clampScore(score)
	}
	result.AnalysisSummary = coerceString(data["analysis_summary"])

	return result, nil
}

// ParseConfidence reads a bare number from a model response.
func ParseConfidence(response string) (float64, error) {
	trimmed := strings.TrimSpace(response)
	score, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return defaultConfidenceScore, fmt.Errorf("failed to parse confidence %q: %w", trimmed, err)
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return defaultConfidenceScore, fmt.Errorf("confidence %q is not finite", trimmed)
	}
	return clampScore(score), nil
}

// extractJSON strips markdown code fences and returns the span from the first
// '{' to the last '}'.
func extractJSON(text string) (string, error) {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", errNoJSONObject
	}

	return text[start : end+1], nil
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

func clampScore(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
