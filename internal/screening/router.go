package screening

const (
	DefaultMaxReflectionAttempts = 3
	DefaultConfidenceThreshold   = 60.0
)

// Router picks the next stage from the current state.
type Router func(s State) string

// AfterSkillCheck skips the deep analysis when the skills do not match.
// An unrecognized skill token takes the analysis branch; the screener has
// already recorded it in State.Unrecognized.
func AfterSkillCheck(s State) string {
	switch s.SkillMatch {
	case SkillsNoMatch:
		return StageHiringDecision
	case SkillsMatch:
		return StageDeepAnalysis
	default:
		return StageDeepAnalysis
	}
}

// AfterDeepAnalysis always continues to the hiring decision.
func AfterDeepAnalysis(State) string {
	return StageHiringDecision
}

// AfterDecision always sends the decision to reflection.
func AfterDecision(State) string {
	return StageReflection
}

// AfterConfidence ends the run once maxAttempts reviews have happened, and
// otherwise loops back to the reflection stage while confidence stays below
// threshold. The attempt ceiling is checked first.
func AfterConfidence(maxAttempts int, threshold float64) Router {
	return func(s State) string {
		if s.ReflectionAttempts >= maxAttempts {
			return End
		}
		confidence := 0.0
		if s.ConfidenceScore != nil {
			confidence = *s.ConfidenceScore
		}
		if confidence < threshold {
			return StageReflection
		}
		return End
	}
}
