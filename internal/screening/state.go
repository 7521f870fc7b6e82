package screening

// Stage names used as graph node identifiers.
const (
	StageClassifyExperience = "classify_experience"
	StageAssessSkillMatch   = "assess_skill_match"
	StageDeepAnalysis       = "deep_profile_analysis"
	StageHiringDecision     = "hiring_decision_agent"
	StageReflection         = "reflection_agent"
	StageConfidence         = "confidence_agent"

	// End is the terminal pseudo-node returned by routers.
	End = "__end__"
)

// HaltReasonTimeout is recorded when a reasoning call exceeded the per-call timeout.
const HaltReasonTimeout = "reasoning_timeout"

// State is the evaluation record threaded through every stage of one run.
// Pointer fields stay nil until the stage that owns them has run.
type State struct {
	Application        string          `json:"application"`
	FullApplication    string          `json:"full_application,omitempty"`
	JobDescription     string          `json:"job_description"`
	ExperienceLevel    ExperienceLevel `json:"experience_level,omitempty"`
	SkillMatch         SkillMatch      `json:"skill_match,omitempty"`
	RelevanceScore     *float64        `json:"relevance_score,omitempty"`
	AnalysisSummary    *string         `json:"analysis_summary,omitempty"`
	AgentDecision      Decision        `json:"agent_decision,omitempty"`
	FinalDecision      Decision        `json:"final_decision,omitempty"`
	ConfidenceScore    *float64        `json:"confidence_score,omitempty"`
	ReflectionAttempts int             `json:"reflection_attempts"`

	Path           []string `json:"path,omitempty"`
	Unrecognized   []string `json:"unrecognized,omitempty"`
	PolicyOverride bool     `json:"policy_override,omitempty"`
	HaltReason     string   `json:"halt_reason,omitempty"`
}

// Update is the partial record a stage returns. Only non-nil fields are merged.
type Update struct {
	ExperienceLevel    *ExperienceLevel
	SkillMatch         *SkillMatch
	RelevanceScore     *float64
	AnalysisSummary    *string
	AgentDecision      *Decision
	FinalDecision      *Decision
	ConfidenceScore    *float64
	ReflectionAttempts *int

	PolicyOverride bool
	// Unrecognized lists the state fields whose token fell outside its domain.
	Unrecognized []string
}

// Merge applies u on top of s.
func (s *State) Merge(u Update) {
	if u.ExperienceLevel != nil {
		s.ExperienceLevel = *u.ExperienceLevel
	}
	if u.SkillMatch != nil {
		s.SkillMatch = *u.SkillMatch
	}
	if u.RelevanceScore != nil {
		v := *u.RelevanceScore
		s.RelevanceScore = &v
	}
	if u.AnalysisSummary != nil {
		v := *u.AnalysisSummary
		s.AnalysisSummary = &v
	}
	if u.AgentDecision != nil {
		s.AgentDecision = *u.AgentDecision
	}
	if u.FinalDecision != nil {
		s.FinalDecision = *u.FinalDecision
	}
	if u.ConfidenceScore != nil {
		v := *u.ConfidenceScore
		s.ConfidenceScore = &v
	}
	if u.ReflectionAttempts != nil {
		s.ReflectionAttempts = *u.ReflectionAttempts
	}
	if u.PolicyOverride {
		s.PolicyOverride = true
	}
	for _, field := range u.Unrecognized {
		if !containsString(s.Unrecognized, field) {
			s.Unrecognized = append(s.Unrecognized, field)
		}
	}
}

// Visited reports whether the run passed through the named stage.
func (s *State) Visited(stage string) bool {
	return containsString(s.Path, stage)
}

func (s *State) clone() State {
	c := *s
	c.Path = append([]string(nil), s.Path...)
	c.Unrecognized = append([]string(nil), s.Unrecognized...)
	if s.RelevanceScore != nil {
		v := *s.RelevanceScore
		c.RelevanceScore = &v
	}
	if s.AnalysisSummary != nil {
		v := *s.AnalysisSummary
		c.AnalysisSummary = &v
	}
	if s.ConfidenceScore != nil {
		v := *s.ConfidenceScore
		c.ConfidenceScore = &v
	}
	return c
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func floatPtr(v float64) *float64 { return &v }

func stringPtr(v string) *string { return &v }

func intPtr(v int) *int { return &v }
