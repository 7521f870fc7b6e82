package screening

import (
	"context"

	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/logger"
)

func (s *Screener) classifyExperience(ctx context.Context, st State) (Update, error) {
	response, err := s.ask(ctx, StageClassifyExperience, s.prompts.BuildExperiencePrompt(st.Application))
	if err != nil {
		return Update{}, err
	}

	level, ok := ParseExperienceLevel(response)
	u := Update{ExperienceLevel: &level}
	if !ok {
		u.Unrecognized = s.unrecognized("experience_level", response)
	}
	return u, nil
}

func (s *Screener) assessSkillMatch(ctx context.Context, st State) (Update, error) {
	response, err := s.ask(ctx, StageAssessSkillMatch, s.prompts.BuildSkillMatchPrompt(st.Application, st.JobDescription))
	if err != nil {
		return Update{}, err
	}

	match, ok := ParseSkillMatch(response)
	u := Update{SkillMatch: &match}
	if !ok {
		u.Unrecognized = s.unrecognized("skill_match", response)
	}
	return u, nil
}

// deepProfileAnalysis never fails on a malformed response; it falls back to
// a relevance of 50 and a placeholder summary.
func (s *Screener) deepProfileAnalysis(ctx context.Context, st State) (Update, error) {
	response, err := s.ask(ctx, StageDeepAnalysis, s.prompts.BuildDeepAnalysisPrompt(st.Application, st.JobDescription))
	if err != nil {
		return Update{}, err
	}

	analysis, err := ParseAnalysis(response)
	if err != nil {
		s.logger.Warn("deep analysis response not parseable, using defaults",
			zap.Error(err),
			zap.Float64("relevance_score", analysis.RelevanceScore),
		)
	}

	return Update{
		RelevanceScore:  floatPtr(analysis.RelevanceScore),
		AnalysisSummary: stringPtr(analysis.AnalysisSummary),
	}, nil
}

func (s *Screener) hiringDecision(ctx context.Context, st State) (Update, error) {
	response, err := s.ask(ctx, StageHiringDecision, s.prompts.BuildDecisionPrompt(factsFrom(st)))
	if err != nil {
		return Update{}, err
	}

	decision, ok := ParseDecision(response)
	u := Update{AgentDecision: &decision}
	if !ok {
		u.Unrecognized = s.unrecognized("agent_decision", response)
	}
	return u, nil
}

func (s *Screener) reflect(ctx context.Context, st State) (Update, error) {
	attempts := st.ReflectionAttempts + 1

	previous := st.AgentDecision
	if previous == "" {
		previous = DecisionRejectApplication
	}

	response, err := s.ask(ctx, StageReflection, s.prompts.BuildReflectionPrompt(factsFrom(st), previous))
	if err != nil {
		return Update{}, err
	}

	decision, ok := ParseDecision(response)
	u := Update{ReflectionAttempts: intPtr(attempts)}
	if !ok {
		u.Unrecognized = s.unrecognized("final_decision", response)
	}

	if s.strictPolicy && st.SkillMatch == SkillsNoMatch && decision != DecisionRejectApplication {
		s.logger.Warn("skill mismatch must be rejected, overriding decision",
			zap.String("returned_decision", string(decision)),
			zap.Int("attempt", attempts),
		)
		decision = DecisionRejectApplication
		u.PolicyOverride = true
	}
	u.FinalDecision = &decision

	return u, nil
}

func (s *Screener) scoreConfidence(ctx context.Context, st State) (Update, error) {
	response, err := s.ask(ctx, StageConfidence, s.prompts.BuildConfidencePrompt(st.FinalDecision))
	if err != nil {
		return Update{}, err
	}

	score, err := ParseConfidence(response)
	if err != nil {
		s.logger.Warn("confidence response not numeric, using default",
			zap.Error(err),
			zap.Float64("confidence_score", score),
		)
	}

	return Update{ConfidenceScore: floatPtr(score)}, nil
}

// unrecognized logs a token outside its declared domain and returns the field
// name to record on the state.
func (s *Screener) unrecognized(field, response string) []string {
	s.logger.Warn("unrecognized reasoning token",
		zap.String("field", field),
		zap.String("response_preview", logger.TruncateForLog(response, s.maxLogLen)),
	)
	return []string{field}
}
