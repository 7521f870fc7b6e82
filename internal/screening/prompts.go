package screening

import (
	"fmt"
	"strconv"
)

// PromptBuilder renders the prompt of every reasoning call the engine makes.
type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildSummaryPrompt condenses raw resume text before the graph runs.
func (pb *PromptBuilder) BuildSummaryPrompt(resumeText string) string {
	return fmt.Sprintf(`Summarize this resume concisely. Keep the key skills, the experience and the companies the candidate worked for.

RESUME:
%s`, resumeText)
}

// BuildExperiencePrompt asks for a closed seniority classification.
func (pb *PromptBuilder) BuildExperiencePrompt(application string) string {
	return fmt.Sprintf(`Categorize the candidate as 'Entry-level', 'Mid-level' or 'Senior-level'.
Return ONLY one of these values.

RESUME:
%s`, application)
}

// BuildSkillMatchPrompt asks for a binary fit against the job description.
func (pb *PromptBuilder) BuildSkillMatchPrompt(application, jobDescription string) string {
	return fmt.Sprintf(`Compare the resume with the job description.
Return ONLY 'Match' or 'No Match'.

RESUME:
%s

JOB DESCRIPTION:
%s`, application, jobDescription)
}

// BuildDeepAnalysisPrompt asks for a JSON relevance score and rationale.
func (pb *PromptBuilder) BuildDeepAnalysisPrompt(application, jobDescription string) string {
	return fmt.Sprintf(`Analyze the candidate in depth against the job description.

Return your response in the following JSON format:
{
  "relevance_score": <number 0-100>,
  "analysis_summary": "<short paragraph>"
}

RESUME:
%s

JOB DESCRIPTION:
%s`, application, jobDescription)
}

// BuildDecisionPrompt embeds the hiring policy. The policy is advice to the
// reasoning service; only the no-match rule is also applied by the engine.
func (pb *PromptBuilder) BuildDecisionPrompt(f CandidateFacts) string {
	return fmt.Sprintf(`You are an autonomous hiring agent.

CANDIDATE DATA:
- Experience Level: %s
- Skill Match: %s
- Relevance Score: %s
- Analysis: %s

DECISION GUIDELINES:
1. Consider ALL factors together. Do NOT base the decision on a single factor.
2. If Skill Match is 'No Match', you MUST reject the candidate regardless of any other factor.
3. High relevance score (>75) with good experience: schedule an interview.
4. Moderate relevance (50-75): notify the recruiter for a manual review.
5. Low relevance (<50): reject.

Decide ONE action:
- schedule_interview
- reject_application
- notify_recruiter

Return ONLY the action name.`,
		f.ExperienceLevel, f.SkillMatch, formatScore(f.RelevanceScore), f.AnalysisSummary)
}

// BuildReflectionPrompt asks the reasoning service to review its previous decision.
func (pb *PromptBuilder) BuildReflectionPrompt(f CandidateFacts, previous Decision) string {
	return fmt.Sprintf(`You are reviewing your previous hiring decision.

CANDIDATE DATA:
- Experience Level: %s
- Skill Match: %s
- Relevance Score: %s
- Analysis Summary: %s

YOUR PREVIOUS DECISION: %s

Carefully evaluate whether the previous decision logically aligns with the candidate data.
If the previous decision is correct, keep it.
If it is inconsistent, change it.

Return ONLY one:
- schedule_interview
- reject_application
- notify_recruiter`,
		f.ExperienceLevel, f.SkillMatch, formatScore(f.RelevanceScore), f.AnalysisSummary, previous)
}

// BuildConfidencePrompt asks for a bare number.
func (pb *PromptBuilder) BuildConfidencePrompt(finalDecision Decision) string {
	return fmt.Sprintf(`Provide a confidence score (0-100) for this final decision: %s.
Return ONLY the number.`, finalDecision)
}

// CandidateFacts is the projection of State that the decision and reflection
// prompts read, with unset fields replaced by their display defaults.
type CandidateFacts struct {
	ExperienceLevel string
	SkillMatch      string
	RelevanceScore  float64
	AnalysisSummary string
}

func factsFrom(s State) CandidateFacts {
	f := CandidateFacts{
		ExperienceLevel: "Unknown",
		SkillMatch:      "Unknown",
		RelevanceScore:  defaultRelevanceScore,
		AnalysisSummary: "Not available.",
	}
	if s.ExperienceLevel != "" {
		f.ExperienceLevel = string(s.ExperienceLevel)
	}
	if s.SkillMatch != "" {
		f.SkillMatch = string(s.SkillMatch)
	}
	if s.RelevanceScore != nil {
		f.RelevanceScore = *s.RelevanceScore
	}
	if s.AnalysisSummary != nil {
		f.AnalysisSummary = *s.AnalysisSummary
	}
	return f
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
