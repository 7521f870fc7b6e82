package screening

import "strings"

// ExperienceLevel is the seniority classification returned by the reasoning service.
type ExperienceLevel string

const (
	ExperienceEntry  ExperienceLevel = "Entry-level"
	ExperienceMid    ExperienceLevel = "Mid-level"
	ExperienceSenior ExperienceLevel = "Senior-level"
)

// SkillMatch is the binary fit of the resume against the job description.
type SkillMatch string

const (
	SkillsMatch   SkillMatch = "Match"
	SkillsNoMatch SkillMatch = "No Match"
)

// Decision is a hiring action.
type Decision string

const (
	DecisionScheduleInterview Decision = "schedule_interview"
	DecisionRejectApplication Decision = "reject_application"
	DecisionNotifyRecruiter   Decision = "notify_recruiter"
)

// Known reports whether l is one of the declared experience levels.
func (l ExperienceLevel) Known() bool {
	switch l {
	case ExperienceEntry, ExperienceMid, ExperienceSenior:
		return true
	}
	return false
}

// Known reports whether m is Match or No Match.
func (m SkillMatch) Known() bool {
	switch m {
	case SkillsMatch, SkillsNoMatch:
		return true
	}
	return false
}

// Known reports whether d is one of the three hiring actions.
func (d Decision) Known() bool {
	switch d {
	case DecisionScheduleInterview, DecisionRejectApplication, DecisionNotifyRecruiter:
		return true
	}
	return false
}

// ParseExperienceLevel maps a free-text answer onto an ExperienceLevel.
// Unrecognized answers are returned trimmed with ok=false.
func ParseExperienceLevel(raw string) (ExperienceLevel, bool) {
	trimmed := strings.TrimSpace(raw)
	switch normalizeToken(trimmed, " ") {
	case "entry", "entry level", "entrylevel", "junior":
		return ExperienceEntry, true
	case "mid", "mid level", "midlevel", "intermediate":
		return ExperienceMid, true
	case "senior", "senior level", "seniorlevel":
		return ExperienceSenior, true
	}
	return ExperienceLevel(trimmed), false
}

// ParseSkillMatch maps a free-text answer onto a SkillMatch.
func ParseSkillMatch(raw string) (SkillMatch, bool) {
	trimmed := strings.TrimSpace(raw)
	switch normalizeToken(trimmed, " ") {
	case "match":
		return SkillsMatch, true
	case "no match", "nomatch", "not a match", "mismatch":
		return SkillsNoMatch, true
	}
	return SkillMatch(trimmed), false
}

// ParseDecision maps a free-text answer onto a Decision.
func ParseDecision(raw string) (Decision, bool) {
	trimmed := strings.TrimSpace(raw)
	switch normalizeToken(trimmed, "_") {
	case "schedule_interview":
		return DecisionScheduleInterview, true
	case "reject_application", "reject":
		return DecisionRejectApplication, true
	case "notify_recruiter":
		return DecisionNotifyRecruiter, true
	}
	return Decision(trimmed), false
}

// normalizeToken lowercases s, drops quoting and list punctuation and joins
// the remaining words with sep.
func normalizeToken(s, sep string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.TrimLeft(s, "-*• ")
	s = strings.Trim(s, "`'\".:;!* ")
	words := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_' || r == '\t' || r == '\n'
	})
	return strings.Join(words, sep)
}
