package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExperienceLevel(t *testing.T) {
	tests := map[string]struct {
		expect ExperienceLevel
		ok     bool
	}{
		"Senior-level":    {ExperienceSenior, true},
		"senior level":    {ExperienceSenior, true},
		"  Mid-level.\n":  {ExperienceMid, true},
		"'Entry-level'":   {ExperienceEntry, true},
		"Junior":          {ExperienceEntry, true},
		"Principal":       {ExperienceLevel("Principal"), false},
		"  Staff-level  ": {ExperienceLevel("Staff-level"), false},
	}

	for raw, tt := range tests {
		got, ok := ParseExperienceLevel(raw)
		assert.Equal(t, tt.expect, got, raw)
		assert.Equal(t, tt.ok, ok, raw)
		assert.Equal(t, tt.ok, got.Known(), raw)
	}
}

func TestParseSkillMatch(t *testing.T) {
	tests := map[string]struct {
		expect SkillMatch
		ok     bool
	}{
		"Match":        {SkillsMatch, true},
		"No Match":     {SkillsNoMatch, true},
		"no-match":     {SkillsNoMatch, true},
		"**No Match**": {SkillsNoMatch, true},
		"\"Match\".":   {SkillsMatch, true},
		"Partial":      {SkillMatch("Partial"), false},
	}

	for raw, tt := range tests {
		got, ok := ParseSkillMatch(raw)
		assert.Equal(t, tt.expect, got, raw)
		assert.Equal(t, tt.ok, ok, raw)
	}
}

func TestParseDecision(t *testing.T) {
	tests := map[string]struct {
		expect Decision
		ok     bool
	}{
		"schedule_interview":   {DecisionScheduleInterview, true},
		"Schedule Interview.":  {DecisionScheduleInterview, true},
		"- notify_recruiter":   {DecisionNotifyRecruiter, true},
		"`reject_application`": {DecisionRejectApplication, true},
		"reject":               {DecisionRejectApplication, true},
		"hire":                 {Decision("hire"), false},
	}

	for raw, tt := range tests {
		got, ok := ParseDecision(raw)
		assert.Equal(t, tt.expect, got, raw)
		assert.Equal(t, tt.ok, ok, raw)
		assert.Equal(t, tt.ok, got.Known(), raw)
	}
}
