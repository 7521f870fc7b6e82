package repositories

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-agent/internal/models"
)

func newQueuedScreening(t *testing.T, repo ScreeningRepository, jobDescription string) *models.Screening {
	t.Helper()

	s := &models.Screening{
		ID:             uuid.New(),
		JobTitle:       "Backend Engineer",
		JobDescription: jobDescription,
		ResumeText:     "Go, PostgreSQL, five years",
		Status:         models.StatusQueued,
	}
	require.NoError(t, repo.Create(s))
	return s
}

func strPtr(v string) *string { return &v }

func float64Ptr(v float64) *float64 { return &v }

func TestScreeningRepositoryClaimIsExclusive(t *testing.T) {
	repo := NewScreeningRepository(newTestDB(t))
	job := newQueuedScreening(t, repo, "Go developer")

	claimed, err := repo.Claim(job.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.Claim(job.ID)
	require.NoError(t, err)
	assert.False(t, claimed, "a processing job must not be claimed twice")

	got, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)

	claimed, err = repo.Claim(uuid.New())
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestScreeningRepositoryUpdateResultSkipsNilColumns(t *testing.T) {
	repo := NewScreeningRepository(newTestDB(t))
	job := newQueuedScreening(t, repo, "Go developer with Kubernetes")

	require.NoError(t, repo.UpdateResult(job.ID, &ScreeningUpdateData{
		ExperienceLevel:    strPtr("Senior-level"),
		SkillMatch:         strPtr("Match"),
		RelevanceScore:     float64Ptr(82.5),
		AgentDecision:      strPtr("schedule_interview"),
		FinalDecision:      strPtr("schedule_interview"),
		ConfidenceScore:    float64Ptr(90),
		ReflectionAttempts: 1,
		StagePath:          strPtr("classify_experience,assess_skill_match"),
	}))

	got, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, "Go developer with Kubernetes", got.JobDescription, "nil job description keeps the stored one")
	require.NotNil(t, got.ExperienceLevel)
	assert.Equal(t, "Senior-level", *got.ExperienceLevel)
	require.NotNil(t, got.RelevanceScore)
	assert.InDelta(t, 82.5, *got.RelevanceScore, 0.001)
	assert.Nil(t, got.AnalysisSummary)
	assert.Nil(t, got.HaltReason)
	assert.Nil(t, got.Unrecognized)
	assert.Equal(t, 1, got.ReflectionAttempts)
	assert.False(t, got.PolicyOverride)

	require.NoError(t, repo.UpdateResult(job.ID, &ScreeningUpdateData{
		FinalDecision:      strPtr("reject_application"),
		ReflectionAttempts: 2,
		PolicyOverride:     true,
	}))

	got, err = repo.FindByID(job.ID)
	require.NoError(t, err)
	require.NotNil(t, got.FinalDecision)
	assert.Equal(t, "reject_application", *got.FinalDecision)
	require.NotNil(t, got.SkillMatch)
	assert.Equal(t, "Match", *got.SkillMatch, "columns absent from the update stay untouched")
	require.NotNil(t, got.ConfidenceScore)
	assert.InDelta(t, 90.0, *got.ConfidenceScore, 0.001)
	assert.Equal(t, 2, got.ReflectionAttempts)
	assert.True(t, got.PolicyOverride)
}

func TestScreeningRepositoryUpdateError(t *testing.T) {
	repo := NewScreeningRepository(newTestDB(t))
	job := newQueuedScreening(t, repo, "Go developer")

	require.NoError(t, repo.UpdateError(job.ID, "reasoning provider unavailable"))

	got, err := repo.FindByID(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorMessage)
	assert.Equal(t, "reasoning provider unavailable", *got.ErrorMessage)
}

func TestScreeningRepositoryUnknownID(t *testing.T) {
	repo := NewScreeningRepository(newTestDB(t))
	id := uuid.New()

	_, err := repo.FindByID(id)
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.UpdateResult(id, &ScreeningUpdateData{FinalDecision: strPtr("reject_application")})
	assert.ErrorIs(t, err, ErrNotFound)

	err = repo.UpdateError(id, "boom")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScreeningRepositoryFindPendingJobs(t *testing.T) {
	repo := NewScreeningRepository(newTestDB(t))

	first := newQueuedScreening(t, repo, "first")
	time.Sleep(5 * time.Millisecond)
	claimed := newQueuedScreening(t, repo, "claimed")
	time.Sleep(5 * time.Millisecond)
	last := newQueuedScreening(t, repo, "last")

	ok, err := repo.Claim(claimed.ID)
	require.NoError(t, err)
	require.True(t, ok)

	jobs, err := repo.FindPendingJobs(10)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, first.ID, jobs[0].ID)
	assert.Equal(t, last.ID, jobs[1].ID)

	jobs, err = repo.FindPendingJobs(1)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, first.ID, jobs[0].ID)
}
