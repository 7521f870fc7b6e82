package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hiring-agent/internal/models"
	"alfredoptarigan/hiring-agent/internal/repositories"
	"alfredoptarigan/hiring-agent/internal/screening"
)

func TestScreenRequiresResume(t *testing.T) {
	svc := NewScreeningService(newFakeScreeningRepo(), &fakeDocRepo{}, &fakeScreener{state: completedState()}, staticJobContext{}, nil)

	_, err := svc.Screen(context.Background(), ScreeningInput{ResumeText: "   ", JobDescription: "Go developer"})
	assert.ErrorIs(t, err, ErrNoResumeText)
}

func TestScreenTextUsesResolvedJobDescription(t *testing.T) {
	screener := &fakeScreener{state: completedState()}
	svc := NewScreeningService(newFakeScreeningRepo(), &fakeDocRepo{}, screener, staticJobContext{}, nil)

	st, err := svc.Screen(context.Background(), ScreeningInput{ResumeText: "Ten years of Go", JobTitle: "Backend Engineer"})
	require.NoError(t, err)

	require.Len(t, screener.calls, 1)
	assert.Equal(t, screenCall{kind: "text", input: "Ten years of Go", jobDescription: "retrieved:Backend Engineer"}, screener.calls[0])
	assert.Equal(t, screening.DecisionScheduleInterview, st.FinalDecision)
}

func TestScreenDocumentLooksUpStoredFile(t *testing.T) {
	docID := uuid.New()
	docs := &fakeDocRepo{}
	require.NoError(t, docs.Create(&models.Document{ID: docID, FilePath: "/uploads/resume_x.pdf"}))

	screener := &fakeScreener{state: completedState()}
	svc := NewScreeningService(newFakeScreeningRepo(), docs, screener, staticJobContext{}, nil)

	_, err := svc.Screen(context.Background(), ScreeningInput{DocumentID: &docID, JobDescription: "Go developer"})
	require.NoError(t, err)
	require.Len(t, screener.calls, 1)
	assert.Equal(t, "document", screener.calls[0].kind)
	assert.Equal(t, "/uploads/resume_x.pdf", screener.calls[0].input)

	missing := uuid.New()
	_, err = svc.Screen(context.Background(), ScreeningInput{DocumentID: &missing, JobDescription: "Go developer"})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestScreenPropagatesJobContextErrors(t *testing.T) {
	screener := &fakeScreener{state: completedState()}
	svc := NewScreeningService(newFakeScreeningRepo(), &fakeDocRepo{}, screener, staticJobContext{err: ErrJobDescriptionNotFound}, nil)

	_, err := svc.Screen(context.Background(), ScreeningInput{ResumeText: "resume", JobTitle: "Astronaut"})
	assert.ErrorIs(t, err, ErrJobDescriptionNotFound)
	assert.Empty(t, screener.calls)
}

func TestProcessScreeningStoresResult(t *testing.T) {
	repo := newFakeScreeningRepo()
	job := &models.Screening{ResumeText: "resume", JobDescription: "Go developer"}
	require.NoError(t, repo.Create(job))

	svc := NewScreeningService(repo, &fakeDocRepo{}, &fakeScreener{state: completedState()}, staticJobContext{}, nil)
	require.NoError(t, svc.ProcessScreening(context.Background(), job.ID))

	assert.Equal(t, models.StatusCompleted, repo.status(job.ID))
	data := repo.results[job.ID]
	require.NotNil(t, data)
	assert.Equal(t, "schedule_interview", *data.FinalDecision)
	assert.Equal(t, "Senior-level", *data.ExperienceLevel)
	assert.Equal(t, 88.0, *data.ConfidenceScore)
	assert.Equal(t, 1, data.ReflectionAttempts)
	assert.Equal(t, "Go developer", *data.JobDescription)
	assert.Contains(t, *data.StagePath, "deep_profile_analysis")
	assert.Nil(t, data.HaltReason)
	assert.Nil(t, data.Unrecognized)
}

func TestProcessScreeningRecordsFailure(t *testing.T) {
	repo := newFakeScreeningRepo()
	job := &models.Screening{ResumeText: "resume", JobDescription: "Go developer"}
	require.NoError(t, repo.Create(job))

	errDown := errors.New("provider unavailable")
	svc := NewScreeningService(repo, &fakeDocRepo{}, &fakeScreener{err: errDown}, staticJobContext{}, nil)

	err := svc.ProcessScreening(context.Background(), job.ID)
	assert.ErrorIs(t, err, errDown)
	assert.Equal(t, models.StatusFailed, repo.status(job.ID))
	assert.Equal(t, "provider unavailable", repo.errors[job.ID])
}

func TestProcessScreeningSkipsClaimedJobs(t *testing.T) {
	repo := newFakeScreeningRepo()
	job := &models.Screening{ResumeText: "resume", JobDescription: "Go developer", Status: models.StatusProcessing}
	require.NoError(t, repo.Create(job))

	screener := &fakeScreener{state: completedState()}
	svc := NewScreeningService(repo, &fakeDocRepo{}, screener, staticJobContext{}, nil)

	require.NoError(t, svc.ProcessScreening(context.Background(), job.ID))
	assert.Empty(t, screener.calls)
}

func TestResultRoundTripThroughStoredColumns(t *testing.T) {
	st := completedState()
	st.Unrecognized = []string{"experience_level"}
	st.HaltReason = screening.HaltReasonTimeout

	data := UpdateDataFromState(st)
	stored := &models.Screening{
		ExperienceLevel:    data.ExperienceLevel,
		SkillMatch:         data.SkillMatch,
		RelevanceScore:     data.RelevanceScore,
		AnalysisSummary:    data.AnalysisSummary,
		AgentDecision:      data.AgentDecision,
		FinalDecision:      data.FinalDecision,
		ConfidenceScore:    data.ConfidenceScore,
		ReflectionAttempts: data.ReflectionAttempts,
		StagePath:          data.StagePath,
		Unrecognized:       data.Unrecognized,
		PolicyOverride:     data.PolicyOverride,
		HaltReason:         data.HaltReason,
	}

	assert.Equal(t, ResultFromState(st), ResultFromScreening(stored))
}
