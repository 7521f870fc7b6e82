package services

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"alfredoptarigan/hiring-agent/internal/models"
	"alfredoptarigan/hiring-agent/internal/repositories"
	"alfredoptarigan/hiring-agent/internal/screening"
)

type fakeScreeningRepo struct {
	mu      sync.Mutex
	jobs    map[uuid.UUID]*models.Screening
	results map[uuid.UUID]*repositories.ScreeningUpdateData
	errors  map[uuid.UUID]string
	pending []models.Screening
	// pollQueued makes FindPendingJobs return every queued row on each call.
	pollQueued bool
}

func newFakeScreeningRepo() *fakeScreeningRepo {
	return &fakeScreeningRepo{
		jobs:    make(map[uuid.UUID]*models.Screening),
		results: make(map[uuid.UUID]*repositories.ScreeningUpdateData),
		errors:  make(map[uuid.UUID]string),
	}
}

func (f *fakeScreeningRepo) Create(s *models.Screening) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Status == "" {
		s.Status = models.StatusQueued
	}
	f.jobs[s.ID] = s
	return nil
}

func (f *fakeScreeningRepo) FindByID(id uuid.UUID) (*models.Screening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.jobs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeScreeningRepo) Claim(id uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.jobs[id]
	if !ok || s.Status != models.StatusQueued {
		return false, nil
	}
	s.Status = models.StatusProcessing
	return true, nil
}

func (f *fakeScreeningRepo) UpdateResult(id uuid.UUID, data *repositories.ScreeningUpdateData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[id] = data
	if s, ok := f.jobs[id]; ok {
		s.Status = models.StatusCompleted
	}
	return nil
}

func (f *fakeScreeningRepo) UpdateError(id uuid.UUID, msg string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors[id] = msg
	if s, ok := f.jobs[id]; ok {
		s.Status = models.StatusFailed
	}
	return nil
}

func (f *fakeScreeningRepo) FindPendingJobs(limit int) ([]models.Screening, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pollQueued {
		var out []models.Screening
		for _, s := range f.jobs {
			if s.Status == models.StatusQueued && len(out) < limit {
				out = append(out, *s)
			}
		}
		return out, nil
	}
	out := f.pending
	f.pending = nil
	return out, nil
}

func (f *fakeScreeningRepo) status(id uuid.UUID) models.ScreeningStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.jobs[id].Status
}

type fakeDocRepo struct {
	docs map[uuid.UUID]*models.Document
}

func (f *fakeDocRepo) Create(d *models.Document) error {
	if f.docs == nil {
		f.docs = make(map[uuid.UUID]*models.Document)
	}
	f.docs[d.ID] = d
	return nil
}

func (f *fakeDocRepo) FindByID(id uuid.UUID) (*models.Document, error) {
	d, ok := f.docs[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return d, nil
}

type screenCall struct {
	kind           string
	input          string
	jobDescription string
}

type fakeScreener struct {
	mu    sync.Mutex
	calls []screenCall
	state *screening.State
	err   error
	// gate, when set, holds every call until it is closed.
	gate chan struct{}
}

func (f *fakeScreener) record(ctx context.Context, kind, input, jd string) (*screening.State, error) {
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, screenCall{kind: kind, input: input, jobDescription: jd})
	if f.err != nil {
		return nil, f.err
	}
	st := *f.state
	st.JobDescription = jd
	return &st, nil
}

func (f *fakeScreener) ScreenText(ctx context.Context, resumeText, jd string) (*screening.State, error) {
	return f.record(ctx, "text", resumeText, jd)
}

func (f *fakeScreener) ScreenDocument(ctx context.Context, source, jd string) (*screening.State, error) {
	return f.record(ctx, "document", source, jd)
}

type staticJobContext struct {
	err error
}

func (s staticJobContext) Resolve(_ context.Context, title, desc string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if desc != "" {
		return desc, nil
	}
	return "retrieved:" + title, nil
}

type fakeEmbedder struct {
	queries []string
	err     error
}

func (f *fakeEmbedder) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	f.queries = append(f.queries, text)
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

type fakeStore struct {
	results []SearchResult
	docType string
	limit   int
	upserts []VectorDocument
}

func (f *fakeStore) InitCollection(context.Context) error { return nil }

func (f *fakeStore) UpsertDocument(_ context.Context, doc VectorDocument) error {
	f.upserts = append(f.upserts, doc)
	return nil
}

func (f *fakeStore) SearchSimilar(_ context.Context, _ []float32, docType string, limit int) ([]SearchResult, error) {
	f.docType = docType
	f.limit = limit
	return f.results, nil
}

func (f *fakeStore) DeleteDocument(context.Context, string) error { return nil }

func (f *fakeStore) Close() error { return nil }

func completedState() *screening.State {
	relevance := 82.0
	summary := "Strong backend profile."
	confidence := 88.0
	return &screening.State{
		ExperienceLevel:    screening.ExperienceSenior,
		SkillMatch:         screening.SkillsMatch,
		RelevanceScore:     &relevance,
		AnalysisSummary:    &summary,
		AgentDecision:      screening.DecisionScheduleInterview,
		FinalDecision:      screening.DecisionScheduleInterview,
		ConfidenceScore:    &confidence,
		ReflectionAttempts: 1,
		Path: []string{
			screening.StageClassifyExperience,
			screening.StageAssessSkillMatch,
			screening.StageDeepAnalysis,
			screening.StageHiringDecision,
			screening.StageReflection,
			screening.StageConfidence,
		},
	}
}

func uuidForTest() uuid.UUID { return uuid.New() }
