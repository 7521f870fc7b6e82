package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"alfredoptarigan/hiring-agent/internal/config"
	"alfredoptarigan/hiring-agent/internal/logger"
	"alfredoptarigan/hiring-agent/internal/models"
	"alfredoptarigan/hiring-agent/internal/repositories"
	"alfredoptarigan/hiring-agent/internal/screening"
)

// ErrNoResumeText means a screening request carried neither resume text nor a document.
var ErrNoResumeText = errors.New("resume text or document id is required")

// Screener is the part of *screening.Screener the service drives.
type Screener interface {
	ScreenText(ctx context.Context, resumeText, jobDescription string) (*screening.State, error)
	ScreenDocument(ctx context.Context, source, jobDescription string) (*screening.State, error)
}

// NewScreener builds the workflow engine from configuration.
func NewScreener(cfg *config.Config, completer screening.Completer, extractor screening.PageExtractor, log *zap.Logger) (*screening.Screener, error) {
	return screening.NewScreener(completer,
		screening.WithLogger(log),
		screening.WithExtractor(extractor),
		screening.WithMaxReflectionAttempts(cfg.Screening.MaxReflectionAttempts),
		screening.WithConfidenceThreshold(cfg.Screening.ConfidenceThreshold),
		screening.WithCallTimeout(cfg.Reasoning.Timeout),
		screening.WithSummary(cfg.Screening.Summarize),
		screening.WithStrictPolicy(cfg.Screening.StrictPolicy),
		screening.WithMaxLogLength(cfg.Screening.MaxLogLength),
	)
}

type ScreeningInput struct {
	ResumeText     string
	DocumentID     *uuid.UUID
	JobTitle       string
	JobDescription string
}

type ScreeningService interface {
	// Screen runs one screening synchronously.
	Screen(ctx context.Context, in ScreeningInput) (*screening.State, error)
	// ProcessScreening runs a persisted job and stores its outcome.
	ProcessScreening(ctx context.Context, id uuid.UUID) error
}

type screeningService struct {
	screenRepo repositories.ScreeningRepository
	docRepo    repositories.DocumentRepository
	screener   Screener
	jobContext JobContextService
	logger     *zap.Logger
}

func NewScreeningService(
	screenRepo repositories.ScreeningRepository,
	docRepo repositories.DocumentRepository,
	screener Screener,
	jobContext JobContextService,
	log *zap.Logger,
) ScreeningService {
	return &screeningService{
		screenRepo: screenRepo,
		docRepo:    docRepo,
		screener:   screener,
		jobContext: jobContext,
		logger:     logger.OrNop(log).Named("screening_service"),
	}
}

func (s *screeningService) Screen(ctx context.Context, in ScreeningInput) (*screening.State, error) {
	if in.DocumentID == nil && strings.TrimSpace(in.ResumeText) == "" {
		return nil, ErrNoResumeText
	}

	jobDescription, err := s.jobContext.Resolve(ctx, in.JobTitle, in.JobDescription)
	if err != nil {
		return nil, err
	}

	if in.DocumentID != nil {
		doc, err := s.docRepo.FindByID(*in.DocumentID)
		if err != nil {
			return nil, err
		}
		return s.screener.ScreenDocument(ctx, doc.FilePath, jobDescription)
	}

	return s.screener.ScreenText(ctx, in.ResumeText, jobDescription)
}

func (s *screeningService) ProcessScreening(ctx context.Context, id uuid.UUID) error {
	log := s.logger.With(zap.String(logger.FieldScreeningID, id.String()))

	claimed, err := s.screenRepo.Claim(id)
	if err != nil {
		return err
	}
	if !claimed {
		log.Debug("screening already claimed, skipping")
		return nil
	}

	job, err := s.screenRepo.FindByID(id)
	if err != nil {
		return s.fail(id, err)
	}

	started := time.Now()
	log.Info("screening started")

	state, err := s.Screen(ctx, ScreeningInput{
		ResumeText:     job.ResumeText,
		DocumentID:     job.DocumentID,
		JobTitle:       job.JobTitle,
		JobDescription: job.JobDescription,
	})
	if err != nil {
		return s.fail(id, err)
	}

	if err := s.screenRepo.UpdateResult(id, UpdateDataFromState(state)); err != nil {
		return fmt.Errorf("failed to store screening result: %w", err)
	}

	log.Info("screening stored",
		zap.String("final_decision", string(state.FinalDecision)),
		zap.Duration("elapsed", time.Since(started)),
	)

	return nil
}

func (s *screeningService) fail(id uuid.UUID, cause error) error {
	if err := s.screenRepo.UpdateError(id, cause.Error()); err != nil {
		s.logger.Error("failed to record screening error",
			zap.String(logger.FieldScreeningID, id.String()),
			zap.Error(err),
		)
	}
	return fmt.Errorf("screening %s failed: %w", id, cause)
}

// UpdateDataFromState maps a finished run onto the persisted columns.
func UpdateDataFromState(st *screening.State) *repositories.ScreeningUpdateData {
	data := &repositories.ScreeningUpdateData{
		RelevanceScore:     st.RelevanceScore,
		AnalysisSummary:    st.AnalysisSummary,
		ConfidenceScore:    st.ConfidenceScore,
		ReflectionAttempts: st.ReflectionAttempts,
		PolicyOverride:     st.PolicyOverride,
		JobDescription:     optionalString(st.JobDescription),
		ExperienceLevel:    optionalString(string(st.ExperienceLevel)),
		SkillMatch:         optionalString(string(st.SkillMatch)),
		AgentDecision:      optionalString(string(st.AgentDecision)),
		FinalDecision:      optionalString(string(st.FinalDecision)),
		HaltReason:         optionalString(st.HaltReason),
		StagePath:          optionalString(strings.Join(st.Path, ",")),
		Unrecognized:       optionalString(strings.Join(st.Unrecognized, ",")),
	}
	return data
}

// ResultFromScreening rebuilds the response payload from a stored job.
func ResultFromScreening(s *models.Screening) *models.ScreeningData {
	return &models.ScreeningData{
		ExperienceLevel:    derefString(s.ExperienceLevel),
		SkillMatch:         derefString(s.SkillMatch),
		RelevanceScore:     s.RelevanceScore,
		AnalysisSummary:    s.AnalysisSummary,
		AgentDecision:      derefString(s.AgentDecision),
		FinalDecision:      derefString(s.FinalDecision),
		ConfidenceScore:    s.ConfidenceScore,
		ReflectionAttempts: s.ReflectionAttempts,
		Path:               splitList(s.StagePath),
		Unrecognized:       splitList(s.Unrecognized),
		PolicyOverride:     s.PolicyOverride,
		HaltReason:         derefString(s.HaltReason),
	}
}

// ResultFromState builds the response payload straight from a run.
func ResultFromState(st *screening.State) *models.ScreeningData {
	return &models.ScreeningData{
		ExperienceLevel:    string(st.ExperienceLevel),
		SkillMatch:         string(st.SkillMatch),
		RelevanceScore:     st.RelevanceScore,
		AnalysisSummary:    st.AnalysisSummary,
		AgentDecision:      string(st.AgentDecision),
		FinalDecision:      string(st.FinalDecision),
		ConfidenceScore:    st.ConfidenceScore,
		ReflectionAttempts: st.ReflectionAttempts,
		Path:               st.Path,
		Unrecognized:       st.Unrecognized,
		PolicyOverride:     st.PolicyOverride,
		HaltReason:         st.HaltReason,
	}
}

func optionalString(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func splitList(v *string) []string {
	if v == nil || *v == "" {
		return nil
	}
	return strings.Split(*v, ",")
}
