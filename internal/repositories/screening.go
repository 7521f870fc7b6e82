package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"alfredoptarigan/hiring-agent/internal/models"
)

type ScreeningRepository interface {
	Create(s *models.Screening) error
	FindByID(id uuid.UUID) (*models.Screening, error)
	// Claim moves a queued job to processing. It reports false when another
	// worker already took the job.
	Claim(id uuid.UUID) (bool, error)
	UpdateResult(id uuid.UUID, result *ScreeningUpdateData) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPendingJobs(limit int) ([]models.Screening, error)
}

// ScreeningUpdateData is the outcome written back when a screening completes.
// Nil fields are left untouched.
type ScreeningUpdateData struct {
	JobDescription     *string
	ExperienceLevel    *string
	SkillMatch         *string
	RelevanceScore     *float64
	AnalysisSummary    *string
	AgentDecision      *string
	FinalDecision      *string
	ConfidenceScore    *float64
	ReflectionAttempts int
	StagePath          *string
	Unrecognized       *string
	PolicyOverride     bool
	HaltReason         *string
}

type screeningRepository struct {
	db *gorm.DB
}

func NewScreeningRepository(db *gorm.DB) ScreeningRepository {
	return &screeningRepository{db: db}
}

func (r *screeningRepository) Create(s *models.Screening) error {
	if err := r.db.Create(s).Error; err != nil {
		return fmt.Errorf("failed to create screening: %w", err)
	}
	return nil
}

func (r *screeningRepository) FindByID(id uuid.UUID) (*models.Screening, error) {
	var s models.Screening
	if err := r.db.Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("screening %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find screening: %w", err)
	}
	return &s, nil
}

func (r *screeningRepository) Claim(id uuid.UUID) (bool, error) {
	result := r.db.Model(&models.Screening{}).
		Where("id = ? AND status = ?", id, models.StatusQueued).
		Updates(map[string]interface{}{
			"status":     models.StatusProcessing,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, fmt.Errorf("failed to claim screening: %w", result.Error)
	}

	return result.RowsAffected == 1, nil
}

func (r *screeningRepository) UpdateResult(id uuid.UUID, data *ScreeningUpdateData) error {
	updates := map[string]interface{}{
		"status":              models.StatusCompleted,
		"reflection_attempts": data.ReflectionAttempts,
		"policy_override":     data.PolicyOverride,
		"updated_at":          time.Now(),
	}

	optional := map[string]interface{}{
		"job_description":  data.JobDescription,
		"experience_level": data.ExperienceLevel,
		"skill_match":      data.SkillMatch,
		"relevance_score":  data.RelevanceScore,
		"analysis_summary": data.AnalysisSummary,
		"agent_decision":   data.AgentDecision,
		"final_decision":   data.FinalDecision,
		"confidence_score": data.ConfidenceScore,
		"stage_path":       data.StagePath,
		"unrecognized":     data.Unrecognized,
		"halt_reason":      data.HaltReason,
	}
	for column, value := range optional {
		switch v := value.(type) {
		case *string:
			if v != nil {
				updates[column] = *v
			}
		case *float64:
			if v != nil {
				updates[column] = *v
			}
		}
	}

	result := r.db.Model(&models.Screening{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("screening %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *screeningRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Screening{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return fmt.Errorf("screening %s: %w", id, ErrNotFound)
	}

	return nil
}

func (r *screeningRepository) FindPendingJobs(limit int) ([]models.Screening, error) {
	var jobs []models.Screening
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error

	if err != nil {
		return nil, fmt.Errorf("failed to find pending jobs: %w", err)
	}

	return jobs, nil
}
