package models

import (
	"time"

	"github.com/google/uuid"
)

type ScreeningStatus string

const (
	StatusQueued     ScreeningStatus = "queued"
	StatusProcessing ScreeningStatus = "processing"
	StatusCompleted  ScreeningStatus = "completed"
	StatusFailed     ScreeningStatus = "failed"
)

// Screening is one persisted screening job and, once completed, its outcome.
// Either ResumeText or DocumentID carries the resume.
type Screening struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	JobTitle           string          `gorm:"type:text" json:"job_title"`
	JobDescription     string          `gorm:"type:text" json:"job_description,omitempty"`
	ResumeText         string          `gorm:"type:text" json:"-"`
	DocumentID         *uuid.UUID      `gorm:"type:uuid" json:"document_id,omitempty"`
	Status             ScreeningStatus `gorm:"not null;default:'queued'" json:"status"`
	ExperienceLevel    *string         `gorm:"type:text" json:"experience_level,omitempty"`
	SkillMatch         *string         `gorm:"type:text" json:"skill_match,omitempty"`
	RelevanceScore     *float64        `gorm:"type:decimal(5,2)" json:"relevance_score,omitempty"`
	AnalysisSummary    *string         `gorm:"type:text" json:"analysis_summary,omitempty"`
	AgentDecision      *string         `gorm:"type:text" json:"agent_decision,omitempty"`
	FinalDecision      *string         `gorm:"type:text" json:"final_decision,omitempty"`
	ConfidenceScore    *float64        `gorm:"type:decimal(5,2)" json:"confidence_score,omitempty"`
	ReflectionAttempts int             `gorm:"not null;default:0" json:"reflection_attempts"`
	StagePath          *string         `gorm:"type:text" json:"stage_path,omitempty"`
	Unrecognized       *string         `gorm:"type:text" json:"unrecognized,omitempty"`
	PolicyOverride     bool            `gorm:"not null;default:false" json:"policy_override"`
	HaltReason         *string         `gorm:"type:text" json:"halt_reason,omitempty"`
	ErrorMessage       *string         `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt          time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	Document *Document `gorm:"foreignKey:DocumentID" json:"-"`
}

func (Screening) TableName() string {
	return "screenings"
}
