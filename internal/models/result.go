package models

type UploadResponse struct {
	ID           string `json:"id"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	FileType     string `json:"file_type"`
}

// ScreenRequest carries a resume (inline text or an uploaded document) and a
// job (inline description or a title resolved against stored descriptions).
type ScreenRequest struct {
	ResumeText     string `json:"resume_text"`
	DocumentID     string `json:"document_id"`
	JobTitle       string `json:"job_title"`
	JobDescription string `json:"job_description"`
}

type ScreenResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ResultResponse struct {
	ID           string         `json:"id"`
	Status       string         `json:"status"`
	Result       *ScreeningData `json:"result,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
}

type ScreeningData struct {
	ExperienceLevel    string   `json:"experience_level"`
	SkillMatch         string   `json:"skill_match"`
	RelevanceScore     *float64 `json:"relevance_score,omitempty"`
	AnalysisSummary    *string  `json:"analysis_summary,omitempty"`
	AgentDecision      string   `json:"agent_decision"`
	FinalDecision      string   `json:"final_decision"`
	ConfidenceScore    *float64 `json:"confidence_score,omitempty"`
	ReflectionAttempts int      `json:"reflection_attempts"`
	Path               []string `json:"path,omitempty"`
	Unrecognized       []string `json:"unrecognized,omitempty"`
	PolicyOverride     bool     `json:"policy_override,omitempty"`
	HaltReason         string   `json:"halt_reason,omitempty"`
}
