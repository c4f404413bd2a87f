package types

import (
	"github.com/go-playground/validator/v10"
)

// SkillGap scores hard-skill matching between résumé and job description.
type SkillGap struct {
	Score      int      `json:"score"`
	Matched    []string `json:"matched"`
	Missing    []string `json:"missing"`
	Suggestion string   `json:"suggestion"`
}

// ImpactAnalysis scores quantified results and action-verb usage.
type ImpactAnalysis struct {
	QuantificationScore int    `json:"quantification_score"`
	ActionVerbsScore    int    `json:"action_verbs_score"`
	Suggestion          string `json:"suggestion"`
}

// ATSCheck scores section headers and formatting health.
type ATSCheck struct {
	Score            int      `json:"score"`
	DetectedSections []string `json:"detected_sections"`
	FormattingIssues []string `json:"formatting_issues"`
}

// Essentials scores contact information and profile links.
type Essentials struct {
	Score              int  `json:"score"`
	ContactInfoPresent bool `json:"contact_info_present"`
	LinksPresent       bool `json:"links_present"`
}

// JobAlignment scores experience level and title match against the JD.
type JobAlignment struct {
	Score       int    `json:"score"`
	MatchStatus string `json:"match_status"`
	Suggestion  string `json:"suggestion"`
}

// AnalysisResult is the fixed scoring schema for résumé analysis. Sub-score
// ceilings sum to 100: relevance 20, impact 25, ATS 20, essentials 10,
// alignment 25. The analyzer always returns a value of this shape, degrading
// to the deterministic fallback when the model is unavailable.
type AnalysisResult struct {
	TotalScore       int            `json:"total_score"`
	Summary          string         `json:"summary"`
	Relevance        SkillGap       `json:"relevance"`
	Impact           ImpactAnalysis `json:"impact"`
	ATSCompatibility ATSCheck       `json:"ats_compatibility"`
	Essentials       Essentials     `json:"essentials"`
	JDAlignment      JobAlignment   `json:"jd_alignment"`
}

// AnalyzeRequest triggers a background résumé analysis.
type AnalyzeRequest struct {
	ResumeID       string `json:"resumeId" validate:"required,uuid"`
	FileURL        string `json:"fileUrl" validate:"required,url"`
	JobDescription string `json:"jobDescription" validate:"required"`
}

// Validate validates the AnalyzeRequest using the validator.
func (r *AnalyzeRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
