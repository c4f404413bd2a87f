// Package types provides type definitions for structured data used throughout the interview-agent system.
package types

import (
	"github.com/go-playground/validator/v10"
)

// Role identifies the speaker of a transcript turn.
type Role string

// Transcript roles
const (
	// RoleInterviewer marks turns spoken by the agent
	RoleInterviewer Role = "interviewer"
	// RoleCandidate marks turns spoken by the candidate
	RoleCandidate Role = "candidate"
)

// InterviewType categorizes the interview focus.
type InterviewType string

// Interview types accepted by the question generator and feedback agent
const (
	InterviewTypeTechnical    InterviewType = "TECHNICAL"
	InterviewTypeHR           InterviewType = "HR"
	InterviewTypeSystemDesign InterviewType = "SYSTEM_DESIGN"
	InterviewTypeBehavioral   InterviewType = "BEHAVIORAL"
)

// Question is one entry of the interview catalog. The catalog is generated
// once before the interview starts and is immutable afterwards; ordering
// defines the canonical sequence of the interview.
type Question struct {
	ID       int    `json:"id"`
	Question string `json:"question" validate:"required"`
}

// Message is one utterance in the interview transcript. QuestionID is set on
// interviewer turns that asked a scripted catalog question; candidate turns
// never carry it.
type Message struct {
	Role       Role   `json:"role" validate:"required,oneof=interviewer candidate"`
	Content    string `json:"content"`
	QuestionID *int   `json:"question_id,omitempty"`
}

// InterviewTurnRequest is the full per-turn input. The caller resends the
// catalog and the complete message history on every call; the agent holds no
// session state of its own.
type InterviewTurnRequest struct {
	Post                 string     `json:"post" validate:"required"`
	JobDescription       string     `json:"job_description"`
	ResumeText           string     `json:"resume_text"`
	Questions            []Question `json:"questions" validate:"required,min=1,dive"`
	Messages             []Message  `json:"messages" validate:"omitempty,dive"`
	TimeLeftMS           *int64     `json:"time_left_ms"`
	ForceNext            bool       `json:"force_next"`
	LastQuestionAnswered bool       `json:"last_question_answered"`
}

// InterviewTurnResponse is the agent's next action. QuestionID is nil exactly
// when the interview is ending or the emitted text does not itself pose an
// identified scripted question.
type InterviewTurnResponse struct {
	AIResponse   string `json:"AIResponse"`
	EndInterview bool   `json:"endInterview"`
	QuestionID   *int   `json:"question_id"`
	LastQuestion bool   `json:"lastQuestion"`
}

// GenerateQuestionsRequest asks the question generator for a fresh catalog.
// Exactly one of ResumeURL or ResumeText must be set.
type GenerateQuestionsRequest struct {
	Post           string        `json:"post" validate:"required"`
	JobDescription string        `json:"job_description" validate:"required"`
	ResumeURL      string        `json:"resume_url" validate:"omitempty,url"`
	ResumeText     string        `json:"resume_text"`
	InterviewType  InterviewType `json:"interview_type" validate:"required,oneof=TECHNICAL HR SYSTEM_DESIGN BEHAVIORAL"`
	Duration       string        `json:"duration" validate:"required"`
}

// QuestionCatalog is the question generator's structured output.
type QuestionCatalog struct {
	Questions        []Question `json:"questions"`
	InterviewSummary string     `json:"interview_summary"`
}

// Validate validates the InterviewTurnRequest using the validator.
func (r *InterviewTurnRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the GenerateQuestionsRequest using the validator.
func (r *GenerateQuestionsRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
