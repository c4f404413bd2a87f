package types

import (
	"github.com/go-playground/validator/v10"
)

// FeedbackRequest carries the completed interview into the feedback agent.
type FeedbackRequest struct {
	Post           string        `json:"post" validate:"required"`
	JobDescription string        `json:"jobDescription"`
	ResumeData     string        `json:"resume_data"`
	Transcript     []Message     `json:"transcript" validate:"required,min=1,dive"`
	QuestionList   []Question    `json:"question_list" validate:"omitempty,dive"`
	InterviewType  InterviewType `json:"interview_type" validate:"required,oneof=TECHNICAL HR SYSTEM_DESIGN BEHAVIORAL"`
}

// FeedbackParsed is the machine-readable envelope extracted from the report.
type FeedbackParsed struct {
	FeedbackStr   string   `json:"feedBackStr"`
	OverallRating int      `json:"overall_rating"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
}

// FeedbackMeta records how the report was produced.
type FeedbackMeta struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	Attempts    int     `json:"attempts"`
	ParseError  string  `json:"parse_error,omitempty"`
	LastError   string  `json:"last_error,omitempty"`
}

// FeedbackResult is the discriminated result of a feedback generation call.
// Success with Parsed == nil means the model responded but the envelope could
// not be parsed; Raw still holds the usable narrative.
type FeedbackResult struct {
	Success bool            `json:"success"`
	Parsed  *FeedbackParsed `json:"parsed"`
	Raw     string          `json:"raw,omitempty"`
	Error   string          `json:"error,omitempty"`
	Meta    FeedbackMeta    `json:"meta"`
}

// Validate validates the FeedbackRequest using the validator.
func (r *FeedbackRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
