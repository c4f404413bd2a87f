// Package feedback generates the post-interview evaluation report.
package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/prompts"
	"github.com/jonathan/interview-agent/internal/types"
)

// Rating bounds for the machine-readable envelope.
const (
	minRating = 1
	maxRating = 10
)

// Generator produces feedback reports from a finished interview transcript.
type Generator struct {
	completer   llm.Completer
	model       string
	temperature float32
	retry       llm.RetryConfig
}

// NewGenerator creates a Generator. Model and temperature are recorded in the
// result metadata so callers can see how a report was produced.
func NewGenerator(completer llm.Completer, model string, temperature float32) *Generator {
	return &Generator{
		completer:   completer,
		model:       model,
		temperature: temperature,
		retry:       llm.DefaultRetryConfig(),
	}
}

// envelope is the trailing JSON object the report prompt asks for.
type envelope struct {
	OverallRating int      `json:"overall_rating"`
	Strengths     []string `json:"strengths"`
	Improvements  []string `json:"improvements"`
	FeedbackText  string   `json:"feedback_text"`
}

// Generate produces the feedback report. It never returns an error: transport
// exhaustion yields a failed result, and a report whose envelope cannot be
// parsed is still a success carrying the raw narrative.
func (g *Generator) Generate(ctx context.Context, req *types.FeedbackRequest) *types.FeedbackResult {
	prompt := g.buildPrompt(req)

	raw, attempts, err := llm.WithRetry(ctx, g.retry, func(ctx context.Context) (string, error) {
		return g.completer.Complete(ctx, prompt)
	})

	meta := types.FeedbackMeta{
		Model:       g.model,
		Temperature: g.temperature,
		Attempts:    attempts,
	}

	if err != nil {
		log.Printf("[feedback] generation failed after %d attempts: %v", attempts, err)
		meta.LastError = err.Error()
		return &types.FeedbackResult{
			Success: false,
			Error:   "feedback generation failed",
			Meta:    meta,
		}
	}

	raw = strings.TrimSpace(raw)

	parsed, parseErr := parseEnvelope(raw)
	if parseErr != nil {
		// The narrative is still useful without the envelope.
		meta.ParseError = parseErr.Error()
		return &types.FeedbackResult{
			Success: true,
			Raw:     raw,
			Meta:    meta,
		}
	}

	return &types.FeedbackResult{
		Success: true,
		Parsed:  parsed,
		Raw:     raw,
		Meta:    meta,
	}
}

func (g *Generator) buildPrompt(req *types.FeedbackRequest) string {
	template := prompts.MustGet("feedback.json", "report")
	return prompts.Format(template, map[string]string{
		"Post":           req.Post,
		"InterviewType":  string(req.InterviewType),
		"JobDescription": strings.TrimSpace(req.JobDescription),
		"ResumeData":     strings.TrimSpace(req.ResumeData),
		"Transcript":     formatTranscript(req.Transcript),
		"Questions":      formatQuestions(req.QuestionList),
	})
}

// parseEnvelope extracts and validates the trailing JSON object from the
// report text. The rating is clamped into the documented range rather than
// rejected; a report with a wild rating is still a report.
func parseEnvelope(raw string) (*types.FeedbackParsed, error) {
	obj := llm.FirstJSONObject(raw)
	if obj == "" {
		return nil, fmt.Errorf("no JSON envelope found in report")
	}

	var env envelope
	if err := json.Unmarshal([]byte(obj), &env); err != nil {
		return nil, fmt.Errorf("failed to parse report envelope: %w", err)
	}

	feedbackStr := strings.TrimSpace(env.FeedbackText)
	if feedbackStr == "" {
		feedbackStr = strings.TrimSpace(strings.Replace(raw, obj, "", 1))
	}
	if feedbackStr == "" {
		return nil, fmt.Errorf("report envelope has no feedback text")
	}

	return &types.FeedbackParsed{
		FeedbackStr:   feedbackStr,
		OverallRating: clampRating(env.OverallRating),
		Strengths:     env.Strengths,
		Improvements:  env.Improvements,
	}, nil
}

func clampRating(rating int) int {
	if rating < minRating {
		return minRating
	}
	if rating > maxRating {
		return maxRating
	}
	return rating
}

func formatTranscript(messages []types.Message) string {
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(fmt.Sprintf("%s: %s\n", m.Role, m.Content))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatQuestions(questions []types.Question) string {
	if len(questions) == 0 {
		return "(not provided)"
	}
	var sb strings.Builder
	for _, q := range questions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", q.ID, q.Question))
	}
	return strings.TrimRight(sb.String(), "\n")
}
