// Package questions generates the scripted question catalog an interview is
// conducted from.
package questions

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

// Generator produces interview question catalogs from a job description and
// resume.
type Generator struct {
	completer llm.Completer
}

// NewGenerator creates a Generator using the injected completion capability.
func NewGenerator(completer llm.Completer) *Generator {
	return &Generator{completer: completer}
}

// Generate builds a fresh question catalog. The caller resolves ResumeURL to
// text before calling; Generate only consumes ResumeText.
func (g *Generator) Generate(ctx context.Context, req *types.GenerateQuestionsRequest) (*types.QuestionCatalog, error) {
	template := prompts.MustGet("questions.json", "generate-catalog")
	prompt := prompts.Format(template, map[string]string{
		"Post":           req.Post,
		"InterviewType":  string(req.InterviewType),
		"Duration":       req.Duration,
		"JobDescription": strings.TrimSpace(req.JobDescription),
		"ResumeText":     strings.TrimSpace(req.ResumeText),
	})

	raw, attempts, err := llm.WithRetry(ctx, llm.DefaultRetryConfig(), func(ctx context.Context) (string, error) {
		return g.completer.CompleteJSON(ctx, prompt)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate question catalog after %d attempts: %w", attempts, err)
	}

	catalog, err := parseCatalog(raw)
	if err != nil {
		return nil, err
	}

	Normalize(catalog)
	log.Printf("[questions] generated catalog: %d questions for post %q", len(catalog.Questions), req.Post)
	return catalog, nil
}

func parseCatalog(raw string) (*types.QuestionCatalog, error) {
	cleaned := llm.CleanJSONBlock(raw)

	var catalog types.QuestionCatalog
	if err := json.Unmarshal([]byte(cleaned), &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse question catalog: %w", err)
	}
	if len(catalog.Questions) == 0 {
		return nil, fmt.Errorf("question catalog is empty")
	}
	for i, q := range catalog.Questions {
		if strings.TrimSpace(q.Question) == "" {
			return nil, fmt.Errorf("question %d has empty text", i+1)
		}
	}
	return &catalog, nil
}

// Normalize rewrites question ids to their one-based catalog position. Model
// output occasionally numbers from zero or skips ids; downstream turn logic
// relies on id and position agreeing.
func Normalize(catalog *types.QuestionCatalog) {
	for i := range catalog.Questions {
		catalog.Questions[i].ID = i + 1
	}
}
