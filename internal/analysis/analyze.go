package analysis

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/prompts"
	"github.com/jonathan/interview-agent/internal/schemas"
	"github.com/jonathan/interview-agent/internal/types"
)

// Analyzer scores a resume against a job description using the model, with a
// deterministic fallback so a score is always produced.
type Analyzer struct {
	completer llm.Completer
	retry     llm.RetryConfig
}

// NewAnalyzer creates an Analyzer using the injected completion capability.
// Only quota exhaustion is retried; other failures go straight to the
// fallback because retrying them rarely changes the outcome.
func NewAnalyzer(completer llm.Completer) *Analyzer {
	cfg := llm.DefaultRetryConfig()
	cfg.RetryIf = llm.IsRateLimited
	return &Analyzer{completer: completer, retry: cfg}
}

// Analyze scores the resume. It never returns an error; every failure mode
// degrades to FallbackScore so callers always receive a usable result.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescription string) *types.AnalysisResult {
	formattingIssues := CheckFormatting(resumeText)
	prompt := a.buildPrompt(resumeText, jobDescription, formattingIssues)

	raw, attempts, err := llm.WithRetry(ctx, a.retry, func(ctx context.Context) (string, error) {
		return a.completer.CompleteJSON(ctx, prompt)
	})
	if err != nil {
		log.Printf("[analysis] model scoring failed after %d attempts, using fallback: %v", attempts, err)
		return FallbackScore(resumeText, jobDescription, formattingIssues)
	}

	result, err := parseResult(raw)
	if err != nil {
		log.Printf("[analysis] model output rejected, using fallback: %v", err)
		return FallbackScore(resumeText, jobDescription, formattingIssues)
	}

	// The model sees the detected issues but does not always echo them back.
	if len(result.ATSCompatibility.FormattingIssues) == 0 {
		result.ATSCompatibility.FormattingIssues = formattingIssues
	}

	return result
}

func (a *Analyzer) buildPrompt(resumeText, jobDescription string, formattingIssues []string) string {
	issuesText := "None detected."
	if len(formattingIssues) > 0 {
		issuesText = "- " + strings.Join(formattingIssues, "\n- ")
	}

	template := prompts.MustGet("analysis.json", "score-resume")
	return prompts.Format(template, map[string]string{
		"FormattingIssues": issuesText,
		"JDText":           strings.TrimSpace(jobDescription),
		"ResumeText":       strings.TrimSpace(resumeText),
	})
}

// parseResult schema-validates the raw model output for structural
// completeness, then unmarshals and clamps scores into their ceilings.
// Validation runs on the raw document because missing sections disappear
// behind Go zero values once unmarshaled.
func parseResult(raw string) (*types.AnalysisResult, error) {
	cleaned := llm.CleanJSONBlock(raw)

	if err := schemas.ValidateAnalysisResult(cleaned); err != nil {
		return nil, err
	}

	var result types.AnalysisResult
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, err
	}

	clampResult(&result)
	return &result, nil
}

// clampResult forces every sub-score into its documented ceiling and repairs
// the derived fields. Models drift on arithmetic; the clamp keeps a mostly
// correct response usable instead of discarding it.
func clampResult(r *types.AnalysisResult) {
	r.Relevance.Score = clampInt(r.Relevance.Score, 0, 20)
	r.Impact.QuantificationScore = clampInt(r.Impact.QuantificationScore, 0, 15)
	r.Impact.ActionVerbsScore = clampInt(r.Impact.ActionVerbsScore, 0, 10)
	r.ATSCompatibility.Score = clampInt(r.ATSCompatibility.Score, 0, 20)
	r.Essentials.Score = clampInt(r.Essentials.Score, 0, 10)
	r.JDAlignment.Score = clampInt(r.JDAlignment.Score, 0, 25)

	switch r.JDAlignment.MatchStatus {
	case "High", "Medium", "Low":
	default:
		r.JDAlignment.MatchStatus = matchStatusForScore(r.JDAlignment.Score)
	}

	computed := r.Relevance.Score +
		r.Impact.QuantificationScore + r.Impact.ActionVerbsScore +
		r.ATSCompatibility.Score +
		r.Essentials.Score +
		r.JDAlignment.Score
	if r.TotalScore < 0 || r.TotalScore > 100 {
		r.TotalScore = computed
	}
}
