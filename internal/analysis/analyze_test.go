package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/types"
)

type stubCompleter struct {
	responses []string
	errs      []error
	calls     int
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	i := s.calls
	s.calls++
	var err error
	if i < len(s.errs) {
		err = s.errs[i]
	}
	var text string
	if i < len(s.responses) {
		text = s.responses[i]
	}
	return text, err
}

func (s *stubCompleter) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return s.Complete(ctx, prompt)
}

func fastAnalyzer(c llm.Completer) *Analyzer {
	a := NewAnalyzer(c)
	a.retry.InitialDelay = time.Millisecond
	a.retry.MaxDelay = time.Millisecond
	return a
}

func modelResult(t *testing.T) string {
	t.Helper()
	result := types.AnalysisResult{
		TotalScore: 70,
		Summary:    "Solid backend candidate.",
		Relevance:  types.SkillGap{Score: 14, Matched: []string{"Go"}, Missing: []string{"Kubernetes"}, Suggestion: "s"},
		Impact:     types.ImpactAnalysis{QuantificationScore: 11, ActionVerbsScore: 7, Suggestion: "s"},
		ATSCompatibility: types.ATSCheck{
			Score:            16,
			DetectedSections: []string{"Experience"},
		},
		Essentials:  types.Essentials{Score: 8, ContactInfoPresent: true, LinksPresent: false},
		JDAlignment: types.JobAlignment{Score: 14, MatchStatus: "Medium", Suggestion: "s"},
	}
	data, err := json.Marshal(result)
	require.NoError(t, err)
	return string(data)
}

func TestAnalyze_ModelResult(t *testing.T) {
	completer := &stubCompleter{responses: []string{modelResult(t)}}
	a := fastAnalyzer(completer)

	result := a.Analyze(context.Background(), "resume text with jane@example.com contact", "jd text")

	assert.Equal(t, 70, result.TotalScore)
	assert.Equal(t, "Solid backend candidate.", result.Summary)
	assert.Equal(t, 1, completer.calls)
}

func TestAnalyze_FallbackOnTransportError(t *testing.T) {
	transportErr := &llm.TransportError{Op: "generate_json", Model: "gemini-2.5-pro", Cause: errors.New("503")}
	completer := &stubCompleter{errs: []error{transportErr}}
	a := fastAnalyzer(completer)

	result := a.Analyze(context.Background(), "resume text", "jd text")

	require.NotNil(t, result)
	assert.Contains(t, result.Summary, "Baseline automated assessment")
	// Non-quota transport failures are not retried.
	assert.Equal(t, 1, completer.calls)
}

func TestAnalyze_RetriesQuotaErrors(t *testing.T) {
	quotaErr := &llm.TransportError{Op: "generate_json", Model: "gemini-2.5-pro", Cause: errors.New("429 RESOURCE_EXHAUSTED: quota exceeded")}
	completer := &stubCompleter{
		responses: []string{"", modelResult(t)},
		errs:      []error{quotaErr, nil},
	}
	a := fastAnalyzer(completer)

	result := a.Analyze(context.Background(), "resume text", "jd text")

	assert.Equal(t, 70, result.TotalScore)
	assert.Equal(t, 2, completer.calls)
}

func TestAnalyze_FallbackOnMalformedJSON(t *testing.T) {
	completer := &stubCompleter{responses: []string{"not json"}}
	a := fastAnalyzer(completer)

	result := a.Analyze(context.Background(), "resume text", "jd text")
	assert.Contains(t, result.Summary, "Baseline automated assessment")
}

func TestAnalyze_FallbackOnSchemaViolation(t *testing.T) {
	// Missing required sections entirely.
	completer := &stubCompleter{responses: []string{`{"total_score": 50, "summary": "partial"}`}}
	a := fastAnalyzer(completer)

	result := a.Analyze(context.Background(), "resume text", "jd text")
	assert.Contains(t, result.Summary, "Baseline automated assessment")
}

func TestAnalyze_FormattingIssuesInjected(t *testing.T) {
	completer := &stubCompleter{responses: []string{modelResult(t)}}
	a := fastAnalyzer(completer)

	fragmented := ""
	for i := 0; i < 20; i++ {
		fragmented += "Go\nSQL\n"
	}

	result := a.Analyze(context.Background(), fragmented, "jd text")
	require.NotEmpty(t, result.ATSCompatibility.FormattingIssues)
	assert.Contains(t, result.ATSCompatibility.FormattingIssues[0], "fragmented")
}

func TestClampResult(t *testing.T) {
	r := &types.AnalysisResult{
		TotalScore:       250,
		Relevance:        types.SkillGap{Score: 99},
		Impact:           types.ImpactAnalysis{QuantificationScore: 40, ActionVerbsScore: -2},
		ATSCompatibility: types.ATSCheck{Score: 21},
		Essentials:       types.Essentials{Score: 11},
		JDAlignment:      types.JobAlignment{Score: 30, MatchStatus: "Excellent"},
	}

	clampResult(r)

	assert.Equal(t, 20, r.Relevance.Score)
	assert.Equal(t, 15, r.Impact.QuantificationScore)
	assert.Equal(t, 0, r.Impact.ActionVerbsScore)
	assert.Equal(t, 20, r.ATSCompatibility.Score)
	assert.Equal(t, 10, r.Essentials.Score)
	assert.Equal(t, 25, r.JDAlignment.Score)
	assert.Equal(t, "High", r.JDAlignment.MatchStatus)
	assert.Equal(t, 20+15+0+20+10+25, r.TotalScore)
}
