package feedback

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/types"
)

type sequenceCompleter struct {
	responses []string
	errs      []error
	calls     int
}

func (s *sequenceCompleter) Complete(_ context.Context, _ string) (string, error) {
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

func (s *sequenceCompleter) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return s.Complete(ctx, prompt)
}

func feedbackRequest() *types.FeedbackRequest {
	return &types.FeedbackRequest{
		Post:          "Backend Engineer",
		InterviewType: types.InterviewTypeTechnical,
		Transcript: []types.Message{
			{Role: types.RoleInterviewer, Content: "Tell me about yourself."},
			{Role: types.RoleCandidate, Content: "I build Go services."},
		},
		QuestionList: []types.Question{
			{ID: 1, Question: "Tell me about yourself."},
		},
	}
}

func fastGenerator(c llm.Completer) *Generator {
	g := NewGenerator(c, "gemini-2.5-flash", 0.5)
	g.retry.InitialDelay = time.Millisecond
	g.retry.MaxDelay = time.Millisecond
	return g
}

const sampleReport = `**1. Candidate Summary**
Clear communicator with solid backend experience.

**6. Overall Recommendation**
Recommended.

{"overall_rating": 7, "strengths": ["clear communication"], "improvements": ["more depth on testing"], "feedback_text": "Solid candidate with room to grow."}`

func TestGenerate_ParsesEnvelope(t *testing.T) {
	completer := &sequenceCompleter{responses: []string{sampleReport}}
	g := fastGenerator(completer)

	result := g.Generate(context.Background(), feedbackRequest())

	assert.True(t, result.Success)
	require.NotNil(t, result.Parsed)
	assert.Equal(t, 7, result.Parsed.OverallRating)
	assert.Equal(t, []string{"clear communication"}, result.Parsed.Strengths)
	assert.Equal(t, []string{"more depth on testing"}, result.Parsed.Improvements)
	assert.Equal(t, "Solid candidate with room to grow.", result.Parsed.FeedbackStr)
	assert.Equal(t, sampleReport, result.Raw)
	assert.Equal(t, 1, result.Meta.Attempts)
	assert.Equal(t, "gemini-2.5-flash", result.Meta.Model)
	assert.InDelta(t, 0.5, result.Meta.Temperature, 0.001)
}

func TestGenerate_RawFallbackWhenEnvelopeMissing(t *testing.T) {
	narrative := "**1. Candidate Summary**\nGood candidate, no structured data though."
	completer := &sequenceCompleter{responses: []string{narrative}}
	g := fastGenerator(completer)

	result := g.Generate(context.Background(), feedbackRequest())

	assert.True(t, result.Success)
	assert.Nil(t, result.Parsed)
	assert.Equal(t, narrative, result.Raw)
	assert.NotEmpty(t, result.Meta.ParseError)
}

func TestGenerate_RetriesTransportErrors(t *testing.T) {
	transportErr := &llm.TransportError{Op: "generate_content", Model: "gemini-2.5-flash", Cause: errors.New("503")}
	completer := &sequenceCompleter{
		responses: []string{"", sampleReport},
		errs:      []error{transportErr, nil},
	}
	g := fastGenerator(completer)

	result := g.Generate(context.Background(), feedbackRequest())

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.Meta.Attempts)
	assert.Equal(t, 2, completer.calls)
}

func TestGenerate_FailureAfterExhaustion(t *testing.T) {
	transportErr := &llm.TransportError{Op: "generate_content", Model: "gemini-2.5-flash", Cause: errors.New("503")}
	completer := &sequenceCompleter{
		errs: []error{transportErr, transportErr, transportErr},
	}
	g := fastGenerator(completer)

	result := g.Generate(context.Background(), feedbackRequest())

	assert.False(t, result.Success)
	assert.Nil(t, result.Parsed)
	assert.Equal(t, "feedback generation failed", result.Error)
	assert.Equal(t, 3, result.Meta.Attempts)
	assert.NotEmpty(t, result.Meta.LastError)
}

func TestParseEnvelope_ClampsRating(t *testing.T) {
	tests := []struct {
		name     string
		rating   int
		expected int
	}{
		{"below range", 0, 1},
		{"negative", -5, 1},
		{"in range", 5, 5},
		{"above range", 15, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := `{"overall_rating": ` + strconv.Itoa(tt.rating) + `, "strengths": [], "improvements": [], "feedback_text": "x"}`
			parsed, err := parseEnvelope(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, parsed.OverallRating)
		})
	}
}

func TestParseEnvelope_FallsBackToNarrativeText(t *testing.T) {
	raw := "The candidate did well overall.\n\n{\"overall_rating\": 6, \"strengths\": [], \"improvements\": []}"
	parsed, err := parseEnvelope(raw)
	require.NoError(t, err)
	assert.Equal(t, "The candidate did well overall.", parsed.FeedbackStr)
}
