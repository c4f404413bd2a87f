package interview

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/prompts"
	"github.com/jonathan/interview-agent/internal/types"
)

// earlyPhaseQuestions is how many scripted questions get the guided
// acknowledge-then-ask instruction before the composer is allowed to choose
// between follow-ups and the script.
const earlyPhaseQuestions = 3

// Composer builds the conversational prompt for a generative turn and
// post-processes the model output. A transport failure degrades to a
// deterministic continuation; the turn never hard-fails.
type Composer struct {
	completer llm.Completer
	window    int
}

// NewComposer creates a Composer with the given context window (number of
// trailing transcript turns included in the prompt).
func NewComposer(completer llm.Completer, window int) *Composer {
	if window <= 0 {
		window = 6
	}
	return &Composer{completer: completer, window: window}
}

// Compose produces the interviewer's next conversational line. The returned
// text is never empty.
func (c *Composer) Compose(ctx context.Context, req *types.InterviewTurnRequest, state SessionState) string {
	prompt := c.buildPrompt(req, state)

	text, err := c.completer.Complete(ctx, prompt)
	if err != nil {
		log.Printf("[composer] model call failed, using fallback: %v", err)
		return c.fallback(state)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return c.fallback(state)
	}

	// The greeting belongs to the very first turn only, which never reaches
	// the composer; anything greeting-shaped here is model noise.
	return StripGreeting(text)
}

func (c *Composer) buildPrompt(req *types.InterviewTurnRequest, state SessionState) string {
	instruction := c.instructionFor(state)

	recent := req.Messages
	if len(recent) > c.window {
		recent = recent[len(recent)-c.window:]
	}

	template := prompts.MustGet("interview.json", "next-turn")
	return prompts.Format(template, map[string]string{
		"Instruction":    instruction,
		"Post":           req.Post,
		"JobDescription": strings.TrimSpace(req.JobDescription),
		"ResumeText":     strings.TrimSpace(req.ResumeText),
		"Questions":      formatCatalog(req.Questions),
		"History":        formatHistory(recent),
	})
}

// instructionFor selects the pacing instruction: guided early on, free choice
// in the middle, wrap-up once the script is exhausted.
func (c *Composer) instructionFor(state SessionState) string {
	switch {
	case state.NextQuestion == nil:
		return prompts.MustGet("interview.json", "instruction-wrapup")
	case state.QuestionsAsked < earlyPhaseQuestions:
		return prompts.MustGet("interview.json", "instruction-early")
	default:
		return prompts.MustGet("interview.json", "instruction-middle")
	}
}

// fallback is the deterministic continuation used when the model is
// unreachable.
func (c *Composer) fallback(state SessionState) string {
	if state.NextQuestion != nil {
		return "Thank you, let's continue.\n\n" + state.NextQuestion.Question
	}
	return "Thank you, that covers everything I wanted to ask. It was a pleasure speaking with you."
}

func formatCatalog(questions []types.Question) string {
	var sb strings.Builder
	for _, q := range questions {
		sb.WriteString(fmt.Sprintf("%d. %s\n", q.ID, q.Question))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatHistory(messages []types.Message) string {
	var sb strings.Builder
	for _, m := range messages {
		sb.WriteString(fmt.Sprintf("%s: %s\n", m.Role, m.Content))
	}
	return strings.TrimRight(sb.String(), "\n")
}
