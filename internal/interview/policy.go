package interview

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/types"
)

// Time thresholds for the termination policy, in milliseconds of caller-computed
// budget. Below EndThresholdMS the interview ends regardless of content; inside
// (EndThresholdMS, LastQuestionThresholdMS] the candidate is warned the next
// question is the final one.
const (
	EndThresholdMS          int64 = 30_000
	LastQuestionThresholdMS int64 = 120_000
)

// Fixed interviewer phrases. These are part of the agent's observable
// contract: the deterministic paths must be bit-identical across calls.
const (
	closingText = "This concludes our interview. Thank you for your time and thoughtful answers! We will get back to you soon."

	finalQuestionNotice = "We are approaching the end, this will be your final question."

	missedAnswerLead = "I did not catch your answer, so let's move ahead."
)

// Config overrides the policy constants and the composer context window.
// Zero values keep the defaults.
type Config struct {
	EndThresholdMS          int64
	LastQuestionThresholdMS int64
	HistoryWindow           int
}

// DefaultConfig returns the standard policy configuration.
func DefaultConfig() Config {
	return Config{
		EndThresholdMS:          EndThresholdMS,
		LastQuestionThresholdMS: LastQuestionThresholdMS,
		HistoryWindow:           6,
	}
}

// Agent evaluates the turn-taking policy. It holds no session state; every
// call derives progress from the replayed transcript, so identical inputs
// always produce identical decisions.
type Agent struct {
	cfg      Config
	composer *Composer
}

// NewAgent creates an Agent using the injected completion capability.
func NewAgent(completer llm.Completer, cfg Config) *Agent {
	if cfg.EndThresholdMS == 0 {
		cfg.EndThresholdMS = EndThresholdMS
	}
	if cfg.LastQuestionThresholdMS == 0 {
		cfg.LastQuestionThresholdMS = LastQuestionThresholdMS
	}
	return &Agent{
		cfg:      cfg,
		composer: NewComposer(completer, cfg.HistoryWindow),
	}
}

// NextTurn decides the interviewer's next action. Rules are evaluated in
// strict priority order; the first match wins:
//
//  1. empty history: greeting plus the first catalog question, verbatim
//  2. non-answer recovery: skip ahead to the next unasked question
//  3. caller-forced wrap-up after the last answer
//  4. hard time-out
//  5. catalog exhausted without force_next
//  6. forced scripted question, or a generative conversational turn
//
// Only rule 6's generative branch touches the model; every other path is
// fully deterministic.
func (a *Agent) NextTurn(ctx context.Context, req *types.InterviewTurnRequest) (*types.InterviewTurnResponse, error) {
	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("question catalog is empty")
	}

	catalog := req.Questions
	state := DeriveSession(catalog, req.Messages)

	// Rule 1: nothing has happened yet.
	if len(req.Messages) == 0 {
		first := catalog[0]
		text := fmt.Sprintf("Welcome to the interview for %s! Let's begin!\n\n%s", req.Post, first.Question)
		return questionResponse(text, first.ID, false), nil
	}

	// Rule 2: the candidate's last turn was a missed answer. Checked before
	// the time rules so a silent candidate is never folded into an ambiguous
	// timeout decision.
	if state.LastCandidate != nil && IsNonAnswer(state.LastCandidate.Content) {
		return a.recoverFromNonAnswer(req, catalog), nil
	}

	lastTurn := req.Messages[len(req.Messages)-1]

	// Rule 3: the caller knows no further input is coming.
	if req.LastQuestionAnswered && lastTurn.Role == types.RoleCandidate {
		return endResponse(closingText), nil
	}

	// Rule 4: out of time. Wins over exhaustion and force_next; ending on
	// time is a harder guarantee than ending on content.
	if req.TimeLeftMS != nil && *req.TimeLeftMS <= a.cfg.EndThresholdMS {
		return endResponse(closingText), nil
	}

	// Rule 5: every scripted question has been asked.
	if state.AllAsked && !req.ForceNext {
		return endResponse(closingText), nil
	}

	inWarningWindow := a.inLastQuestionWindow(req.TimeLeftMS) && !state.AllAsked

	// Rule 6a: caller wants the scripted question verbatim, no model call.
	if req.ForceNext && state.NextQuestion != nil {
		text := state.NextQuestion.Question
		if inWarningWindow {
			text += "\n\n" + finalQuestionNotice
		}
		return questionResponse(text, state.NextQuestion.ID, inWarningWindow), nil
	}

	// Rule 6b: generative turn.
	text := a.composer.Compose(ctx, req, state)

	// The composed line only claims a scripted question when it actually
	// poses one.
	var questionID *int
	if state.NextQuestion != nil && strings.Contains(text, "?") {
		id := state.NextQuestion.ID
		questionID = &id
	}

	if inWarningWindow && !strings.Contains(strings.ToLower(text), "final question") {
		text += "\n\n" + finalQuestionNotice
	}

	return &types.InterviewTurnResponse{
		AIResponse:   text,
		EndInterview: false,
		QuestionID:   questionID,
		LastQuestion: inWarningWindow,
	}, nil
}

// recoverFromNonAnswer resumes the script one position past the last question
// the interviewer asked, or concludes when nothing remains.
func (a *Agent) recoverFromNonAnswer(req *types.InterviewTurnRequest, catalog []types.Question) *types.InterviewTurnResponse {
	idx := resumeIndex(catalog, req.Messages)
	if idx < 0 || idx >= len(catalog) {
		return endResponse(closingText)
	}

	next := catalog[idx]
	text := missedAnswerLead + "\n\n" + next.Question

	inWindow := a.inLastQuestionWindow(req.TimeLeftMS)
	if inWindow {
		text += "\n\n" + finalQuestionNotice
	}

	return questionResponse(text, next.ID, inWindow)
}

// inLastQuestionWindow reports whether the remaining budget sits inside the
// final-question warning band. A nil budget disables time policy entirely.
func (a *Agent) inLastQuestionWindow(timeLeftMS *int64) bool {
	if timeLeftMS == nil {
		return false
	}
	return *timeLeftMS > a.cfg.EndThresholdMS && *timeLeftMS <= a.cfg.LastQuestionThresholdMS
}

func questionResponse(text string, questionID int, lastQuestion bool) *types.InterviewTurnResponse {
	id := questionID
	return &types.InterviewTurnResponse{
		AIResponse:   text,
		EndInterview: false,
		QuestionID:   &id,
		LastQuestion: lastQuestion,
	}
}

func endResponse(text string) *types.InterviewTurnResponse {
	return &types.InterviewTurnResponse{
		AIResponse:   text,
		EndInterview: true,
		QuestionID:   nil,
		LastQuestion: false,
	}
}
