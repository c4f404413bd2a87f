// Package interview implements the turn-taking core of the interview agent.
// All session state is re-derived from the caller-supplied catalog and
// transcript on every call; nothing is persisted between turns, which keeps
// the agent a pure function of its inputs.
package interview

import (
	"github.com/jonathan/interview-agent/internal/types"
)

// SessionState is the per-call view of interview progress, computed by
// scanning the replayed transcript. The O(history) rescan is deliberate: the
// catalog and history are caller-supplied and may differ between calls (e.g.
// a retried request with edited history), so cached counters would lie.
type SessionState struct {
	// AskedIDs holds question_id values from interviewer turns, in order.
	AskedIDs []int
	// QuestionsAsked is the number of scripted questions asked so far.
	QuestionsAsked int
	// NextQuestion is the next catalog entry to ask, nil when exhausted.
	NextQuestion *types.Question
	// AllAsked is true once every catalog question has been asked.
	AllAsked bool
	// LastCandidate is the most recent candidate turn, nil if none.
	LastCandidate *types.Message
}

// DeriveSession computes SessionState from the catalog and transcript.
func DeriveSession(catalog []types.Question, history []types.Message) SessionState {
	var state SessionState

	for i := range history {
		msg := &history[i]
		switch msg.Role {
		case types.RoleInterviewer:
			if msg.QuestionID != nil {
				state.AskedIDs = append(state.AskedIDs, *msg.QuestionID)
			}
		case types.RoleCandidate:
			state.LastCandidate = msg
		}
	}

	state.QuestionsAsked = len(state.AskedIDs)
	if state.QuestionsAsked < len(catalog) {
		q := catalog[state.QuestionsAsked]
		state.NextQuestion = &q
	}
	state.AllAsked = state.QuestionsAsked >= len(catalog)

	return state
}

// indexForQuestionID maps a question id to its catalog index. Exact id lookup
// wins; an id absent from the catalog is treated as a raw index when in range.
// Returns -1 when neither strategy resolves.
func indexForQuestionID(catalog []types.Question, id int) int {
	for i, q := range catalog {
		if q.ID == id {
			return i
		}
	}
	if id >= 0 && id < len(catalog) {
		return id
	}
	return -1
}

// resumeIndex resolves where to continue after a non-answer: the catalog
// position one past the last scripted question the interviewer asked. With no
// prior scripted question the interview resumes at the start of the catalog.
// Index arithmetic (rather than QuestionsAsked) keeps recovery correct even
// when the replayed history has gaps.
func resumeIndex(catalog []types.Question, history []types.Message) int {
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if msg.Role == types.RoleInterviewer && msg.QuestionID != nil {
			idx := indexForQuestionID(catalog, *msg.QuestionID)
			if idx < 0 {
				idx = *msg.QuestionID
			}
			return idx + 1
		}
	}
	return 0
}
