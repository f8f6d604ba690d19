// Package session runs quiz sessions over the active question set.
package session

import (
	"github.com/abhisek/pdfquiz/internal/quiz"
)

// Mode is the engine's current screen-level state.
type Mode int

const (
	ModeUpload     Mode = iota // Waiting for a document
	ModeExtracting             // Pipeline running
	ModeQuiz                   // Answering questions
	ModeResults                // Session finished, score shown
	ModeAdmin                  // Correcting questions, entered from Quiz
	ModeProgress               // Attempt history, entered from Quiz or Results
)

func (m Mode) String() string {
	switch m {
	case ModeUpload:
		return "upload"
	case ModeExtracting:
		return "extracting"
	case ModeQuiz:
		return "quiz"
	case ModeResults:
		return "results"
	case ModeAdmin:
		return "admin"
	case ModeProgress:
		return "progress"
	}
	return "unknown"
}

// State is one session over an active subset of the quiz. It is replaced,
// never reset, when the active subset changes.
type State struct {
	// Questions is the active view. Records share ids with the quiz and
	// receive its corrections.
	Questions []quiz.Question

	// CurrentIndex is the displayed question.
	CurrentIndex int

	// Answers maps question id to the confirmed option text.
	Answers map[string]string

	// Finished is set once the attempt has been scored.
	Finished bool
}

func newState(questions []quiz.Question) *State {
	qs := make([]quiz.Question, len(questions))
	for i, q := range questions {
		q.Options = append([]string(nil), q.Options...)
		qs[i] = q
	}
	return &State{Questions: qs, Answers: make(map[string]string)}
}

// Current returns the displayed question.
func (s *State) Current() (quiz.Question, bool) {
	if s == nil || s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return quiz.Question{}, false
	}
	return s.Questions[s.CurrentIndex], true
}

// Score counts answers that exactly match the correct answer.
func (s *State) Score() (score, total int) {
	for _, q := range s.Questions {
		if a, ok := s.Answers[q.ID]; ok && q.IsCorrect(a) {
			score++
		}
	}
	return score, len(s.Questions)
}

// ActiveIDs lists the ids in the active view, in order.
func (s *State) ActiveIDs() []string {
	ids := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		ids[i] = q.ID
	}
	return ids
}

func (s *State) clone() *State {
	if s == nil {
		return nil
	}
	out := newState(s.Questions)
	out.CurrentIndex = s.CurrentIndex
	out.Finished = s.Finished
	for k, v := range s.Answers {
		out.Answers[k] = v
	}
	return out
}

// reflect replaces the view's copy of q, if it holds one.
func (s *State) reflect(q quiz.Question) {
	for i := range s.Questions {
		if s.Questions[i].ID == q.ID {
			q.Options = append([]string(nil), q.Options...)
			s.Questions[i] = q
			return
		}
	}
}
