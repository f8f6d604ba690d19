package session

import (
	"github.com/abhisek/pdfquiz/internal/extraction"
	"github.com/abhisek/pdfquiz/internal/quiz"
)

// View is a read-only copy of the engine state for rendering.
type View struct {
	Mode     Mode
	Title    string
	HasQuiz  bool
	AllCount int

	// Session is nil until a quiz has been extracted or restored.
	Session *State
	Pending string

	Progress extraction.Progress
	Failure  string
}

// Current returns the displayed question of the session.
func (v View) Current() (quiz.Question, bool) {
	return v.Session.Current()
}

// Answered reports whether the displayed question has a confirmed answer.
func (v View) Answered() (string, bool) {
	q, ok := v.Current()
	if !ok {
		return "", false
	}
	a, ok := v.Session.Answers[q.ID]
	return a, ok
}

// View returns a snapshot of the engine state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{
		Mode:     e.mode,
		Session:  e.state.clone(),
		Pending:  e.pending,
		Progress: e.progress,
		Failure:  e.failure,
	}
	if z := e.quizzes.Current(); z != nil {
		v.Title = z.Title
		v.HasQuiz = len(z.Questions) > 0
		v.AllCount = len(z.Questions)
	}
	return v
}

// Quiz returns a copy of the active quiz, or nil.
func (e *Engine) Quiz() *quiz.Quiz {
	return e.quizzes.Current()
}

// Mode returns the current mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode
}
