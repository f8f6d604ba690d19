package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/pdfquiz/internal/quiz"
	"github.com/abhisek/pdfquiz/internal/store"
)

// snapshot is the quiz slot layout.
type snapshot struct {
	Title     string           `json:"title"`
	Questions []quiz.Question  `json:"questions"`
	ActiveIDs []string         `json:"activeIds,omitempty"`
	Progress  progressSnapshot `json:"progress"`
}

type progressSnapshot struct {
	CurrentIndex int               `json:"currentIndex"`
	Answers      map[string]string `json:"answers"`
	Finished     bool              `json:"finished"`
}

// persist mirrors the quiz and session to the quiz slot. It is the last
// step of every committing transition; failures are only reported.
func (e *Engine) persist(ctx context.Context) {
	z := e.quizzes.Current()
	if z == nil {
		if err := e.slots.Delete(ctx, store.KeyQuiz); err != nil {
			e.warnf("failed to clear saved quiz: %v", err)
		}
		return
	}

	snap := snapshot{Title: z.Title, Questions: z.Questions}
	if e.state != nil {
		snap.ActiveIDs = e.state.ActiveIDs()
		snap.Progress = progressSnapshot{
			CurrentIndex: e.state.CurrentIndex,
			Answers:      e.state.Answers,
			Finished:     e.state.Finished,
		}
	}

	data, err := json.Marshal(snap)
	if err != nil {
		e.warnf("failed to encode quiz: %v", err)
		return
	}
	if err := e.slots.Put(ctx, store.KeyQuiz, data); err != nil {
		e.warnf("failed to save quiz: %v", err)
	}
}

// Restore loads the quiz slot written by a previous run. An unreadable or
// corrupt slot is treated as empty. A restored session resumes in Quiz,
// or in Results when it had finished; answers for questions outside the
// active view are dropped and the cursor is clamped.
func (e *Engine) Restore(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	data, ok, err := e.slots.Get(ctx, store.KeyQuiz)
	if err != nil {
		e.warnf("failed to read saved quiz: %v", err)
		return
	}
	if !ok {
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		e.warnf("ignoring corrupt saved quiz: %v", err)
		return
	}
	z, err := validSnapshotQuiz(snap)
	if err != nil {
		e.warnf("ignoring corrupt saved quiz: %v", err)
		return
	}

	e.quizzes.Replace(z)
	e.state = restoreState(z, snap)
	e.pending = ""
	e.mode = ModeQuiz
	if e.state.Finished {
		e.mode = ModeResults
	}
}

func validSnapshotQuiz(snap snapshot) (*quiz.Quiz, error) {
	if len(snap.Questions) == 0 {
		return nil, fmt.Errorf("no questions")
	}
	seen := make(map[string]bool, len(snap.Questions))
	for _, q := range snap.Questions {
		if q.ID == "" {
			return nil, fmt.Errorf("question without id")
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
	title := snap.Title
	if title == "" {
		title = quiz.DefaultTitle
	}
	return &quiz.Quiz{Title: title, Questions: snap.Questions}, nil
}

func restoreState(z *quiz.Quiz, snap snapshot) *State {
	active := z.Questions
	if len(snap.ActiveIDs) > 0 {
		var subset []quiz.Question
		for _, id := range snap.ActiveIDs {
			if i := z.Index(id); i >= 0 {
				subset = append(subset, z.Questions[i])
			}
		}
		if len(subset) > 0 {
			active = subset
		}
	}

	s := newState(active)
	for _, q := range s.Questions {
		if a, ok := snap.Progress.Answers[q.ID]; ok {
			s.Answers[q.ID] = a
		}
	}
	s.CurrentIndex = min(max(snap.Progress.CurrentIndex, 0), len(s.Questions)-1)
	s.Finished = snap.Progress.Finished
	return s
}

func (e *Engine) warnf(format string, args ...any) {
	if e.warn != nil {
		fmt.Fprintf(e.warn, "warning: "+format+"\n", args...)
	}
}
