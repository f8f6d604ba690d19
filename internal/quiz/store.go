package quiz

import "sync"

// Store holds the single active quiz. Callers receive copies, so the only
// way to change a record is through Edit.
type Store struct {
	mu   sync.RWMutex
	quiz *Quiz
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Replace makes z the active quiz, discarding the previous one.
func (s *Store) Replace(z *Quiz) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = z.Clone()
}

// Current returns a copy of the active quiz, or nil when there is none.
func (s *Store) Current() *Quiz {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz.Clone()
}

// Has reports whether a quiz with at least one question is active.
func (s *Store) Has() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz != nil && len(s.quiz.Questions) > 0
}

// Edit applies e to the question with the given id and returns the
// updated record.
func (s *Store) Edit(id string, e Edit) (Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quiz == nil {
		return Question{}, ErrQuestionNotFound
	}
	i := s.quiz.Index(id)
	if i < 0 {
		return Question{}, ErrQuestionNotFound
	}
	updated, err := e.Apply(s.quiz.Questions[i])
	if err != nil {
		return Question{}, err
	}
	s.quiz.Questions[i] = updated
	return updated, nil
}

// Clear removes the active quiz.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = nil
}
