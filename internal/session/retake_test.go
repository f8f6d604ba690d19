package session

import (
	"testing"

	"github.com/abhisek/pdfquiz/internal/quiz"
)

func TestFilter(t *testing.T) {
	questions := makeQuiz(4).Questions
	questions[0].Confidence = 0.5
	questions[3].Confidence = 0.8
	questions[2].CorrectAnswer = quiz.AnswerNotFound

	answers := map[string]string{
		"q1": "right",
		"q2": "wrong1",
		"q3": quiz.AnswerNotFound,
	}

	tests := []struct {
		mode RetakeMode
		want []string
	}{
		{RetakeAll, []string{"q1", "q2", "q3", "q4"}},
		{RetakeIncorrect, []string{"q2", "q3", "q4"}},
		{RetakeLowConfidence, []string{"q1"}},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			got, err := Filter(questions, answers, tt.mode)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			var ids []string
			for _, q := range got {
				ids = append(ids, q.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("got %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", ids, tt.want)
				}
			}
		})
	}
}

func TestFilter_EmptyResult(t *testing.T) {
	questions := makeQuiz(2).Questions
	all := map[string]string{"q1": "right", "q2": "right"}

	if _, err := Filter(questions, all, RetakeIncorrect); err != ErrEmptyFilterResult {
		t.Fatalf("expected ErrEmptyFilterResult, got %v", err)
	}
	if _, err := Filter(questions, nil, RetakeLowConfidence); err != ErrEmptyFilterResult {
		t.Fatalf("expected ErrEmptyFilterResult, got %v", err)
	}
	if _, err := Filter(nil, nil, RetakeAll); err != ErrEmptyFilterResult {
		t.Fatalf("expected ErrEmptyFilterResult for no questions, got %v", err)
	}
}
