package session

import "github.com/abhisek/pdfquiz/internal/quiz"

// RetakeMode selects which questions a retake covers.
type RetakeMode int

const (
	RetakeAll           RetakeMode = iota // Every question
	RetakeIncorrect                       // Unanswered or answered wrong
	RetakeLowConfidence                   // Extraction confidence below LowConfidenceThreshold
)

// LowConfidenceThreshold is the confidence below which a question is
// offered in a low-confidence retake.
const LowConfidenceThreshold = 0.8

func (m RetakeMode) String() string {
	switch m {
	case RetakeAll:
		return "all"
	case RetakeIncorrect:
		return "incorrect"
	case RetakeLowConfidence:
		return "low-confidence"
	}
	return "unknown"
}

// Filter derives a retake subset, preserving question order. An empty
// result is ErrEmptyFilterResult.
func Filter(questions []quiz.Question, answers map[string]string, mode RetakeMode) ([]quiz.Question, error) {
	var out []quiz.Question
	for _, q := range questions {
		keep := false
		switch mode {
		case RetakeAll:
			keep = true
		case RetakeIncorrect:
			a, answered := answers[q.ID]
			keep = !answered || !q.IsCorrect(a)
		case RetakeLowConfidence:
			keep = q.Confidence < LowConfidenceThreshold
		}
		if keep {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyFilterResult
	}
	return out, nil
}
