// Package quiz holds the extracted question set and the rules a
// question record must satisfy.
package quiz

import (
	"fmt"
	"strings"
)

// Sentinels stand in for content the source document does not contain.
const (
	AnswerNotFound      = "Answer not found in PDF"
	ExplanationNotFound = "Explanation not found in PDF"
)

// OptionCount is the number of options every question offers.
const OptionCount = 4

// DegradedConfidence is the ceiling applied to the confidence of a record
// that fails the contract, so that it shows up in low-confidence retakes.
const DegradedConfidence = 0.5

// DefaultTitle is used when the extracted set carries no title.
const DefaultTitle = "Untitled Quiz"

// Question is one multiple-choice question record.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	PageNumber    int      `json:"pageNumber"`
	Confidence    float64  `json:"confidence"`
}

// Quiz is the active question set and its title.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// IsCorrect reports whether answer matches the record's correct answer.
// Questions whose answer is the sentinel can never be answered correctly.
func (q Question) IsCorrect(answer string) bool {
	return q.CorrectAnswer != AnswerNotFound && answer == q.CorrectAnswer
}

// HasOption reports whether text is one of the record's options.
func (q Question) HasOption(text string) bool {
	for _, o := range q.Options {
		if o == text {
			return true
		}
	}
	return false
}

// Check verifies the record contract: four distinct non-blank options, an
// answer that is one of them or the sentinel, a page number of at least 1
// and a confidence in [0,1]. It returns the first violation.
func (q Question) Check() error {
	if strings.TrimSpace(q.Question) == "" {
		return fmt.Errorf("question text is empty")
	}
	if err := checkOptions(q.Options); err != nil {
		return err
	}
	if q.CorrectAnswer != AnswerNotFound && !q.HasOption(q.CorrectAnswer) {
		return fmt.Errorf("correct answer %q is not one of the options", q.CorrectAnswer)
	}
	if q.PageNumber < 1 {
		return fmt.Errorf("page number %d is below 1", q.PageNumber)
	}
	if q.Confidence < 0 || q.Confidence > 1 {
		return fmt.Errorf("confidence %v is outside [0,1]", q.Confidence)
	}
	return nil
}

func checkOptions(options []string) error {
	if len(options) != OptionCount {
		return fmt.Errorf("expected %d options, got %d", OptionCount, len(options))
	}
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if strings.TrimSpace(o) == "" {
			return fmt.Errorf("option text is empty")
		}
		if seen[o] {
			return fmt.Errorf("duplicate option %q", o)
		}
		seen[o] = true
	}
	return nil
}

// Index returns the position of the question with the given id, or -1.
func (z *Quiz) Index(id string) int {
	for i := range z.Questions {
		if z.Questions[i].ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of z.
func (z *Quiz) Clone() *Quiz {
	if z == nil {
		return nil
	}
	out := &Quiz{Title: z.Title, Questions: make([]Question, len(z.Questions))}
	for i, q := range z.Questions {
		q.Options = append([]string(nil), q.Options...)
		out.Questions[i] = q
	}
	return out
}
