package quiz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrQuestionNotFound is returned when an edit names an unknown id.
var ErrQuestionNotFound = errors.New("question not found")

// Edit is a partial update of a question record. Nil fields are left
// unchanged. The id is never editable.
type Edit struct {
	Question      *string
	Options       []string
	CorrectAnswer *string
	Explanation   *string
	PageNumber    *int
	Confidence    *float64
}

// IsZero reports whether the edit changes nothing.
func (e Edit) IsZero() bool {
	return e.Question == nil && e.Options == nil && e.CorrectAnswer == nil &&
		e.Explanation == nil && e.PageNumber == nil && e.Confidence == nil
}

// EditError reports an edit that would break the record contract.
type EditError struct {
	ID  string
	Err error
}

func (e *EditError) Error() string {
	return fmt.Sprintf("edit question %s: %v", e.ID, e.Err)
}

func (e *EditError) Unwrap() error { return e.Err }

// Apply merges e into q and returns the result. Only the fields the edit
// touches are checked, so a record that was already under-specified can
// still have its explanation fixed without first repairing its options.
func (e Edit) Apply(q Question) (Question, error) {
	out := q
	out.Options = append([]string(nil), q.Options...)

	fail := func(err error) (Question, error) {
		return q, &EditError{ID: q.ID, Err: err}
	}

	if e.Question != nil {
		if strings.TrimSpace(*e.Question) == "" {
			return fail(errors.New("question text is empty"))
		}
		out.Question = *e.Question
	}
	if e.Options != nil {
		if err := checkOptions(e.Options); err != nil {
			return fail(err)
		}
		out.Options = append([]string(nil), e.Options...)
	}
	if e.CorrectAnswer != nil {
		out.CorrectAnswer = *e.CorrectAnswer
	}
	if e.Options != nil || e.CorrectAnswer != nil {
		if out.CorrectAnswer != AnswerNotFound && !out.HasOption(out.CorrectAnswer) {
			return fail(fmt.Errorf("correct answer %q is not one of the options", out.CorrectAnswer))
		}
	}
	if e.Explanation != nil {
		out.Explanation = *e.Explanation
		if strings.TrimSpace(out.Explanation) == "" {
			out.Explanation = ExplanationNotFound
		}
	}
	if e.PageNumber != nil {
		if *e.PageNumber < 1 {
			return fail(fmt.Errorf("page number %d is below 1", *e.PageNumber))
		}
		out.PageNumber = *e.PageNumber
	}
	if e.Confidence != nil {
		if *e.Confidence < 0 || *e.Confidence > 1 {
			return fail(fmt.Errorf("confidence %v is outside [0,1]", *e.Confidence))
		}
		out.Confidence = *e.Confidence
	}
	return out, nil
}
