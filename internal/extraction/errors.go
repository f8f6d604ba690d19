package extraction

import (
	"errors"
	"fmt"
)

// ErrEmptyResponse means the backend produced no content.
type ErrEmptyResponse struct {
	Model string
}

func (e *ErrEmptyResponse) Error() string {
	if e.Model != "" {
		return fmt.Sprintf("extraction backend %s returned no content", e.Model)
	}
	return "extraction backend returned no content"
}

// ErrMalformedOutput means the reply could not be parsed as the declared
// schema, even after normalization. Truncated replies from long documents
// land here too.
type ErrMalformedOutput struct {
	Content string
	Err     error
}

func (e *ErrMalformedOutput) Error() string {
	return fmt.Sprintf("malformed extraction output: %v", e.Err)
}

func (e *ErrMalformedOutput) Unwrap() error { return e.Err }

// ErrSchemaViolation means the reply parsed but has no question sequence.
type ErrSchemaViolation struct {
	Content string
	Err     error
}

func (e *ErrSchemaViolation) Error() string {
	return fmt.Sprintf("extraction output violates schema: %v", e.Err)
}

func (e *ErrSchemaViolation) Unwrap() error { return e.Err }

// ErrNoQuestions means the reply was well-formed but held no questions.
var ErrNoQuestions = errors.New("no questions extracted")
