package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Export renders z as a standalone JSON document {title, questions}.
func Export(z *Quiz) ([]byte, error) {
	if z == nil {
		return nil, errors.New("no quiz to export")
	}
	b, err := json.MarshalIndent(z, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal quiz: %w", err)
	}
	return append(b, '\n'), nil
}

// Import parses an exported quiz. Records without an id get a fresh one;
// duplicate ids are rejected. Question order is preserved.
func Import(data []byte) (*Quiz, error) {
	var z Quiz
	if err := json.Unmarshal(data, &z); err != nil {
		return nil, fmt.Errorf("parse quiz: %w", err)
	}
	if len(z.Questions) == 0 {
		return nil, errors.New("quiz has no questions")
	}
	if strings.TrimSpace(z.Title) == "" {
		z.Title = DefaultTitle
	}

	seen := make(map[string]bool, len(z.Questions))
	for i := range z.Questions {
		q := &z.Questions[i]
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
	}
	return &z, nil
}
