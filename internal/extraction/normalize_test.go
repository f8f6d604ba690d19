package extraction

import (
	"testing"

	"github.com/abhisek/pdfquiz/internal/pagetext"
	"github.com/abhisek/pdfquiz/internal/quiz"
	"github.com/stretchr/testify/assert"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```JSON\n{\"a\":1}```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"```{\"a\":1}```", `{"a":1}`},
		{"```json\n{\"a\":1}", `{"a":1}`},
		{"```json {\"a\":1}```", `{"a":1}`},
		{"```json{\"a\":1}```", `{"a":1}`},
		{"```json-5 [1]```", `[1]`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stripCodeFences(tt.in), "input %q", tt.in)
	}
}

func TestResolveAnswer(t *testing.T) {
	options := []string{"Red", "Green", "Blue", "Yellow"}
	tests := []struct {
		answer, want string
	}{
		{"Green", "Green"},
		{"  ", quiz.AnswerNotFound},
		{"", quiz.AnswerNotFound},
		{"answer not found in pdf", quiz.AnswerNotFound},
		{"blue", "Blue"},
		{" Blue\n", "Blue"},
		{" c ", "Blue"},
		{"C", "Blue"},
		{"d)", "Yellow"},
		{"E", "E"},
		{"Purple", "Purple"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveAnswer(tt.answer, options), "answer %q", tt.answer)
	}
}

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func TestNormalizer_PageBackfill(t *testing.T) {
	n := &normalizer{pages: []pagetext.Page{
		{Number: 1, Text: "Cover page"},
		{Number: 2, Text: "Chapter 2\nWhat is the powerhouse   of the\ncell? A) ..."},
		{Number: 3, Text: "Answers"},
	}}

	tests := []struct {
		name     string
		reported *float64
		question string
		want     int
	}{
		{"reported page kept", fptr(3), "anything", 3},
		{"fractional page rounded", fptr(2.4), "anything", 2},
		{"missing page found by text", nil, "What is the powerhouse of the cell?", 2},
		{"out of range page found by text", fptr(9), "what is the POWERHOUSE of the cell?", 2},
		{"zero page falls back to first", fptr(0), "Unrelated question", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, n.page(tt.reported, tt.question))
		})
	}

	empty := &normalizer{}
	assert.Equal(t, 1, empty.page(nil, "Q"))
	assert.Equal(t, 4, empty.page(fptr(4), "Q"))
}

func TestNormalizer_Confidence(t *testing.T) {
	n := &normalizer{pages: []pagetext.Page{{Number: 1, Text: "x"}}}
	full := func(conf *float64) rawQuestion {
		return rawQuestion{
			Question:      sptr("Q"),
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: sptr("a"),
			Explanation:   sptr("e"),
			PageNumber:    fptr(1),
			Confidence:    conf,
		}
	}

	assert.Equal(t, 0.7, n.question(full(fptr(0.7))).Confidence)
	assert.Equal(t, 1.0, n.question(full(fptr(3))).Confidence)
	assert.Equal(t, 0.0, n.question(full(fptr(-1))).Confidence)
	assert.Equal(t, quiz.DegradedConfidence, n.question(full(nil)).Confidence)

	dup := full(fptr(0.9))
	dup.Options = []string{"a", "a", "c", "d"}
	assert.Equal(t, quiz.DegradedConfidence, n.question(dup).Confidence)

	low := full(fptr(0.2))
	low.Options = []string{"a", "b", "c"}
	assert.Equal(t, 0.2, n.question(low).Confidence)

	padded := full(fptr(0.9))
	padded.Options = []string{" a ", "b", "c", "d"}
	padded.Question = sptr("  Q  ")
	got := n.question(padded)
	assert.Equal(t, "Q", got.Question)
	assert.Equal(t, "a", got.CorrectAnswer)
	assert.Equal(t, 0.9, got.Confidence)
	assert.NoError(t, got.Check())
}
