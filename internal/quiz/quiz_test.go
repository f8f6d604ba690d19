package quiz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() Question {
	return Question{
		ID:            "q1",
		Question:      "What is the capital of France?",
		Options:       []string{"Paris", "Lyon", "Nice", "Lille"},
		CorrectAnswer: "Paris",
		Explanation:   "Paris is the capital.",
		PageNumber:    2,
		Confidence:    0.9,
	}
}

func ptr[T any](v T) *T { return &v }

func TestQuestion_Check(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Question)
		wantErr bool
	}{
		{"valid", func(*Question) {}, false},
		{"sentinel answer", func(q *Question) { q.CorrectAnswer = AnswerNotFound }, false},
		{"three options", func(q *Question) { q.Options = q.Options[:3] }, true},
		{"duplicate options", func(q *Question) { q.Options[3] = "Paris" }, true},
		{"blank option", func(q *Question) { q.Options[1] = " " }, true},
		{"answer not an option", func(q *Question) { q.CorrectAnswer = "Marseille" }, true},
		{"page zero", func(q *Question) { q.PageNumber = 0 }, true},
		{"confidence above one", func(q *Question) { q.Confidence = 1.2 }, true},
		{"empty question", func(q *Question) { q.Question = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := sample()
			q.Options = append([]string(nil), q.Options...)
			tt.mutate(&q)
			if tt.wantErr {
				assert.Error(t, q.Check())
			} else {
				assert.NoError(t, q.Check())
			}
		})
	}
}

func TestQuestion_IsCorrect(t *testing.T) {
	q := sample()
	assert.True(t, q.IsCorrect("Paris"))
	assert.False(t, q.IsCorrect("Lyon"))
	assert.False(t, q.IsCorrect(""))

	q.CorrectAnswer = AnswerNotFound
	assert.False(t, q.IsCorrect(AnswerNotFound))
}

func TestEdit_Apply(t *testing.T) {
	t.Run("partial merge keeps other fields", func(t *testing.T) {
		got, err := Edit{Explanation: ptr("Seat of government.")}.Apply(sample())
		require.NoError(t, err)
		assert.Equal(t, "Seat of government.", got.Explanation)
		assert.Equal(t, "Paris", got.CorrectAnswer)
		assert.Equal(t, "q1", got.ID)
	})

	t.Run("answer must be an option", func(t *testing.T) {
		_, err := Edit{CorrectAnswer: ptr("Marseille")}.Apply(sample())
		var editErr *EditError
		require.ErrorAs(t, err, &editErr)
		assert.Equal(t, "q1", editErr.ID)
	})

	t.Run("new options with matching answer", func(t *testing.T) {
		got, err := Edit{
			Options:       []string{"A", "B", "C", "D"},
			CorrectAnswer: ptr("C"),
		}.Apply(sample())
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "C", "D"}, got.Options)
		assert.Equal(t, "C", got.CorrectAnswer)
	})

	t.Run("new options orphan the old answer", func(t *testing.T) {
		_, err := Edit{Options: []string{"A", "B", "C", "D"}}.Apply(sample())
		assert.Error(t, err)
	})

	t.Run("sentinel answer allowed", func(t *testing.T) {
		got, err := Edit{CorrectAnswer: ptr(AnswerNotFound)}.Apply(sample())
		require.NoError(t, err)
		assert.Equal(t, AnswerNotFound, got.CorrectAnswer)
	})

	t.Run("blank explanation becomes sentinel", func(t *testing.T) {
		got, err := Edit{Explanation: ptr("  ")}.Apply(sample())
		require.NoError(t, err)
		assert.Equal(t, ExplanationNotFound, got.Explanation)
	})

	t.Run("out of range fields rejected", func(t *testing.T) {
		_, err := Edit{PageNumber: ptr(0)}.Apply(sample())
		assert.Error(t, err)
		_, err = Edit{Confidence: ptr(-0.1)}.Apply(sample())
		assert.Error(t, err)
	})

	t.Run("input record untouched on success", func(t *testing.T) {
		q := sample()
		_, err := Edit{Options: []string{"Paris", "B", "C", "D"}}.Apply(q)
		require.NoError(t, err)
		assert.Equal(t, "Lyon", q.Options[1])
	})
}

func TestStore(t *testing.T) {
	s := NewStore()
	assert.False(t, s.Has())
	assert.Nil(t, s.Current())

	_, err := s.Edit("q1", Edit{})
	assert.True(t, errors.Is(err, ErrQuestionNotFound))

	z := &Quiz{Title: "Geo", Questions: []Question{sample()}}
	s.Replace(z)
	z.Questions[0].Question = "mutated by caller"
	assert.Equal(t, "What is the capital of France?", s.Current().Questions[0].Question)

	cur := s.Current()
	cur.Questions[0].Options[0] = "mutated copy"
	assert.Equal(t, "Paris", s.Current().Questions[0].Options[0])

	updated, err := s.Edit("q1", Edit{Confidence: ptr(0.3)})
	require.NoError(t, err)
	assert.Equal(t, 0.3, updated.Confidence)
	assert.Equal(t, 0.3, s.Current().Questions[0].Confidence)

	_, err = s.Edit("missing", Edit{})
	assert.ErrorIs(t, err, ErrQuestionNotFound)

	s.Clear()
	assert.False(t, s.Has())
}

func TestExportImport_RoundTripKeepsOrder(t *testing.T) {
	second := sample()
	second.ID = "q2"
	second.Question = "Largest French city by area?"
	z := &Quiz{Title: "Geo", Questions: []Question{sample(), second}}

	data, err := Export(z)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"correctAnswer": "Paris"`)

	back, err := Import(data)
	require.NoError(t, err)
	assert.Equal(t, z, back)
}

func TestImport(t *testing.T) {
	_, err := Import([]byte(`not json`))
	assert.Error(t, err)

	_, err = Import([]byte(`{"title":"x","questions":[]}`))
	assert.Error(t, err)

	_, err = Import([]byte(`{"questions":[{"id":"a","question":"1"},{"id":"a","question":"2"}]}`))
	assert.Error(t, err)

	z, err := Import([]byte(`{"questions":[{"question":"1"},{"question":"2"}]}`))
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, z.Title)
	assert.NotEmpty(t, z.Questions[0].ID)
	assert.NotEqual(t, z.Questions[0].ID, z.Questions[1].ID)
}
