package admin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/pdfquiz/internal/quiz"
	"github.com/abhisek/pdfquiz/internal/ui/components"
)

// Form field order.
const (
	fieldQuestion = iota
	fieldOptionA
	fieldOptionB
	fieldOptionC
	fieldOptionD
	fieldAnswer
	fieldExplanation
	fieldPage
	fieldConfidence
	fieldCount
)

var fieldLabels = [fieldCount]string{
	"Question", "Option A", "Option B", "Option C", "Option D",
	"Answer", "Explanation", "Page", "Confidence",
}

// formValues returns the text shown in each field for q.
func formValues(q quiz.Question) [fieldCount]string {
	var v [fieldCount]string
	v[fieldQuestion] = q.Question
	for i := 0; i < quiz.OptionCount && i < len(q.Options); i++ {
		v[fieldOptionA+i] = q.Options[i]
	}
	v[fieldAnswer] = q.CorrectAnswer
	v[fieldExplanation] = q.Explanation
	v[fieldPage] = strconv.Itoa(q.PageNumber)
	v[fieldConfidence] = strconv.FormatFloat(q.Confidence, 'f', -1, 64)
	return v
}

// buildEdit turns the form values into an edit touching only the fields
// that differ from q. The answer field accepts a letter A-D naming one of
// the (possibly edited) options. Whenever the options change the answer
// is sent along so it is checked against the new options.
func buildEdit(q quiz.Question, v [fieldCount]string) (quiz.Edit, error) {
	orig := formValues(q)
	var e quiz.Edit

	if v[fieldQuestion] != orig[fieldQuestion] {
		s := v[fieldQuestion]
		e.Question = &s
	}

	options := make([]string, quiz.OptionCount)
	optionsChanged := len(q.Options) != quiz.OptionCount
	for i := range options {
		options[i] = v[fieldOptionA+i]
		if options[i] != orig[fieldOptionA+i] {
			optionsChanged = true
		}
	}
	if optionsChanged {
		e.Options = options
	}

	answer := v[fieldAnswer]
	if i := components.LabelIndex(answer); i >= 0 && len(answer) == 1 && !isDigit(answer) {
		answer = options[i]
	}
	if answer != orig[fieldAnswer] || optionsChanged {
		e.CorrectAnswer = &answer
	}

	if v[fieldExplanation] != orig[fieldExplanation] {
		s := v[fieldExplanation]
		e.Explanation = &s
	}

	if v[fieldPage] != orig[fieldPage] {
		n, err := strconv.Atoi(v[fieldPage])
		if err != nil {
			return quiz.Edit{}, fmt.Errorf("page must be a whole number")
		}
		e.PageNumber = &n
	}

	if v[fieldConfidence] != orig[fieldConfidence] {
		f, err := strconv.ParseFloat(strings.TrimSuffix(v[fieldConfidence], "%"), 64)
		if err != nil {
			return quiz.Edit{}, fmt.Errorf("confidence must be a number between 0 and 1")
		}
		if strings.HasSuffix(v[fieldConfidence], "%") {
			f /= 100
		}
		e.Confidence = &f
	}

	return e, nil
}

func isDigit(s string) bool {
	return s[0] >= '0' && s[0] <= '9'
}

// newInputs builds one text input per field, filled from q.
func newInputs(q quiz.Question) []components.TextInput {
	values := formValues(q)
	inputs := make([]components.TextInput, fieldCount)
	for i := range inputs {
		limit := 1000
		if i == fieldPage {
			limit = 5
		}
		inputs[i] = components.NewTextInput(fieldLabels[i], "", i == fieldPage, limit)
		inputs[i].SetValue(values[i])
	}
	return inputs
}

// inputValues reads the current field values.
func inputValues(inputs []components.TextInput) [fieldCount]string {
	var v [fieldCount]string
	for i := range inputs {
		v[i] = inputs[i].Value()
	}
	return v
}
