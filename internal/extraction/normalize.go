package extraction

import (
	"math"
	"regexp"
	"strings"

	"github.com/abhisek/pdfquiz/internal/pagetext"
	"github.com/abhisek/pdfquiz/internal/quiz"
	"github.com/google/uuid"
)

// rawQuestion is a reply record before normalization. Pointer fields tell
// an absent key apart from a zero value.
type rawQuestion struct {
	Question      *string  `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer *string  `json:"correctAnswer"`
	Explanation   *string  `json:"explanation"`
	PageNumber    *float64 `json:"pageNumber"`
	Confidence    *float64 `json:"confidence"`
}

// openFence matches an opening fence, its optional language tag and the
// space after it, on its own line or not.
var openFence = regexp.MustCompile("^```[A-Za-z0-9_-]*\\s*")

// stripCodeFences removes a surrounding Markdown code fence, with or
// without a language tag.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = openFence.ReplaceAllString(s, "")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// normalizer turns reply records into question records. It never drops
// or merges records: defects lower confidence instead.
type normalizer struct {
	pages []pagetext.Page
}

func (n *normalizer) questions(raws []rawQuestion) []quiz.Question {
	out := make([]quiz.Question, len(raws))
	for i, r := range raws {
		out[i] = n.question(r)
	}
	return out
}

func (n *normalizer) question(r rawQuestion) quiz.Question {
	q := quiz.Question{
		ID:       uuid.NewString(),
		Question: strings.TrimSpace(deref(r.Question)),
	}

	q.Options = make([]string, len(r.Options))
	for i, o := range r.Options {
		q.Options[i] = strings.TrimSpace(o)
	}

	q.CorrectAnswer = resolveAnswer(strings.TrimSpace(deref(r.CorrectAnswer)), q.Options)

	q.Explanation = strings.TrimSpace(deref(r.Explanation))
	if q.Explanation == "" {
		q.Explanation = quiz.ExplanationNotFound
	}

	q.PageNumber = n.page(r.PageNumber, q.Question)

	if r.Confidence == nil {
		q.Confidence = quiz.DegradedConfidence
	} else {
		q.Confidence = min(max(*r.Confidence, 0), 1)
	}
	if q.Check() != nil {
		q.Confidence = min(q.Confidence, quiz.DegradedConfidence)
	}
	return q
}

// resolveAnswer maps the reply's answer onto an option. Case and
// surrounding space differences are forgiven, and a bare option letter
// (A-D) selects by position. An unresolvable answer is kept verbatim so
// the record fails its check and is flagged.
func resolveAnswer(answer string, options []string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return quiz.AnswerNotFound
	}
	if strings.EqualFold(answer, quiz.AnswerNotFound) {
		return quiz.AnswerNotFound
	}
	for _, o := range options {
		if o == answer {
			return o
		}
	}
	for _, o := range options {
		if strings.EqualFold(o, answer) {
			return o
		}
	}
	letter := strings.TrimRight(answer, ").:")
	if len(letter) == 1 {
		idx := int(strings.ToUpper(letter)[0]) - 'A'
		if idx >= 0 && idx < len(options) && idx < quiz.OptionCount {
			return options[idx]
		}
	}
	return answer
}

// page returns the reply's page number when it names a page of the
// document. Otherwise it looks for the page containing the start of the
// question text, falling back to the first page.
func (n *normalizer) page(reported *float64, question string) int {
	if len(n.pages) == 0 {
		if reported != nil && *reported >= 1 {
			return int(math.Round(*reported))
		}
		return 1
	}

	if reported != nil {
		p := int(math.Round(*reported))
		for _, pg := range n.pages {
			if pg.Number == p {
				return p
			}
		}
	}

	if prefix := questionPrefix(question); prefix != "" {
		for _, pg := range n.pages {
			if strings.Contains(collapse(pg.Text), prefix) {
				return pg.Number
			}
		}
	}
	return n.pages[0].Number
}

// collapse lowercases s and folds runs of whitespace into one space.
func collapse(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// questionPrefix is the part of a question used to find its page. Only a
// prefix is used since long questions are often reworded towards the end.
func questionPrefix(question string) string {
	const n = 40
	key := collapse(question)
	if len(key) > n {
		key = key[:n]
	}
	return key
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
