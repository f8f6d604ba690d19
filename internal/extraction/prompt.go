package extraction

import (
	"fmt"
	"strings"

	"github.com/abhisek/pdfquiz/internal/llm"
	"github.com/abhisek/pdfquiz/internal/quiz"
)

// Purpose labels extraction requests in the LLM event log.
const Purpose = "quiz-extraction"

const systemPrompt = `You turn study documents into multiple-choice quizzes.

The document text is split into pages. Each page starts with a marker line such as "--- Page 3 ---".

Rules:
- Every question has exactly 4 distinct options.
- correctAnswer is the exact text of one of the options.
- Never invent an answer. If the document does not state which option is correct, set correctAnswer to "` + quiz.AnswerNotFound + `".
- Never invent an explanation. If the document gives no reasoning, set explanation to "` + quiz.ExplanationNotFound + `".
- pageNumber is the number from the nearest page marker above the text the question comes from.
- confidence is a number from 0 to 1 saying how certain you are that the question, options and answer were read correctly from the document. Use a low value for garbled or ambiguous text.
- title is a short name for the quiz based on the document.
- Reply with a single JSON object and nothing else.`

const strictInstruction = `Extract every multiple-choice question that appears in the document, in document order. Copy question and option text as written. Do not write new questions.`

// buildUserMessage constructs the user message for the given mode.
func buildUserMessage(text string, mode Mode, cfg Config) string {
	var b strings.Builder

	switch mode {
	case ModeAugmented:
		fmt.Fprintf(&b, "Extract every multiple-choice question that appears in the document, in document order. "+
			"If the document has fewer than %d, write new questions from its content until there are %d in total. "+
			"New questions must be answerable from the document alone.\n", cfg.TargetQuestions, cfg.TargetQuestions)
	default:
		b.WriteString(strictInstruction)
		b.WriteByte('\n')
	}

	b.WriteString("\nDocument:\n")
	b.WriteString(text)
	return b.String()
}

// BuildRequest assembles the instruction payload and structured-output
// schema for one extraction call.
func BuildRequest(text string, mode Mode, cfg Config) llm.Request {
	return llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(text, mode, cfg)},
		},
		Schema: QuizSchema(mode),
		// The reply may arrive fenced or with defects that are repaired
		// during normalization, so providers must not reject it.
		SkipValidation: true,
		MaxTokens:      cfg.MaxTokens,
		Temperature:    cfg.Temperature,
	}
}
