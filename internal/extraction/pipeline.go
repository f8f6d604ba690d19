package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/pdfquiz/internal/llm"
	"github.com/abhisek/pdfquiz/internal/pagetext"
	"github.com/abhisek/pdfquiz/internal/quiz"
)

// Failure is the pipeline-level error: which stage failed and a message
// fit to show the user. Err carries the classified cause.
type Failure struct {
	Stage   Stage
	Message string
	Err     error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Stage, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Pipeline reads a document, requests an extraction and normalizes the
// reply, reporting each stage as it starts.
type Pipeline struct {
	source pagetext.Source
	client *Client
}

// NewPipeline composes a text source and an extraction client.
func NewPipeline(source pagetext.Source, client *Client) *Pipeline {
	return &Pipeline{source: source, client: client}
}

// Run executes the pipeline. report may be nil. Every error returned is a
// *Failure.
func (p *Pipeline) Run(ctx context.Context, doc pagetext.Document, mode Mode, report func(Progress)) (*quiz.Quiz, error) {
	ctx = llm.WithDocument(ctx, doc.Name)
	enter := func(s Stage) {
		if report != nil {
			report(Progress{Stage: s, Percent: s.Percent()})
		}
	}

	enter(StageReading)
	text, err := p.source.Text(ctx, doc)
	if err != nil {
		return nil, classify(StageReading, err)
	}

	enter(StageBuilding)
	req := BuildRequest(text, mode, p.client.config)

	enter(StageRequesting)
	raw, err := p.client.Send(ctx, req)
	if err != nil {
		return nil, classify(StageRequesting, err)
	}

	enter(StageNormalizing)
	z, err := p.client.Parse(raw, text)
	if err != nil {
		return nil, classify(StageNormalizing, err)
	}
	if len(z.Questions) == 0 {
		return nil, classify(StageNormalizing, ErrNoQuestions)
	}

	enter(StageDone)
	return z, nil
}

// classify wraps err in a Failure with a user-facing message.
func classify(stage Stage, err error) *Failure {
	var (
		empty     *ErrEmptyResponse
		malformed *ErrMalformedOutput
		violation *ErrSchemaViolation
		rateLimit *llm.ErrRateLimit
		down      *llm.ErrProviderUnavailable
	)

	var msg string
	switch {
	case errors.Is(err, context.Canceled):
		msg = "Extraction was cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		msg = "Extraction timed out. The document may be too large; try a shorter one."
	case errors.Is(err, pagetext.ErrNoText):
		msg = "No readable text was found in this document. Scanned PDFs are not supported."
	case errors.As(err, &empty):
		msg = "The extraction service returned an empty response. Please try again."
	case errors.As(err, &malformed):
		msg = "The extraction result could not be read. The document may be too large or unreadable."
	case errors.As(err, &violation):
		msg = "The extraction service returned an unexpected format. Please try again."
	case errors.Is(err, ErrNoQuestions):
		msg = "No questions could be extracted from this document."
	case errors.As(err, &rateLimit):
		msg = "The extraction service is rate limiting requests. Wait a moment and try again."
	case errors.As(err, &down):
		msg = "The extraction service is unavailable. Check your connection and API key."
	case stage == StageReading:
		msg = fmt.Sprintf("The document could not be read: %v", err)
	default:
		msg = fmt.Sprintf("Extraction failed: %v", err)
	}
	return &Failure{Stage: stage, Message: msg, Err: err}
}
