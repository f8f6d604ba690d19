package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/abhisek/pdfquiz/internal/extraction"
	"github.com/abhisek/pdfquiz/internal/history"
	"github.com/abhisek/pdfquiz/internal/pagetext"
	"github.com/abhisek/pdfquiz/internal/quiz"
	"github.com/abhisek/pdfquiz/internal/store"
)

// Extractor turns a document into a quiz. *extraction.Pipeline implements it.
type Extractor interface {
	Run(ctx context.Context, doc pagetext.Document, mode extraction.Mode, report func(extraction.Progress)) (*quiz.Quiz, error)
}

// Engine is the session state machine. It composes the quiz store, the
// history ledger and the session state, and mirrors committed changes to
// the quiz slot. All methods are safe for concurrent use; mutations are
// serialized.
type Engine struct {
	mu sync.Mutex

	quizzes   *quiz.Store
	ledger    *history.Ledger
	slots     store.Slots
	extractor Extractor
	warn      io.Writer

	mode     Mode
	returnTo Mode
	state    *State
	pending  string

	progress   extraction.Progress
	generation uint64
	cancel     context.CancelFunc
	failure    string
}

// Option configures an Engine.
type Option func(*Engine)

// WithWarnings sets where persistence warnings are written. Default stderr.
func WithWarnings(w io.Writer) Option {
	return func(e *Engine) { e.warn = w }
}

// New creates an engine in Upload mode with no quiz. Call Restore to
// pick up persisted state.
func New(slots store.Slots, ledger *history.Ledger, extractor Extractor, opts ...Option) *Engine {
	e := &Engine{
		quizzes:   quiz.NewStore(),
		ledger:    ledger,
		slots:     slots,
		extractor: extractor,
		warn:      os.Stderr,
		mode:      ModeUpload,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Extract runs the extraction pipeline over exactly one document and, on
// success, starts a fresh session over the result. The engine lock is
// released while the pipeline runs; starting another extraction or a
// reset cancels this one, whose result is then discarded with
// ErrSuperseded. A pipeline failure returns the engine to Upload.
func (e *Engine) Extract(ctx context.Context, mode extraction.Mode, docs ...pagetext.Document) error {
	e.mu.Lock()
	switch {
	case len(docs) == 0:
		e.mu.Unlock()
		return ErrNoDocument
	case len(docs) > 1:
		e.mu.Unlock()
		return ErrTooManyDocuments
	case len(docs[0].Data) == 0:
		e.mu.Unlock()
		return ErrEmptyDocument
	}
	if e.mode != ModeUpload && e.mode != ModeExtracting {
		e.mu.Unlock()
		return &TransitionError{Action: "extract", From: e.mode}
	}
	if e.extractor == nil {
		e.mu.Unlock()
		return errors.New("no extractor configured")
	}

	if e.cancel != nil {
		e.cancel()
	}
	e.generation++
	gen := e.generation
	runCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mode = ModeExtracting
	e.progress = extraction.Progress{}
	e.failure = ""
	e.mu.Unlock()
	defer cancel()

	z, err := e.extractor.Run(runCtx, docs[0], mode, func(p extraction.Progress) {
		e.mu.Lock()
		defer e.mu.Unlock()
		if e.generation == gen {
			e.progress = p
		}
	})

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.generation != gen {
		return ErrSuperseded
	}
	e.cancel = nil

	if err != nil {
		e.mode = ModeUpload
		e.progress = extraction.Progress{}
		e.failure = failureMessage(err)
		return err
	}
	if z == nil || len(z.Questions) == 0 {
		e.mode = ModeUpload
		e.progress = extraction.Progress{}
		e.failure = "No questions could be extracted from this document."
		return extraction.ErrNoQuestions
	}

	e.quizzes.Replace(z)
	e.begin(z.Questions)
	e.persist(ctx)
	return nil
}

func failureMessage(err error) string {
	var f *extraction.Failure
	if errors.As(err, &f) {
		return f.Message
	}
	return fmt.Sprintf("Extraction failed: %v", err)
}

// Import replaces the active quiz with an exported one and starts a fresh
// session over it.
func (e *Engine) Import(ctx context.Context, data []byte) error {
	z, err := quiz.Import(data)
	if err != nil {
		return &InputError{Reason: err.Error()}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.mode {
	case ModeUpload, ModeQuiz, ModeResults:
	default:
		return &TransitionError{Action: "import", From: e.mode}
	}

	e.quizzes.Replace(z)
	e.begin(z.Questions)
	e.persist(ctx)
	return nil
}

// begin installs a new session over questions and enters Quiz mode.
func (e *Engine) begin(questions []quiz.Question) {
	e.state = newState(questions)
	e.pending = ""
	e.progress = extraction.Progress{}
	e.failure = ""
	e.mode = ModeQuiz
}

// Select sets the pending answer for the displayed question.
func (e *Engine) Select(option string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeQuiz {
		return &TransitionError{Action: "select an answer", From: e.mode}
	}
	q, _ := e.state.Current()
	if _, answered := e.state.Answers[q.ID]; answered {
		return ErrAlreadyAnswered
	}
	if !q.HasOption(option) {
		return ErrUnknownOption
	}
	e.pending = option
	return nil
}

// ConfirmAnswer commits the pending answer for the displayed question.
func (e *Engine) ConfirmAnswer(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeQuiz {
		return &TransitionError{Action: "confirm an answer", From: e.mode}
	}
	if e.pending == "" {
		return ErrNoSelection
	}
	q, _ := e.state.Current()
	if _, answered := e.state.Answers[q.ID]; answered {
		return ErrAlreadyAnswered
	}

	e.state.Answers[q.ID] = e.pending
	e.pending = ""
	e.persist(ctx)
	return nil
}

// GoNext moves to the next question. On the last question of an
// unfinished session it finishes the quiz instead.
func (e *Engine) GoNext(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.navigable() {
		return &TransitionError{Action: "navigate", From: e.mode}
	}
	if e.state.CurrentIndex == len(e.state.Questions)-1 {
		if e.mode == ModeResults {
			return ErrOutOfRange
		}
		return e.finish(ctx)
	}
	e.move(e.state.CurrentIndex + 1)
	e.persist(ctx)
	return nil
}

// GoPrev moves to the previous question.
func (e *Engine) GoPrev(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.navigable() {
		return &TransitionError{Action: "navigate", From: e.mode}
	}
	if e.state.CurrentIndex == 0 {
		return ErrOutOfRange
	}
	e.move(e.state.CurrentIndex - 1)
	e.persist(ctx)
	return nil
}

// JumpTo moves to question i (0-based) of the active view.
func (e *Engine) JumpTo(ctx context.Context, i int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.navigable() {
		return &TransitionError{Action: "navigate", From: e.mode}
	}
	if i < 0 || i >= len(e.state.Questions) {
		return ErrOutOfRange
	}
	e.move(i)
	e.persist(ctx)
	return nil
}

// navigable reports whether the question cursor can move. Results mode
// allows it for reviewing answers.
func (e *Engine) navigable() bool {
	return (e.mode == ModeQuiz || e.mode == ModeResults) && e.state != nil && len(e.state.Questions) > 0
}

func (e *Engine) move(i int) {
	e.state.CurrentIndex = i
	e.pending = ""
}

// FinishQuiz scores the session, records the attempt and shows results.
func (e *Engine) FinishQuiz(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeQuiz {
		return &TransitionError{Action: "finish the quiz", From: e.mode}
	}
	return e.finish(ctx)
}

func (e *Engine) finish(ctx context.Context) error {
	score, total := e.state.Score()
	if _, err := e.ledger.Append(ctx, score, total); err != nil {
		return err
	}
	e.state.Finished = true
	e.pending = ""
	e.mode = ModeResults
	e.persist(ctx)
	return nil
}

// StartFresh begins a new session over every question.
func (e *Engine) StartFresh(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeResults && e.mode != ModeUpload {
		return &TransitionError{Action: "start a new session", From: e.mode}
	}
	z := e.quizzes.Current()
	if z == nil || len(z.Questions) == 0 {
		return &TransitionError{Action: "start a session without a quiz", From: e.mode}
	}
	e.begin(z.Questions)
	e.persist(ctx)
	return nil
}

// Retake begins a new session over a filtered subset. Incorrect retakes
// filter the session just finished; the other modes draw from the whole
// quiz. An empty subset leaves the engine on the results screen.
func (e *Engine) Retake(ctx context.Context, mode RetakeMode) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeResults {
		return &TransitionError{Action: "retake", From: e.mode}
	}
	source := e.quizzes.Current().Questions
	if mode == RetakeIncorrect {
		source = e.state.Questions
	}
	subset, err := Filter(source, e.state.Answers, mode)
	if err != nil {
		return err
	}
	e.begin(subset)
	e.persist(ctx)
	return nil
}

// OpenAdmin enters the correction screen from Quiz.
func (e *Engine) OpenAdmin() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeQuiz {
		return &TransitionError{Action: "open admin", From: e.mode}
	}
	e.returnTo = e.mode
	e.mode = ModeAdmin
	return nil
}

// CloseAdmin returns from the correction screen.
func (e *Engine) CloseAdmin() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeAdmin {
		return &TransitionError{Action: "close admin", From: e.mode}
	}
	e.mode = e.returnTo
	return nil
}

// ApplyEdit corrects a question in the quiz and in the active view.
// Recorded attempts are not rescored.
func (e *Engine) ApplyEdit(ctx context.Context, id string, edit quiz.Edit) (quiz.Question, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeAdmin {
		return quiz.Question{}, &TransitionError{Action: "edit questions", From: e.mode}
	}
	updated, err := e.quizzes.Edit(id, edit)
	if err != nil {
		return quiz.Question{}, err
	}
	if e.state != nil {
		e.state.reflect(updated)
		if cur, ok := e.state.Current(); ok && cur.ID == id && !cur.HasOption(e.pending) {
			e.pending = ""
		}
	}
	e.persist(ctx)
	return updated, nil
}

// OpenProgress shows attempt history from Quiz or Results.
func (e *Engine) OpenProgress() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeQuiz && e.mode != ModeResults {
		return &TransitionError{Action: "open progress", From: e.mode}
	}
	e.returnTo = e.mode
	e.mode = ModeProgress
	return nil
}

// CloseProgress returns to the screen progress was opened from.
func (e *Engine) CloseProgress() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeProgress {
		return &TransitionError{Action: "close progress", From: e.mode}
	}
	e.mode = e.returnTo
	return nil
}

// NewDocument goes back to Upload to extract another document. The
// current quiz stays active until an extraction replaces it.
func (e *Engine) NewDocument() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeQuiz && e.mode != ModeResults {
		return &TransitionError{Action: "upload a new document", From: e.mode}
	}
	e.pending = ""
	e.mode = ModeUpload
	return nil
}

// CancelExtraction abandons the running extraction and returns to
// Upload. The active quiz, if any, is kept; the cancelled run's result
// is discarded with ErrSuperseded.
func (e *Engine) CancelExtraction() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeExtracting {
		return &TransitionError{Action: "cancel extraction", From: e.mode}
	}
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.generation++
	e.progress = extraction.Progress{}
	e.failure = ""
	e.mode = ModeUpload
	return nil
}

// Reset clears everything: the quiz, the session and the attempt
// history. A running extraction is cancelled and its result discarded.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.generation++
	e.quizzes.Clear()
	e.ledger.Clear(ctx)
	e.state = nil
	e.pending = ""
	e.progress = extraction.Progress{}
	e.failure = ""
	e.mode = ModeUpload
	e.persist(ctx)
}

// Export renders the active quiz as standalone JSON.
func (e *Engine) Export() ([]byte, error) {
	return quiz.Export(e.quizzes.Current())
}

// History returns the recorded attempts, newest first.
func (e *Engine) History() []history.Attempt {
	return e.ledger.List()
}
