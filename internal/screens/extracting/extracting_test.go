package extracting

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/pdfquiz/internal/extraction"
	"github.com/abhisek/pdfquiz/internal/history"
	"github.com/abhisek/pdfquiz/internal/pagetext"
	"github.com/abhisek/pdfquiz/internal/quiz"
	"github.com/abhisek/pdfquiz/internal/screen"
	sess "github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/store"
)

// blockingExtractor signals once it runs and waits for cancellation.
type blockingExtractor struct {
	running chan struct{}
}

func (b blockingExtractor) Run(ctx context.Context, _ pagetext.Document, _ extraction.Mode, _ func(extraction.Progress)) (*quiz.Quiz, error) {
	close(b.running)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExtractingScreen_TickLoop(t *testing.T) {
	slots := store.NewMemorySlots()
	e := sess.New(slots, history.Load(context.Background(), slots, history.WithWarnings(io.Discard)), nil)
	s := New(e)

	if s.Init() == nil {
		t.Fatal("expected Init to start the tick loop")
	}
	_, cmd := s.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Error("expected the tick loop to continue")
	}
	if s.tickCount != 1 {
		t.Errorf("tickCount = %d, want 1", s.tickCount)
	}

	view := s.View(100, 30)
	if !strings.Contains(view, "Reading document") {
		t.Errorf("expected the first stage in view, got:\n%s", view)
	}
}

func TestCapitalize(t *testing.T) {
	if got := capitalize("checking questions"); got != "Checking questions" {
		t.Errorf("capitalize = %q", got)
	}
	if capitalize("") != "" {
		t.Error("expected empty string unchanged")
	}
}

func TestExtractingScreen_EscCancels(t *testing.T) {
	slots := store.NewMemorySlots()
	ex := blockingExtractor{running: make(chan struct{})}
	e := sess.New(slots, history.Load(context.Background(), slots, history.WithWarnings(io.Discard)), ex)

	done := make(chan error, 1)
	go func() {
		done <- e.Extract(context.Background(), extraction.ModeStrict, pagetext.Document{Name: "a.txt", Data: []byte("notes")})
	}()
	<-ex.running

	s := New(e)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("expected a change notification after cancelling")
	}
	if _, ok := cmd().(screen.ChangedMsg); !ok {
		t.Error("expected ChangedMsg")
	}
	if e.Mode() != sess.ModeUpload {
		t.Errorf("mode = %v, want Upload", e.Mode())
	}
	if err := <-done; err != sess.ErrSuperseded {
		t.Errorf("extract returned %v, want ErrSuperseded", err)
	}

	// Outside an extraction Esc does nothing.
	if _, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEscape}); cmd != nil {
		t.Error("expected no command once the engine left Extracting")
	}
}
