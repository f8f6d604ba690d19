// Package history keeps the newest-first record of finished quiz attempts.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/abhisek/pdfquiz/internal/store"
	"github.com/google/uuid"
)

// Attempt is one finished quiz session. Attempts are never edited.
type Attempt struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
	Total     int       `json:"total"`
}

// Percent returns the score as a whole percentage.
func (a Attempt) Percent() int {
	if a.Total == 0 {
		return 0
	}
	return a.Score * 100 / a.Total
}

// Ledger is the append-only attempt list, mirrored to the history slot.
type Ledger struct {
	mu       sync.Mutex
	slots    store.Slots
	attempts []Attempt
	warn     io.Writer
	now      func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithWarnings sets where persistence warnings are written. Default stderr.
func WithWarnings(w io.Writer) Option {
	return func(l *Ledger) { l.warn = w }
}

// WithClock overrides the attempt timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// Load reads the ledger from its slot. A missing, unreadable or corrupt
// slot yields an empty ledger and a warning; it is never an error.
func Load(ctx context.Context, slots store.Slots, opts ...Option) *Ledger {
	l := &Ledger{slots: slots, warn: os.Stderr, now: time.Now}
	for _, o := range opts {
		o(l)
	}

	data, ok, err := slots.Get(ctx, store.KeyHistory)
	if err != nil {
		l.warnf("failed to read history: %v", err)
		return l
	}
	if !ok {
		return l
	}
	var attempts []Attempt
	if err := json.Unmarshal(data, &attempts); err != nil {
		l.warnf("ignoring corrupt history: %v", err)
		return l
	}
	for _, a := range attempts {
		if a.Score < 0 || a.Total < a.Score {
			l.warnf("ignoring corrupt history: attempt %s scores %d/%d", a.ID, a.Score, a.Total)
			return l
		}
	}
	l.attempts = attempts
	return l
}

// Append records a finished attempt at the front of the ledger.
func (l *Ledger) Append(ctx context.Context, score, total int) (Attempt, error) {
	if score < 0 || total < score {
		return Attempt{}, fmt.Errorf("invalid attempt score %d/%d", score, total)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	a := Attempt{
		ID:        uuid.NewString(),
		Timestamp: l.now().UTC(),
		Score:     score,
		Total:     total,
	}
	l.attempts = append([]Attempt{a}, l.attempts...)
	l.persist(ctx)
	return a, nil
}

// List returns the attempts, newest first.
func (l *Ledger) List() []Attempt {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Attempt(nil), l.attempts...)
}

// Len returns the number of recorded attempts.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.attempts)
}

// Clear removes every attempt.
func (l *Ledger) Clear(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts = nil
	if err := l.slots.Delete(ctx, store.KeyHistory); err != nil {
		l.warnf("failed to clear history: %v", err)
	}
}

func (l *Ledger) persist(ctx context.Context) {
	data, err := json.Marshal(l.attempts)
	if err != nil {
		l.warnf("failed to encode history: %v", err)
		return
	}
	if err := l.slots.Put(ctx, store.KeyHistory, data); err != nil {
		l.warnf("failed to save history: %v", err)
	}
}

func (l *Ledger) warnf(format string, args ...any) {
	if l.warn != nil {
		fmt.Fprintf(l.warn, "warning: "+format+"\n", args...)
	}
}
