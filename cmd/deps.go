package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/abhisek/pdfquiz/internal/extraction"
	"github.com/abhisek/pdfquiz/internal/history"
	"github.com/abhisek/pdfquiz/internal/llm"
	"github.com/abhisek/pdfquiz/internal/pagetext"
	"github.com/abhisek/pdfquiz/internal/session"
	"github.com/abhisek/pdfquiz/internal/store"
	"github.com/spf13/cobra"
)

// deps holds the opened store, the slot backend and the engine built
// over them.
type deps struct {
	store  *store.Store
	slots  store.Slots
	ledger *history.Ledger
	engine *session.Engine

	closers []func() error
}

// openDeps opens storage and restores the engine. When withExtractor is
// set the extraction pipeline is wired from the environment; a missing
// provider is reported and leaves extraction unavailable.
func openDeps(ctx context.Context, cmd *cobra.Command, withExtractor bool) (*deps, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	d := &deps{store: st, slots: st.Slots()}
	d.closers = append(d.closers, st.Close)

	if url := resolveRedisURL(cmd); url != "" {
		rs, err := store.OpenRedis(ctx, url)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("open redis: %w", err)
		}
		d.slots = rs
		d.closers = append(d.closers, rs.Close)
	}

	var extractor session.Extractor
	if withExtractor {
		p, err := newPipeline(ctx, st.EventRepo())
		if err != nil {
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
			fmt.Fprintln(os.Stderr, "Extraction will be unavailable; exported quizzes can still be imported.")
		} else {
			extractor = p
		}
	}

	d.ledger = history.Load(ctx, d.slots)
	d.engine = session.New(d.slots, d.ledger, extractor)
	d.engine.Restore(ctx)
	return d, nil
}

// newPipeline wires page text source, provider and client.
func newPipeline(ctx context.Context, eventRepo store.EventRepo) (*extraction.Pipeline, error) {
	provider, _, err := llm.NewProviderFromEnv(ctx, eventRepo)
	if err != nil {
		return nil, err
	}
	cfg := extraction.ConfigFromEnv()
	source := pagetext.NewAuto(cfg.PDFToText)
	return extraction.NewPipeline(source, extraction.NewClient(provider, cfg)), nil
}

// Close releases everything opened, last opened first.
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			fmt.Fprintf(os.Stderr, "warning: close: %v\n", err)
		}
	}
}
