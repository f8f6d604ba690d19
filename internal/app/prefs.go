package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/abhisek/pdfquiz/internal/store"
)

// loadHighContrast reads the UI preference slot. A missing or unreadable
// slot means the default theme.
func loadHighContrast(ctx context.Context, slots store.Slots, warn io.Writer) bool {
	data, ok, err := slots.Get(ctx, store.KeyPrefs)
	if err != nil {
		fmt.Fprintf(warn, "warning: failed to read preferences: %v\n", err)
		return false
	}
	if !ok {
		return false
	}
	var on bool
	if err := json.Unmarshal(data, &on); err != nil {
		fmt.Fprintf(warn, "warning: ignoring corrupt preferences: %v\n", err)
		return false
	}
	return on
}

// saveHighContrast writes the UI preference slot.
func saveHighContrast(ctx context.Context, slots store.Slots, on bool, warn io.Writer) {
	data, _ := json.Marshal(on)
	if err := slots.Put(ctx, store.KeyPrefs, data); err != nil {
		fmt.Fprintf(warn, "warning: failed to save preferences: %v\n", err)
	}
}
