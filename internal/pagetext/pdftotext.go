package pagetext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// DefaultBinary is the pdftotext executable looked up on PATH.
const DefaultBinary = "pdftotext"

// PDFToText extracts text with poppler's pdftotext.
type PDFToText struct {
	// Binary is the executable to run. Empty means DefaultBinary.
	Binary string
}

// Available reports whether the configured binary can be found.
func (p *PDFToText) Available() bool {
	_, err := exec.LookPath(p.binary())
	return err == nil
}

func (p *PDFToText) binary() string {
	if p.Binary == "" {
		return DefaultBinary
	}
	return p.Binary
}

// Text writes the document to a temporary file and runs pdftotext over it,
// reading the output from stdout. Cancelling ctx kills the process.
func (p *PDFToText) Text(ctx context.Context, doc Document) (string, error) {
	f, err := os.CreateTemp("", "pdfquiz-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(doc.Data); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, p.binary(), "-layout", "-enc", "UTF-8", f.Name(), "-")
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", fmt.Errorf("pdftotext not available (install poppler-utils): %w", err)
		}
		return "", fmt.Errorf("pdftotext failed: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	pages := FromFormFeeds(string(out))
	if !HasText(pages) {
		return "", ErrNoText
	}
	return Format(pages), nil
}
