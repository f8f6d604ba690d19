package pagetext

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAndSplit(t *testing.T) {
	pages := []Page{{1, "Intro text"}, {2, "Second page\nwith two lines"}, {3, "End"}}
	text := Format(pages)

	assert.Equal(t, "--- Page 1 ---\nIntro text\n\n--- Page 2 ---\nSecond page\nwith two lines\n\n--- Page 3 ---\nEnd", text)
	assert.Equal(t, pages, Split(text))
}

func TestSplit(t *testing.T) {
	assert.Nil(t, Split("  \n "))
	assert.Equal(t, []Page{{1, "no markers here"}}, Split("  no markers here\n"))
	assert.Equal(t, []Page{{4, "only four"}}, Split("preamble\n--- Page 4 ---\nonly four\n"))
}

func TestFromFormFeeds(t *testing.T) {
	pages := FromFormFeeds("one\n\ftwo\n\f")
	assert.Equal(t, []Page{{1, "one"}, {2, "two"}}, pages)

	pages = FromFormFeeds("single")
	assert.Equal(t, []Page{{1, "single"}}, pages)
}

func TestPlainText(t *testing.T) {
	ctx := context.Background()

	got, err := PlainText{}.Text(ctx, Document{Data: []byte("alpha\fbeta")})
	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\nalpha\n\n--- Page 2 ---\nbeta", got)

	marked := "--- Page 1 ---\nalready split"
	got, err = PlainText{}.Text(ctx, Document{Data: []byte(marked + "\n")})
	require.NoError(t, err)
	assert.Equal(t, marked, got)

	_, err = PlainText{}.Text(ctx, Document{Data: []byte(" \f \n")})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestIsPDF(t *testing.T) {
	assert.True(t, IsPDF([]byte("%PDF-1.7\n...")))
	assert.True(t, IsPDF([]byte("\n%PDF-1.4")))
	assert.False(t, IsPDF([]byte("plain notes")))
	assert.False(t, IsPDF(nil))
}

// fakePDFToText installs a shell script that mimics pdftotext by printing
// output to stdout.
func fakePDFToText(t *testing.T, output string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake needs a POSIX shell")
	}
	dir := t.TempDir()
	fixture := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(fixture, []byte(output), 0o644))
	script := filepath.Join(dir, "pdftotext")
	body := "#!/bin/sh\ncat '" + fixture + "'\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0o755))
	return script
}

func TestPDFToText_UsesFormFeedPages(t *testing.T) {
	bin := fakePDFToText(t, "Chapter 1\n\fChapter 2\n\f")
	src := &PDFToText{Binary: bin}
	assert.True(t, src.Available())

	got, err := src.Text(context.Background(), Document{Name: "a.pdf", Data: []byte("%PDF-1.4")})
	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\nChapter 1\n\n--- Page 2 ---\nChapter 2", got)
}

func TestPDFToText_NoText(t *testing.T) {
	bin := fakePDFToText(t, "\f\f")
	_, err := (&PDFToText{Binary: bin}).Text(context.Background(), Document{Data: []byte("%PDF-1.4")})
	assert.ErrorIs(t, err, ErrNoText)
}

func TestPDFToText_MissingBinary(t *testing.T) {
	src := &PDFToText{Binary: filepath.Join(t.TempDir(), "nope")}
	assert.False(t, src.Available())
	_, err := src.Text(context.Background(), Document{Data: []byte("%PDF-1.4")})
	assert.Error(t, err)
}

type fixedSource string

func (f fixedSource) Text(context.Context, Document) (string, error) { return string(f), nil }

func TestAuto_Dispatch(t *testing.T) {
	a := &Auto{PDF: fixedSource("from pdf")}
	ctx := context.Background()

	got, err := a.Text(ctx, Document{Data: []byte("%PDF-1.5 binary")})
	require.NoError(t, err)
	assert.Equal(t, "from pdf", got)

	got, err = a.Text(ctx, Document{Data: []byte("notes")})
	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\nnotes", got)
}

func TestPDFToText_RealBinary(t *testing.T) {
	src := &PDFToText{}
	if !src.Available() {
		t.Skip("pdftotext not installed")
	}
	_, err := src.Text(context.Background(), Document{Data: []byte("not really a pdf")})
	assert.Error(t, err)
}
