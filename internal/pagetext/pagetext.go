// Package pagetext turns a document into page-delimited plain text.
//
// Every page is preceded by a marker line carrying its 1-based number:
//
//	--- Page 1 ---
//	first page text
//
//	--- Page 2 ---
//	second page text
package pagetext

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrNoText is returned when a document yields no extractable text, as
// with scanned images.
var ErrNoText = errors.New("document contains no extractable text")

// Document is an uploaded input file.
type Document struct {
	Name string
	Data []byte
}

// Page is the text of one page.
type Page struct {
	Number int
	Text   string
}

// Source converts a document into page-delimited text.
type Source interface {
	Text(ctx context.Context, doc Document) (string, error)
}

var markerRe = regexp.MustCompile(`(?m)^--- Page (\d+) ---[ \t]*$`)

// Marker returns the marker line for page n.
func Marker(n int) string {
	return fmt.Sprintf("--- Page %d ---", n)
}

// Format renders pages in ascending order with a blank line between them.
func Format(pages []Page) string {
	var b strings.Builder
	for i, p := range pages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(Marker(p.Number))
		b.WriteByte('\n')
		b.WriteString(strings.TrimRight(p.Text, "\n"))
	}
	return b.String()
}

// Split parses page-delimited text back into pages. Text without any
// marker is treated as a single first page; anything before the first
// marker is dropped.
func Split(text string) []Page {
	locs := markerRe.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []Page{{Number: 1, Text: strings.TrimSpace(text)}}
	}

	pages := make([]Page, 0, len(locs))
	for i, loc := range locs {
		n, _ := strconv.Atoi(text[loc[2]:loc[3]])
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		pages = append(pages, Page{Number: n, Text: strings.TrimSpace(text[loc[1]:end])})
	}
	return pages
}

// FromFormFeeds builds pages from text whose pages are separated by form
// feeds, the way pdftotext writes them. A trailing empty page is dropped.
func FromFormFeeds(text string) []Page {
	parts := strings.Split(text, "\f")
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	pages := make([]Page, len(parts))
	for i, p := range parts {
		pages[i] = Page{Number: i + 1, Text: strings.TrimSpace(p)}
	}
	return pages
}

// HasText reports whether any page carries non-blank text.
func HasText(pages []Page) bool {
	for _, p := range pages {
		if strings.TrimSpace(p.Text) != "" {
			return true
		}
	}
	return false
}

// IsPDF sniffs the PDF magic header.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), []byte("%PDF-"))
}

// PlainText treats the document as UTF-8 text. Form feeds separate pages;
// text that already carries page markers passes through unchanged.
type PlainText struct{}

func (PlainText) Text(_ context.Context, doc Document) (string, error) {
	text := string(doc.Data)
	if markerRe.MatchString(text) {
		if !HasText(Split(text)) {
			return "", ErrNoText
		}
		return strings.TrimSpace(text), nil
	}
	pages := FromFormFeeds(text)
	if !HasText(pages) {
		return "", ErrNoText
	}
	return Format(pages), nil
}

// Auto dispatches on content: PDFs go to PDF, everything else to
// PlainText.
type Auto struct {
	PDF Source
}

// NewAuto returns an Auto source using pdftotext at the given path.
func NewAuto(pdftotextPath string) *Auto {
	return &Auto{PDF: &PDFToText{Binary: pdftotextPath}}
}

func (a *Auto) Text(ctx context.Context, doc Document) (string, error) {
	if IsPDF(doc.Data) {
		return a.PDF.Text(ctx, doc)
	}
	return PlainText{}.Text(ctx, doc)
}
