package extraction

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/abhisek/pdfquiz/internal/quiz"
)

// Mode selects how questions are obtained from the document.
type Mode int

const (
	// ModeStrict extracts only the multiple-choice questions the document
	// already contains.
	ModeStrict Mode = iota
	// ModeAugmented also writes new questions from the document content,
	// each with exactly four options.
	ModeAugmented
)

func (m Mode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModeAugmented:
		return "augmented"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "strict" or "augmented", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "strict", "":
		return ModeStrict, nil
	case "augmented", "augment":
		return ModeAugmented, nil
	}
	return ModeStrict, fmt.Errorf("unknown extraction mode %q (want strict or augmented)", s)
}

// Config controls the extraction request.
type Config struct {
	// MaxTokens is the token budget for the reply. Whole documents produce
	// long replies, so this is far above a single-question budget.
	MaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// TargetQuestions is how many questions augmented mode asks for.
	TargetQuestions int

	// FallbackTitle is used when the reply has no title.
	FallbackTitle string

	// PDFToText is the pdftotext binary. Empty means look it up on PATH.
	PDFToText string
}

// DefaultConfig returns the recommended extraction settings.
func DefaultConfig() Config {
	return Config{
		MaxTokens:       8192,
		Temperature:     0.2,
		TargetQuestions: 10,
		FallbackTitle:   quiz.DefaultTitle,
	}
}

// ConfigFromEnv returns DefaultConfig overridden by PDFQUIZ_PDFTOTEXT,
// PDFQUIZ_EXTRACT_MAX_TOKENS and PDFQUIZ_EXTRACT_QUESTIONS. Unparseable
// numbers keep the default.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	cfg.PDFToText = os.Getenv("PDFQUIZ_PDFTOTEXT")
	if n, err := strconv.Atoi(os.Getenv("PDFQUIZ_EXTRACT_MAX_TOKENS")); err == nil && n > 0 {
		cfg.MaxTokens = n
	}
	if n, err := strconv.Atoi(os.Getenv("PDFQUIZ_EXTRACT_QUESTIONS")); err == nil && n > 0 {
		cfg.TargetQuestions = n
	}
	return cfg
}
