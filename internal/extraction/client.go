// Package extraction converts page-delimited document text into a quiz
// through a schema-constrained generative request.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/pdfquiz/internal/llm"
	"github.com/abhisek/pdfquiz/internal/pagetext"
	"github.com/abhisek/pdfquiz/internal/quiz"
)

// Client issues extraction requests and turns replies into quizzes.
// It does not retry: transient transport failures are retried by the
// provider, and a malformed reply is final.
type Client struct {
	provider llm.Provider
	config   Config
}

// NewClient creates a Client with the given provider and config.
func NewClient(provider llm.Provider, cfg Config) *Client {
	return &Client{provider: provider, config: cfg}
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.config
}

// Extract runs one extraction over page-delimited text.
func (c *Client) Extract(ctx context.Context, text string, mode Mode) (*quiz.Quiz, error) {
	raw, err := c.Send(ctx, BuildRequest(text, mode, c.config))
	if err != nil {
		return nil, err
	}
	return c.Parse(raw, text)
}

// Send issues req and returns the raw reply text. Provider errors are
// translated into the extraction error taxonomy where they describe the
// reply; transport errors pass through wrapped.
func (c *Client) Send(ctx context.Context, req llm.Request) (string, error) {
	ctx = llm.WithPurpose(ctx, Purpose)

	resp, err := c.provider.Generate(ctx, req)
	if err != nil {
		var (
			empty   *llm.ErrEmptyResponse
			maxTok  *llm.ErrMaxTokensExceeded
			invalid *llm.ErrInvalidResponse
		)
		switch {
		case errors.As(err, &empty):
			return "", &ErrEmptyResponse{Model: empty.Model}
		case errors.As(err, &maxTok):
			return "", &ErrMalformedOutput{Content: string(maxTok.Content), Err: err}
		case errors.As(err, &invalid):
			return "", &ErrMalformedOutput{Content: string(invalid.Content), Err: err}
		}
		return "", fmt.Errorf("extraction request failed: %w", err)
	}

	content := strings.TrimSpace(string(resp.Content))
	if content == "" {
		return "", &ErrEmptyResponse{Model: resp.Model}
	}
	if resp.StopReason == "max_tokens" && !json.Valid([]byte(stripCodeFences(content))) {
		return "", &ErrMalformedOutput{Content: content, Err: &llm.ErrMaxTokensExceeded{Content: resp.Content}}
	}
	return content, nil
}

// envelope is the decoded reply; records are decoded one by one.
type envelope struct {
	Title     *string           `json:"title"`
	Questions []json.RawMessage `json:"questions"`
}

// CountQuestions reports how many question records a raw reply carries,
// before normalization drops any. ok is false when the reply is not an
// extraction envelope.
func CountQuestions(raw string) (n int, ok bool) {
	var env envelope
	if err := json.Unmarshal([]byte(stripCodeFences(raw)), &env); err != nil || env.Questions == nil {
		return 0, false
	}
	return len(env.Questions), true
}

// Parse normalizes a raw reply into a quiz. text is the document the
// reply was produced from; it is used to back-fill page numbers.
func (c *Client) Parse(raw, text string) (*quiz.Quiz, error) {
	content := stripCodeFences(raw)
	if content == "" {
		return nil, &ErrEmptyResponse{}
	}

	var decoded any
	if err := json.Unmarshal([]byte(content), &decoded); err != nil {
		return nil, &ErrMalformedOutput{Content: raw, Err: err}
	}
	if err := llm.Validate(envelopeSchema, json.RawMessage(content)); err != nil {
		return nil, &ErrSchemaViolation{Content: raw, Err: errors.Unwrap(err)}
	}

	var env envelope
	if err := json.Unmarshal([]byte(content), &env); err != nil {
		return nil, &ErrMalformedOutput{Content: raw, Err: err}
	}

	raws := make([]rawQuestion, len(env.Questions))
	for i, item := range env.Questions {
		if err := json.Unmarshal(item, &raws[i]); err != nil {
			return nil, &ErrMalformedOutput{Content: raw, Err: fmt.Errorf("question %d: %w", i+1, err)}
		}
		if string(item) == "null" {
			return nil, &ErrMalformedOutput{Content: raw, Err: fmt.Errorf("question %d is null", i+1)}
		}
	}

	title := strings.TrimSpace(deref(env.Title))
	if title == "" {
		title = c.config.FallbackTitle
	}
	if title == "" {
		title = quiz.DefaultTitle
	}

	n := &normalizer{pages: pagetext.Split(text)}
	return &quiz.Quiz{Title: title, Questions: n.questions(raws)}, nil
}
