package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/pdfquiz/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"title":"A"}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"title":"B"}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"A"}`, string(resp1.Content))
	assert.Equal(t, 10, resp1.Usage.InputTokens)
	assert.Equal(t, "end", resp1.StopReason)

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"B"}`, string(resp2.Content))

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	require.ErrorAs(t, err, &unavail)
	assert.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "first", mock.Calls[0].Messages[0].Content)
}

func TestMockProvider_AppliesReplyChecks(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage("  ")},
		MockResponse{Content: json.RawMessage(`{"name":"x"}`), StopReason: "max_tokens"},
		MockResponse{Content: json.RawMessage(`{"name":"x"}`)},
		MockResponse{Content: json.RawMessage(`{"name":"x","age":3}`)},
	)
	ctx := context.Background()
	req := Request{Schema: testSchema()}

	_, err := mock.Generate(ctx, req)
	var empty *ErrEmptyResponse
	assert.ErrorAs(t, err, &empty)

	_, err = mock.Generate(ctx, req)
	var maxTok *ErrMaxTokensExceeded
	assert.ErrorAs(t, err, &maxTok)

	_, err = mock.Generate(ctx, req)
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)

	resp, err := mock.Generate(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x","age":3}`, string(resp.Content))
}

func TestMockProvider_DelayHonorsCancel(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := mock.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithTimeout(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Minute})
	p := WithTimeout(mock, 10*time.Millisecond)

	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "mock", p.ModelID())

	assert.Same(t, Provider(mock), WithTimeout(mock, 0))
}

func TestRequestContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "unknown", PurposeFrom(ctx))
	assert.Equal(t, "", DocumentFrom(ctx))

	ctx = WithDocument(WithPurpose(ctx, "quiz-extraction"), "a.pdf")
	assert.Equal(t, "quiz-extraction", PurposeFrom(ctx))
	assert.Equal(t, "a.pdf", DocumentFrom(ctx))
}

type recordingRepo struct {
	events []store.LLMRequestEventData
	err    error
}

func (r *recordingRepo) AppendLLMRequest(_ context.Context, data store.LLMRequestEventData) error {
	r.events = append(r.events, data)
	return r.err
}

func (r *recordingRepo) QueryLLMEvents(context.Context, store.QueryOpts) ([]store.LLMEvent, error) {
	return nil, nil
}

func (r *recordingRepo) GetLLMEvent(context.Context, int64) (*store.LLMEvent, error) {
	return nil, nil
}

func TestLoggingProvider_RecordsSuccessAndFailure(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"questions":[]}`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: &ErrInvalidResponse{Content: json.RawMessage(`{"oops"`), Err: errors.New("bad")}},
	)
	repo := &recordingRepo{}
	p := WithLogging(mock, repo)
	ctx := WithDocument(WithPurpose(context.Background(), "quiz-extraction"), "notes.pdf")

	req := Request{
		System:         "extract questions",
		Messages:       []Message{{Role: RoleUser, Content: "--- Page 1 ---\ntext"}},
		Schema:         testSchema(),
		SkipValidation: true,
	}
	_, err := p.Generate(ctx, req)
	require.NoError(t, err)
	_, err = p.Generate(ctx, req)
	require.Error(t, err)

	require.Len(t, repo.events, 2)
	ok, failed := repo.events[0], repo.events[1]

	assert.True(t, ok.Success)
	assert.Equal(t, "mock", ok.Provider)
	assert.Equal(t, "quiz-extraction", ok.Purpose)
	assert.Equal(t, 7, ok.InputTokens)
	assert.Equal(t, "notes.pdf", ok.Document)
	assert.NotContains(t, ok.RequestBody, "notes.pdf")
	assert.Contains(t, ok.RequestBody, "[system]\nextract questions")
	assert.Contains(t, ok.RequestBody, "--- Page 1 ---")
	assert.Contains(t, ok.RequestBody, "[schema: test-object]")
	assert.Equal(t, `{"questions":[]}`, ok.ResponseBody)

	assert.False(t, failed.Success)
	assert.Contains(t, failed.ErrorMessage, "bad")
	assert.Equal(t, `{"oops"`, failed.ResponseBody)
}

func TestLoggingProvider_LogFailureDoesNotFailRequest(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	p := WithLogging(mock, &recordingRepo{err: errors.New("db locked")})

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"anthropic without key", Config{Provider: "anthropic"}, true},
		{"anthropic with key", Config{Provider: "anthropic", Anthropic: AnthropicConfig{APIKey: "sk-test"}}, false},
		{"openai without key", Config{Provider: "openai"}, true},
		{"openai with key", Config{Provider: "openai", OpenAI: OpenAIConfig{APIKey: "sk-test"}}, false},
		{"openrouter without key", Config{Provider: "openrouter"}, true},
		{"gemini with key", Config{Provider: "gemini", Gemini: GeminiConfig{APIKey: "g"}}, false},
		{"mock needs no key", Config{Provider: "mock"}, false},
		{"unknown provider", Config{Provider: "unknown"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func clearProviderEnv(t *testing.T) {
	for _, k := range []string{
		"PDFQUIZ_LLM_PROVIDER", "PDFQUIZ_ANTHROPIC_API_KEY", "PDFQUIZ_OPENAI_API_KEY",
		"PDFQUIZ_GEMINI_API_KEY", "PDFQUIZ_OPENROUTER_API_KEY", "PDFQUIZ_LLM_TIMEOUT",
		"PDFQUIZ_LLM_MAX_ATTEMPTS", "GEMINI_API_KEY", "OPENAI_API_KEY",
		"ANTHROPIC_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Run("explicit provider", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("PDFQUIZ_LLM_PROVIDER", "openai")
		t.Setenv("PDFQUIZ_OPENAI_API_KEY", "sk-1")
		t.Setenv("PDFQUIZ_OPENAI_MODEL", "gpt-4.1-mini")
		t.Setenv("PDFQUIZ_LLM_TIMEOUT", "45s")
		t.Setenv("PDFQUIZ_LLM_MAX_ATTEMPTS", "5")

		cfg := ConfigFromEnv()
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "sk-1", cfg.OpenAI.APIKey)
		assert.Equal(t, "gpt-4.1-mini", cfg.OpenAI.Model)
		assert.Equal(t, "45s", cfg.Timeout.String())
		assert.Equal(t, 5, cfg.Retry.MaxAttempts)
		assert.NoError(t, cfg.Validate())
	})

	t.Run("discovers vendor key", func(t *testing.T) {
		clearProviderEnv(t)
		t.Setenv("OPENAI_API_KEY", "sk-2")

		cfg := ConfigFromEnv()
		assert.Equal(t, "openai", cfg.Provider)
		assert.Equal(t, "sk-2", cfg.OpenAI.APIKey)
	})

	t.Run("nothing configured", func(t *testing.T) {
		clearProviderEnv(t)
		cfg := ConfigFromEnv()
		assert.Equal(t, "anthropic", cfg.Provider)
		assert.Error(t, cfg.Validate())
	})
}

func TestConfigFrom_VendorTable(t *testing.T) {
	env := map[string]string{
		"ANTHROPIC_API_KEY":           "sk-ant",
		"OPENROUTER_API_KEY":          "sk-or",
		"PDFQUIZ_OPENROUTER_BASE_URL": "https://proxy.example/v1",
		"PDFQUIZ_GEMINI_MODEL":        "gemini-pro",
		"PDFQUIZ_LLM_TIMEOUT":         "-5s",
		"PDFQUIZ_LLM_MAX_ATTEMPTS":    "zero",
	}
	cfg := configFrom(func(k string) string { return env[k] })

	assert.Equal(t, "anthropic", cfg.Provider, "anthropic is discovered before openrouter")
	assert.Equal(t, "sk-ant", cfg.Anthropic.APIKey)
	assert.Empty(t, cfg.OpenRouter.APIKey, "only the discovered vendor takes its standard key")
	assert.Equal(t, "https://proxy.example/v1", cfg.OpenRouter.BaseURL)
	assert.Equal(t, "gemini-pro", cfg.Gemini.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, DefaultConfig().Timeout, cfg.Timeout, "invalid timeout is ignored")
	assert.Equal(t, 3, cfg.Retry.MaxAttempts, "invalid attempt count is ignored")
}

func TestConfig_ValidateNamesKeyVariable(t *testing.T) {
	err := Config{Provider: "openrouter"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PDFQUIZ_OPENROUTER_API_KEY")
}

func TestNewProvider_Mock(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: "mock"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.ModelID())

	_, err = NewProvider(context.Background(), Config{Provider: "carrier-pigeon"}, nil)
	assert.Error(t, err)
}
