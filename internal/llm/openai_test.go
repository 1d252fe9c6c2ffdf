package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/liliang-cn/askpdf/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewOpenAIClient(OpenAIConfig{
		BaseURL: srv.URL + "/openai/v1",
		APIKey:  "test-key",
		Model:   "llama-3.1-70b-versatile",
	})
	require.NoError(t, err)
	return c
}

func TestNewOpenAIClientRequiresKey(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{Model: "m"})
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestGenerate(t *testing.T) {
	var got struct {
		Model       string  `json:"model"`
		Temperature float32 `json:"temperature"`
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "llama-3.1-70b-versatile",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "The sky is blue."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 30, "completion_tokens": 5, "total_tokens": 35}
		}`))
	})

	out, err := c.Generate(context.Background(), "What color is the sky?")
	require.NoError(t, err)
	assert.Equal(t, "The sky is blue.", out.Text)
	assert.Equal(t, 35, out.Tokens)

	assert.Equal(t, "llama-3.1-70b-versatile", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Equal(t, "What color is the sky?", got.Messages[0].Content)
	assert.Greater(t, got.Temperature, float32(0))
	assert.Less(t, got.Temperature, float32(1e-6))
}

func TestGenerateAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API Key", "type": "invalid_request_error", "code": "invalid_api_key"}}`))
	})

	_, err := c.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrRemoteCall)
	assert.Contains(t, err.Error(), "401")
}

func TestGenerateNoChoices(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "x", "choices": [], "usage": {"total_tokens": 3}}`))
	})

	_, err := c.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrRemoteCall)
}

func TestGenerateTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := NewOpenAIClient(OpenAIConfig{BaseURL: url, APIKey: "k", Model: "m"})
	require.NoError(t, err)

	_, err = c.Generate(context.Background(), "hi")
	assert.ErrorIs(t, err, domain.ErrRemoteCall)
}

func TestMockLLM(t *testing.T) {
	m := NewMockLLM(domain.Completion{Text: "a", Tokens: 1}, domain.Completion{Text: "b", Tokens: 2})

	first, _ := m.Generate(context.Background(), "p1")
	second, _ := m.Generate(context.Background(), "p2")
	third, _ := m.Generate(context.Background(), "p3")

	assert.Equal(t, "a", first.Text)
	assert.Equal(t, "b", second.Text)
	assert.Equal(t, "a", third.Text)
	assert.Equal(t, 3, m.Calls())
	assert.Equal(t, "p2", m.Prompt(1))
}
