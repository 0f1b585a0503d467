package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openAIServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openai.ChatCompletionRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		if assert.Len(t, req.Messages, 2) {
			assert.Contains(t, req.Messages[1].Content, "POLICY NUMBER: POL-1")
		}

		resp := openai.ChatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
			},
			Usage: openai.Usage{TotalTokens: 100},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIProvider_ExtractFields_Success(t *testing.T) {
	server := openAIServer(t, "```json\n{\"policy_number\": \"POL-1\", \"estimated_damage\": 1200.5, \"vin\": null}\n```")

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini", Timeout: 5})
	require.NoError(t, err)

	resp, err := provider.ExtractFields(context.Background(), ExtractRequest{Text: "POLICY NUMBER: POL-1"})
	require.NoError(t, err)

	assert.Equal(t, "POL-1", resp.Fields["policy_number"])
	assert.Equal(t, 1200.5, resp.Fields["estimated_damage"])
	assert.Nil(t, resp.Fields["vin"])
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, 100, resp.TokensUsed)
}

func TestOpenAIProvider_ExtractFields_SchemaMismatch(t *testing.T) {
	server := openAIServer(t, `{"policy_number": {"value": "POL-1"}}`)

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})
	require.NoError(t, err)

	_, err = provider.ExtractFields(context.Background(), ExtractRequest{Text: "POLICY NUMBER: POL-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestOpenAIProvider_ExtractFields_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": {"message": "Invalid API key", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "bad-key", BaseURL: server.URL, Timeout: 5})
	require.NoError(t, err)

	_, err = provider.ExtractFields(context.Background(), ExtractRequest{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OpenAI API error")
}

func TestOpenAIProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{})
	assert.Error(t, err)
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(openai.ModelsList{Models: []openai.Model{{ID: "gpt-4o-mini"}}})
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)
	assert.True(t, provider.IsAvailable(context.Background()))
	assert.Equal(t, "openai", provider.Name())
}
