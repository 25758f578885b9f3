package stdgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOpenAIGenerator_RequiresKey(t *testing.T) {
	_, err := NewOpenAIGenerator("  ", "")
	assert.ErrorIs(t, err, ErrCredentialMissing)

	_, err = NewOpenAIFactory("")("")
	assert.ErrorIs(t, err, ErrCredentialMissing)
}

func TestOpenAIGenerator_Generate(t *testing.T) {
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
		  "id": "chatcmpl-1",
		  "object": "chat.completion",
		  "model": "gpt-4o-mini",
		  "choices": [
		    {"index": 0, "message": {"role": "assistant", "content": "[{\"title\":\"a\"}]"}, "finish_reason": "stop"}
		  ]
		}`))
	}))
	defer server.Close()

	gen, err := NewOpenAIGenerator("sk-test", server.URL+"/v1")
	require.NoError(t, err)

	out, err := gen.Generate(context.Background(), CompletionRequest{
		Model:       "gpt-4o-mini",
		System:      SystemInstruction,
		Prompt:      "prompt",
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	})
	require.NoError(t, err)
	assert.Equal(t, `[{"title":"a"}]`, out)

	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.InDelta(t, 0.3, body["temperature"], 0.0001)
	assert.Equal(t, float64(1500), body["max_tokens"])

	messages, ok := body["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
	assert.Equal(t, SystemInstruction, messages[0].(map[string]interface{})["content"])
	assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])
}

func TestOpenAIGenerator_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`))
	}))
	defer server.Close()

	gen, err := NewOpenAIGenerator("sk-bad", server.URL+"/v1")
	require.NoError(t, err)

	_, err = gen.Generate(context.Background(), CompletionRequest{Model: "gpt-4", Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect API key provided")
}
