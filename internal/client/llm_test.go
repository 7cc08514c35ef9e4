package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"mercari/shopper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLLM(t *testing.T, handler http.HandlerFunc) LLMClient {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewLLMClient(config.LLMConfig{
		BaseURL:      srv.URL,
		Model:        "llama3.2",
		MaxTokens:    750,
		Temperature:  0.5,
		StopSequence: "\n\n",
		Timeout:      5,
	})
}

func TestGenerateConcatenatesStream(t *testing.T) {
	var got generateRequest

	llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"response":"{\"query\":"}`)
		fmt.Fprintln(w, `{"response":" \"switch\"}"}`)
		fmt.Fprintln(w, `{"done":true}`)
		fmt.Fprintln(w, `{"response":"ignored after done"}`)
	})

	text, err := llm.Generate(context.Background(), "find me a switch")
	require.NoError(t, err)

	assert.Equal(t, `{"query": "switch"}`, text)
	assert.Equal(t, "llama3.2", got.Model)
	assert.Equal(t, "find me a switch", got.Prompt)
	assert.Equal(t, 750, got.MaxTokens)
	assert.InDelta(t, 0.5, got.Temperature, 1e-9)
	assert.Equal(t, "\n\n", got.StopSequence)
}

func TestGenerateSkipsLinesThatAreNotJSON(t *testing.T) {
	llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"response":"a"}`)
		fmt.Fprintln(w, `garbage`)
		fmt.Fprintln(w, ``)
		fmt.Fprintln(w, `{"response":"b","done":true}`)
	})

	text, err := llm.Generate(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "ab", text)
}

func TestGenerateHTTPErrorIsTransport(t *testing.T) {
	llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := llm.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
	assert.Contains(t, err.Error(), "model not found")
}

func TestGenerateStreamError(t *testing.T) {
	llm := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"error":"out of memory"}`)
	})

	_, err := llm.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestGenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	llm := NewLLMClient(config.LLMConfig{BaseURL: url, Model: "m", MaxTokens: 1, Timeout: 2})

	_, err := llm.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestReadGenerateStreamTrims(t *testing.T) {
	text, err := readGenerateStream(strings.NewReader("{\"response\":\"  hi \\n\"}\n"))
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
}
