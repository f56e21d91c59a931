package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder captures the decoded body of the last request.
func recorder(t *testing.T, reply string, status int) (*httptest.Server, *map[string]any) {
	t.Helper()
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func TestOpenAI_Complete(t *testing.T) {
	srv, got := recorder(t, `{
		"id": "chatcmpl-1", "object": "chat.completion", "created": 0, "model": "m",
		"choices": [{"index": 0, "finish_reason": "stop",
			"message": {"role": "assistant", "content": "  {\"agent\": \"math\"}  "}}]
	}`, http.StatusOK)

	c := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL})
	out, err := c.Complete(context.Background(), Request{Prompt: "classify", Model: "m", Temperature: 0.3, MaxTokens: 200})

	require.NoError(t, err)
	assert.Equal(t, `{"agent": "math"}`, out)
	assert.Equal(t, "m", (*got)["model"])
	assert.Equal(t, 0.3, (*got)["temperature"])
	assert.Equal(t, 200.0, (*got)["max_tokens"])
}

func TestOpenAI_ErrorStatus(t *testing.T) {
	srv, _ := recorder(t, `{"error": {"message": "bad key"}}`, http.StatusUnauthorized)

	c := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), Request{Prompt: "x", Model: "m"})
	assert.Error(t, err)
}

func TestOpenAI_NoChoices(t *testing.T) {
	srv, _ := recorder(t, `{"id": "x", "object": "chat.completion", "choices": []}`, http.StatusOK)

	c := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), Request{Prompt: "x", Model: "m"})
	assert.ErrorContains(t, err, "no choices")
}

func TestOpenAI_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewOpenAI(Config{APIKey: "test", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Complete(context.Background(), Request{Prompt: "x", Model: "m"})
	assert.Error(t, err)
}

func TestAnthropic_Complete(t *testing.T) {
	srv, got := recorder(t, `{
		"id": "msg_1", "type": "message", "role": "assistant", "model": "claude",
		"content": [{"type": "text", "text": "Hello "}, {"type": "text", "text": "there"}],
		"stop_reason": "end_turn", "usage": {"input_tokens": 3, "output_tokens": 2}
	}`, http.StatusOK)

	c := NewAnthropic(Config{APIKey: "test", BaseURL: srv.URL})
	out, err := c.Complete(context.Background(), Request{Prompt: "hi", Model: "claude"})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", out)
	assert.Equal(t, float64(anthropicMaxTokens), (*got)["max_tokens"])
	_, hasTemp := (*got)["temperature"]
	assert.False(t, hasTemp)
}

func TestNew(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNoAPIKey)

	c, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, c)

	c, err = New(Config{Provider: "Anthropic", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &Anthropic{}, c)

	_, err = New(Config{Provider: "carrier-pigeon", APIKey: "k"})
	assert.ErrorContains(t, err, "unknown provider")
}

func TestCompleterFunc(t *testing.T) {
	var c Completer = CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		return req.Prompt + "!", nil
	})
	out, err := c.Complete(context.Background(), Request{Prompt: "ok"})
	require.NoError(t, err)
	assert.Equal(t, "ok!", out)
}
