package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rxtract/internal/port"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClientWithEndpoint(Config{APIKey: "test-key", DefaultModel: "test-model"}, srv.URL)
	return client, srv
}

func TestGenerate(t *testing.T) {
	var gotReq map[string]interface{}
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"corrected text"},"finish_reason":"stop"}]}`))
	})

	out, err := client.Generate(context.Background(), port.ChatInput{
		System:      "you fix OCR mistakes",
		User:        "Paracetam0l 500 mg",
		Temperature: 0.2,
	})
	require.NoError(t, err)
	assert.Equal(t, "corrected text", out)

	assert.Equal(t, "test-model", gotReq["model"])
	assert.Equal(t, 0.2, gotReq["temperature"])
	messages := gotReq["messages"].([]interface{})
	require.Len(t, messages, 2)
	assert.Nil(t, gotReq["response_format"])
}

func TestGenerateJSONMode(t *testing.T) {
	var gotReq map[string]interface{}
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"medications\":[]}"}}]}`))
	})

	out, err := client.Generate(context.Background(), port.ChatInput{
		User:     "extract",
		JSONMode: true,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"medications":[]}`, out)

	rf := gotReq["response_format"].(map[string]interface{})
	assert.Equal(t, "json_object", rf["type"])
	messages := gotReq["messages"].([]interface{})
	require.Len(t, messages, 1)
}

func TestGenerateRateLimited(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "7")
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Generate(context.Background(), port.ChatInput{User: "hi"})
	require.Error(t, err)

	var rl *RateLimitError
	require.ErrorAs(t, err, &rl)
	assert.Equal(t, "groq", rl.Provider)
	assert.Equal(t, 7, int(rl.RetryAfter.Seconds()))
}

func TestGenerateServerError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Generate(context.Background(), port.ChatInput{User: "hi"})
	assert.ErrorContains(t, err, "status 500")
}

func TestParseRetryAfterHeader(t *testing.T) {
	assert.Equal(t, 30, ParseRetryAfterHeader("30"))
	assert.Equal(t, 0, ParseRetryAfterHeader(""))
	assert.Equal(t, 0, ParseRetryAfterHeader("Wed, 21 Oct 2025 07:28:00 GMT"))
}

func TestParseResponseNoChoices(t *testing.T) {
	_, err := parseResponse([]byte(`{"choices":[]}`))
	assert.ErrorContains(t, err, "no choices")
}
