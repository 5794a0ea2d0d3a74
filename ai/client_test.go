package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"langlab_backend/models"
)

func geminiResponse(text string) []byte {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return body
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_BASE_URL", srv.URL)
	t.Setenv("GEMINI_MAX_RETRIES", "0")
	return NewClient(zap.NewNop().Sugar())
}

func TestGenerateVocabulary(t *testing.T) {
	var gotPath string
	var gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req, "generationConfig")

		w.Write(geminiResponse(`[{"word":"serendipity","ipa":"ˌsɛrənˈdɪpɪti","meaning":"a happy accident","example":"Pure serendipity.","translation":"sự tình cờ"},{"word":"","meaning":"dropped"}]`))
	})

	items, err := client.GenerateVocabulary(context.Background(), "some transcript text")
	require.NoError(t, err)

	assert.Equal(t, "/v1beta/models/gemini-2.5-flash:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	require.Len(t, items, 1)
	assert.Equal(t, "serendipity", items[0].Word)
	assert.Equal(t, "sự tình cờ", items[0].Translation)
}

func TestLookupWord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiResponse(`{"word":"hello","ipa":"həˈloʊ","meaning":"a greeting","example":"Hello!","translation":"xin chào"}`))
	})

	item, err := client.LookupWord(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", item.Word)
	assert.Equal(t, "a greeting", item.Meaning)
}

func TestRateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"status":"RESOURCE_EXHAUSTED"}}`))
	})

	_, err := client.GenerateVocabulary(context.Background(), "text")
	assert.ErrorIs(t, err, models.ErrAIRateLimited)
}

func TestServerError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.LookupWord(context.Background(), "hello")
	assert.ErrorIs(t, err, models.ErrAIRequestFailed)
	assert.EqualValues(t, 1, calls.Load())
}

func TestMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_BASE_URL", "")
	client := NewClient(zap.NewNop().Sugar())

	_, err := client.GenerateVocabulary(context.Background(), "text")
	assert.ErrorIs(t, err, models.ErrAIRequestFailed)
}

func TestNonArrayVocabularyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiResponse(`{"word":"not an array"}`))
	})

	_, err := client.GenerateVocabulary(context.Background(), "text")
	assert.ErrorIs(t, err, models.ErrAIRequestFailed)
}
