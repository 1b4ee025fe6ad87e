package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestOpenAIClientGenerateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not_found"}`))
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model":"gpt-4.1-mini",
			"output_text":"{\"category\":\"plumbing\",\"required_skills\":[\"plumbing\"],\"urgency\":4}",
			"usage":{"input_tokens":120,"output_tokens":30,"total_tokens":150}
		}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	})

	result, err := client.Generate(context.Background(), GenerateRequest{
		Model:           "gpt-4.1-mini",
		Instructions:    "Return JSON only",
		Input:           "water leaking under the kitchen sink",
		Temperature:     0.1,
		MaxOutputTokens: 400,
	})
	if err != nil {
		t.Fatalf("expected success, got err=%v", err)
	}
	if result.Text == "" {
		t.Fatalf("expected non-empty text")
	}
	if result.Usage.TotalTokens != 150 {
		t.Fatalf("expected total tokens 150, got %d", result.Usage.TotalTokens)
	}
}

func TestOpenAIClientRetriesOnRateLimit(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limited"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"gpt-4.1-mini","output_text":"{\"ok\":true}","usage":{"input_tokens":10,"output_tokens":5,"total_tokens":15}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	})
	result, err := client.Generate(context.Background(), GenerateRequest{
		Model:           "gpt-4.1-mini",
		Instructions:    "Return JSON only",
		Input:           "test",
		MaxOutputTokens: 100,
	})
	if err != nil {
		t.Fatalf("expected success after retry, got err=%v", err)
	}
	if result.Text == "" {
		t.Fatalf("expected non-empty text after retry")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", got)
	}
}

func TestOpenAIClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad_request"}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(OpenAIClientConfig{
		APIKey:     "test-key",
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: 3,
	})
	_, err := client.Generate(context.Background(), GenerateRequest{
		Model:           "gpt-4.1-mini",
		Instructions:    "Return JSON only",
		Input:           "test",
		MaxOutputTokens: 100,
	})
	if err == nil {
		t.Fatalf("expected error for 400 response")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single call for non-retryable error, got %d", got)
	}
}

func TestModelRouterDefaults(t *testing.T) {
	router := NewModelRouter(ModelRouterConfig{})

	classify := router.Select(TaskClassify)
	if classify.PrimaryModel == "" || classify.FallbackModel == "" {
		t.Fatalf("expected classify profile to have default models, got %+v", classify)
	}
	rank := router.Select(TaskRank)
	if rank.MaxOutputTokens <= classify.MaxOutputTokens {
		t.Fatalf("expected rank profile to allow longer output than classify")
	}
}
