package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
)

func openAIServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models":
			_, _ = w.Write([]byte(`{"data": [{"id": "gpt-4o-mini"}]}`))
		case "/chat/completions":
			if r.Header.Get("Authorization") != "Bearer test-key" {
				t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
			}
			var req openai.ChatCompletionRequest
			_ = json.NewDecoder(r.Body).Decode(&req)
			if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "- 猫") {
				t.Errorf("prompt should carry the vocabulary: %+v", req.Messages)
			}
			_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
				Model: "gpt-4o-mini",
				Choices: []openai.ChatCompletionChoice{{
					Message: openai.ChatCompletionMessage{Role: "assistant", Content: content},
				}},
				Usage: openai.Usage{TotalTokens: 100},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func TestOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestOpenAIProvider_Summarize(t *testing.T) {
	server := openAIServer(t, "Learn 「猫」 first.")
	provider, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, StrictVocabulary: true})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Summarize(context.Background(), SummarizeRequest{
		Report:     sampleReport(),
		Vocabulary: []string{"猫", "憂鬱"},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if resp.Summary != "Learn 「猫」 first." || resp.TokensUsed != 100 || resp.Model != openai.GPT4oMini {
		t.Errorf("unexpected response: %+v", resp)
	}
	if len(resp.QuotedTerms) != 1 || resp.QuotedTerms[0] != "猫" {
		t.Errorf("unexpected quoted terms: %v", resp.QuotedTerms)
	}
}

func TestOpenAIProvider_VocabularyLeak(t *testing.T) {
	server := openAIServer(t, "Also learn 「犬」.")
	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, StrictVocabulary: true})

	_, err := provider.Summarize(context.Background(), SummarizeRequest{Vocabulary: []string{"猫"}})
	if err == nil || !strings.Contains(err.Error(), "VOCABULARY LEAK") {
		t.Errorf("expected vocabulary leak, got %v", err)
	}
}

func TestOpenAIProvider_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "Rate limit exceeded", "type": "rate_limit_error"}}`))
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	if _, err := provider.Summarize(context.Background(), SummarizeRequest{}); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be false on error")
	}
}

func TestOpenAIProvider_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := provider.Summarize(ctx, SummarizeRequest{}); err == nil {
		t.Fatal("Expected timeout error, got nil")
	}
}

func TestOpenAIProvider_IsAvailable(t *testing.T) {
	server := openAIServer(t, "")
	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL})

	if !provider.IsAvailable(context.Background()) {
		t.Error("Expected available to be true")
	}
}
