package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/asthralabs/asthra/providers/ai"
)

func testRequest() ai.ChatRequest {
	return ai.ChatRequest{
		Model:        "gpt-4o-mini",
		SystemPrompt: "You are a drafting assistant.",
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: "Draft me a plan."},
		},
		ResponseFormat: &ai.ResponseFormat{Type: ai.ResponseFormatJSON},
		GenerationConfig: &ai.GenerationConfig{
			Temperature: 0.4,
			MaxTokens:   1200,
		},
	}
}

func TestSendMessage_ExtractsFirstChoice(t *testing.T) {
	var captured chatCompletionRequest
	var capturedAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "chatcmpl-123",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "{\"title\": \"AI Plan\"}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
		}`)
	}))
	defer server.Close()

	provider := New("test-key")
	provider.WithBaseURL(server.URL)

	resp, err := provider.SendMessage(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != `{"title": "AI Plan"}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.FinishReason != "stop" {
		t.Errorf("finish reason = %q", resp.FinishReason)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 15 {
		t.Errorf("usage = %+v", resp.Usage)
	}

	if capturedAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q", capturedAuth)
	}
	if captured.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", captured.Model)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Errorf("messages = %+v, want system prompt first", captured.Messages)
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Errorf("response format = %+v", captured.ResponseFormat)
	}
	if captured.Temperature == nil || *captured.Temperature != 0.4 {
		t.Errorf("temperature = %v", captured.Temperature)
	}
	if captured.MaxTokens == nil || *captured.MaxTokens != 1200 {
		t.Errorf("max tokens = %v", captured.MaxTokens)
	}
}

func TestSendMessage_MissingAPIKey(t *testing.T) {
	provider := New("")

	_, err := provider.SendMessage(context.Background(), testRequest())
	if err == nil || !strings.Contains(err.Error(), "API key") {
		t.Errorf("error = %v, want missing API key", err)
	}
}

func TestSendMessage_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limited"}}`)
	}))
	defer server.Close()

	provider := New("test-key")
	provider.WithBaseURL(server.URL)

	_, err := provider.SendMessage(context.Background(), testRequest())
	if err == nil || !strings.Contains(err.Error(), "non-2xx status 429") {
		t.Errorf("error = %v, want non-2xx failure", err)
	}
}

func TestSendMessage_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "chatcmpl-123", "choices": []}`)
	}))
	defer server.Close()

	provider := New("test-key")
	provider.WithBaseURL(server.URL)

	_, err := provider.SendMessage(context.Background(), testRequest())
	if err == nil || !strings.Contains(err.Error(), "no choices") {
		t.Errorf("error = %v, want no choices failure", err)
	}
}
