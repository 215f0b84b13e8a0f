package bedrock

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

func testCreds() Credentials {
	return Credentials{
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
		SessionToken:    "session-token",
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New("", testCreds()); err == nil || !strings.Contains(err.Error(), "region") {
		t.Errorf("error = %v, want missing region", err)
	}
	if _, err := New("us-east-1", Credentials{}); err == nil || !strings.Contains(err.Error(), "credentials") {
		t.Errorf("error = %v, want missing credentials", err)
	}
}

func TestSendMessage_SignedInvoke(t *testing.T) {
	var capturedPath, capturedAuth, capturedDate, capturedToken string
	var captured invokeRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		capturedAuth = r.Header.Get("Authorization")
		capturedDate = r.Header.Get("x-amz-date")
		capturedToken = r.Header.Get("x-amz-security-token")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"id": "msg-1",
			"model": "claude",
			"content": [{"type": "text", "text": "{\"title\": \"Bedrock Plan\"}"}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 9, "output_tokens": 6}
		}`)
	}))
	defer server.Close()

	provider, err := New("us-east-1", testCreds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	provider.WithBaseURL(server.URL)

	resp, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Model:        "anthropic.claude-3-haiku-20240307-v1:0",
		SystemPrompt: "Respond with JSON only.",
		Messages:     []ai.Message{{Role: ai.RoleUser, Content: "draft a plan"}},
		GenerationConfig: &ai.GenerationConfig{
			Temperature: 0.4,
			MaxTokens:   1200,
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if resp.Content != `{"title": "Bedrock Plan"}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.FinishReason != "end_turn" {
		t.Errorf("finish reason = %q", resp.FinishReason)
	}
	if resp.Usage == nil || resp.Usage.TotalTokens != 15 {
		t.Errorf("usage = %+v", resp.Usage)
	}

	if capturedPath != "/model/anthropic.claude-3-haiku-20240307-v1:0/invoke" {
		t.Errorf("path = %q", capturedPath)
	}
	if !strings.HasPrefix(capturedAuth, "AWS4-HMAC-SHA256 Credential=AKIDEXAMPLE/") {
		t.Errorf("Authorization = %q", capturedAuth)
	}
	if !strings.Contains(capturedAuth, "/us-east-1/bedrock/aws4_request") {
		t.Errorf("Authorization scope missing: %q", capturedAuth)
	}
	if !strings.Contains(capturedAuth, "SignedHeaders=") || !strings.Contains(capturedAuth, "Signature=") {
		t.Errorf("Authorization = %q", capturedAuth)
	}
	if capturedDate == "" {
		t.Error("expected x-amz-date header")
	}
	if capturedToken != "session-token" {
		t.Errorf("x-amz-security-token = %q", capturedToken)
	}

	if captured.AnthropicVersion != anthropicVersion {
		t.Errorf("anthropic_version = %q", captured.AnthropicVersion)
	}
	if captured.System != "Respond with JSON only." {
		t.Errorf("system = %q", captured.System)
	}
	if captured.MaxTokens != 1200 {
		t.Errorf("max_tokens = %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", captured.Messages)
	}
}

func TestSendMessage_Non2xxStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "not entitled to model"}`)
	}))
	defer server.Close()

	provider, err := New("us-east-1", testCreds())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	provider.WithBaseURL(server.URL)

	_, err = provider.SendMessage(context.Background(), ai.ChatRequest{
		Model:    "anthropic.claude-3-haiku-20240307-v1:0",
		Messages: []ai.Message{{Role: ai.RoleUser, Content: "hello"}},
	})
	if err == nil || !strings.Contains(err.Error(), "non-2xx status 403") {
		t.Errorf("error = %v, want non-2xx failure", err)
	}
}
