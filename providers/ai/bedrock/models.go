package bedrock

import (
	"strings"

	"github.com/asthralabs/asthra/providers/ai"
)

// anthropicVersion is the fixed version marker Bedrock requires in the body.
const anthropicVersion = "bedrock-2023-05-31"

// defaultMaxTokens is applied when the caller does not set one; the Messages
// API rejects requests without a max_tokens field.
const defaultMaxTokens = 1024

/*
	ANTHROPIC MESSAGES API (BEDROCK) - INPUT
*/

type invokeRequest struct {
	AnthropicVersion string      `json:"anthropic_version"`
	System           string      `json:"system,omitempty"`
	Messages         []invokeMsg `json:"messages"`
	MaxTokens        int         `json:"max_tokens"`
	Temperature      *float64    `json:"temperature,omitempty"`
}

type invokeMsg struct {
	Role    string        `json:"role"` // "user" or "assistant"
	Content []invokeBlock `json:"content"`
}

type invokeBlock struct {
	Type string `json:"type"` // "text"
	Text string `json:"text,omitempty"`
}

/*
	ANTHROPIC MESSAGES API (BEDROCK) - OUTPUT
*/

type invokeResponse struct {
	ID         string        `json:"id"`
	Model      string        `json:"model"`
	Content    []invokeBlock `json:"content"`
	StopReason string        `json:"stop_reason,omitempty"` // "end_turn", "max_tokens", ...
	Usage      *invokeUsage  `json:"usage,omitempty"`
}

type invokeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

/*
	CONVERSION
*/

// requestToAnthropic converts an ai.ChatRequest into the Anthropic Messages
// body. The model ID travels in the URL, not the body; the system prompt uses
// the dedicated top-level field.
func requestToAnthropic(request ai.ChatRequest) invokeRequest {
	req := invokeRequest{
		AnthropicVersion: anthropicVersion,
		System:           request.SystemPrompt,
		MaxTokens:        defaultMaxTokens,
	}

	for _, m := range request.Messages {
		role := "user"
		if m.Role == ai.RoleAssistant {
			role = "assistant"
		}
		req.Messages = append(req.Messages, invokeMsg{
			Role:    role,
			Content: []invokeBlock{{Type: "text", Text: m.Content}},
		})
	}

	if gc := request.GenerationConfig; gc != nil {
		if gc.MaxTokens > 0 {
			req.MaxTokens = gc.MaxTokens
		}
		if gc.Temperature != 0 {
			t := float64(gc.Temperature)
			req.Temperature = &t
		}
	}

	return req
}

// responseToGeneric concatenates the text content blocks into the
// provider-neutral response.
func responseToGeneric(model string, resp invokeResponse) *ai.ChatResponse {
	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	out := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        model,
		Content:      text.String(),
		FinishReason: resp.StopReason,
	}

	if resp.Usage != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		}
	}

	return out
}
