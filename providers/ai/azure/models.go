package azure

import (
	"github.com/asthralabs/asthra/internal/utils"
	"github.com/asthralabs/asthra/providers/ai"
)

// Azure OpenAI deployments accept and return the OpenAI chat completions wire
// format; the types are declared here so the package owns its own envelope
// extraction.

type chatCompletionRequest struct {
	Messages       []chatMessage       `json:"messages"`
	Temperature    *float64            `json:"temperature,omitempty"`
	MaxTokens      *int                `json:"max_tokens,omitempty"`
	ResponseFormat *chatResponseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content,omitempty"`
}

type chatResponseFormat struct {
	Type string `json:"type"`
}

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   *chatUsage   `json:"usage,omitempty"`
}

type chatChoice struct {
	Index        int                 `json:"index"`
	Message      chatResponseMessage `json:"message"`
	FinishReason string              `json:"finish_reason"`
}

type chatResponseMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// requestFromGeneric converts an ai.ChatRequest into the deployment-scoped
// chat completions format. The model travels in the URL, not the body.
func requestFromGeneric(request ai.ChatRequest) chatCompletionRequest {
	req := chatCompletionRequest{}

	if request.SystemPrompt != "" {
		req.Messages = append(req.Messages, chatMessage{Role: string(ai.RoleSystem), Content: request.SystemPrompt})
	}
	for _, m := range request.Messages {
		req.Messages = append(req.Messages, chatMessage{Role: string(m.Role), Content: m.Content})
	}

	if gc := request.GenerationConfig; gc != nil {
		if gc.Temperature != 0 {
			req.Temperature = utils.Ptr(float64(gc.Temperature))
		}
		if gc.MaxTokens > 0 {
			req.MaxTokens = utils.Ptr(gc.MaxTokens)
		}
	}

	if rf := request.ResponseFormat; rf != nil && rf.Type != "" {
		req.ResponseFormat = &chatResponseFormat{Type: rf.Type}
	}

	return req
}

// responseToGeneric extracts the first choice into the provider-neutral response.
func responseToGeneric(resp chatCompletionResponse) *ai.ChatResponse {
	choice := resp.Choices[0]

	out := &ai.ChatResponse{
		Id:           resp.ID,
		Model:        resp.Model,
		Content:      choice.Message.Content,
		FinishReason: choice.FinishReason,
	}

	if resp.Usage != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}

	return out
}
