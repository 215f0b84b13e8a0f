package gemini

import (
	"strings"

	"github.com/asthralabs/asthra/internal/utils"
	"github.com/asthralabs/asthra/providers/ai"
)

/*
	GEMINI API - REQUEST TYPES
*/

// generateContentRequest represents the request to Gemini's generateContent endpoint.
type generateContentRequest struct {
	Contents          []content          `json:"contents"`
	SystemInstruction *systemInstruction `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig  `json:"generationConfig,omitempty"`
}

// systemInstruction represents the system instruction for Gemini.
type systemInstruction struct {
	Parts []part `json:"parts"`
}

// content represents a content block with role and parts.
type content struct {
	Role  string `json:"role,omitempty"` // "user" or "model"
	Parts []part `json:"parts"`
}

// part represents a text content part.
type part struct {
	Text string `json:"text,omitempty"`
}

// generationConfig represents generation parameters for Gemini.
type generationConfig struct {
	Temperature      *float64 `json:"temperature,omitempty"`
	MaxOutputTokens  *int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string   `json:"responseMimeType,omitempty"`
}

/*
	GEMINI API - RESPONSE TYPES
*/

// generateContentResponse represents the response from generateContent.
type generateContentResponse struct {
	Candidates    []candidate    `json:"candidates"`
	UsageMetadata *usageMetadata `json:"usageMetadata,omitempty"`
	ResponseID    string         `json:"responseId,omitempty"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"` // "STOP", "MAX_TOKENS", "SAFETY", ...
}

type usageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

/*
	CONVERSION
*/

// requestToGemini converts an ai.ChatRequest to a Gemini generateContentRequest.
// Role mapping: user -> user, assistant -> model; the system prompt travels in
// systemInstruction.
func requestToGemini(request ai.ChatRequest) generateContentRequest {
	req := generateContentRequest{}

	if request.SystemPrompt != "" {
		req.SystemInstruction = &systemInstruction{
			Parts: []part{{Text: request.SystemPrompt}},
		}
	}

	for _, msg := range request.Messages {
		role := "user"
		if msg.Role == ai.RoleAssistant {
			role = "model"
		}
		req.Contents = append(req.Contents, content{
			Role:  role,
			Parts: []part{{Text: msg.Content}},
		})
	}

	gc := &generationConfig{}
	if request.GenerationConfig != nil {
		if request.GenerationConfig.Temperature != 0 {
			gc.Temperature = utils.Ptr(float64(request.GenerationConfig.Temperature))
		}
		if request.GenerationConfig.MaxTokens > 0 {
			gc.MaxOutputTokens = utils.Ptr(request.GenerationConfig.MaxTokens)
		}
	}
	if request.ResponseFormat != nil && request.ResponseFormat.Type == ai.ResponseFormatJSON {
		gc.ResponseMimeType = "application/json"
	}
	if gc.Temperature != nil || gc.MaxOutputTokens != nil || gc.ResponseMimeType != "" {
		req.GenerationConfig = gc
	}

	return req
}

// responseToGeneric extracts the first candidate's text parts into the
// provider-neutral response. Multiple parts are concatenated in order.
func responseToGeneric(model string, resp generateContentResponse) *ai.ChatResponse {
	cand := resp.Candidates[0]

	var text strings.Builder
	for _, p := range cand.Content.Parts {
		text.WriteString(p.Text)
	}

	out := &ai.ChatResponse{
		Id:           resp.ResponseID,
		Model:        model,
		Content:      text.String(),
		FinishReason: strings.ToLower(cand.FinishReason),
	}

	if resp.UsageMetadata != nil {
		out.Usage = &ai.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		}
	}

	return out
}
