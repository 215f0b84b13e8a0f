// Package azure implements the AI provider interface for Azure OpenAI
// deployments. The wire format matches the OpenAI chat completions API, but
// the endpoint is deployment-scoped, the API version travels as a query
// parameter, and authentication uses the api-key header instead of a Bearer
// token.
package azure

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/asthralabs/asthra/internal/utils"
	"github.com/asthralabs/asthra/providers/ai"
)

// DefaultAPIVersion is used when no explicit API version is configured.
const DefaultAPIVersion = "2024-02-01"

// AzureProvider implements the Provider interface for Azure OpenAI.
type AzureProvider struct {
	apiKey     string
	endpoint   string
	deployment string
	apiVersion string
	client     *http.Client
}

var _ ai.Provider = (*AzureProvider)(nil)

// New creates a new Azure OpenAI provider for the given resource endpoint and
// deployment name.
func New(apiKey, endpoint, deployment, apiVersion string) *AzureProvider {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}
	return &AzureProvider{
		apiKey:     apiKey,
		endpoint:   strings.TrimRight(endpoint, "/"),
		deployment: deployment,
		apiVersion: apiVersion,
		client:     &http.Client{},
	}
}

// WithAPIKey sets the API key for the provider.
func (p *AzureProvider) WithAPIKey(apiKey string) ai.Provider {
	p.apiKey = apiKey
	return p
}

// WithBaseURL sets the resource endpoint for the API.
func (p *AzureProvider) WithBaseURL(baseURL string) ai.Provider {
	p.endpoint = strings.TrimRight(baseURL, "/")
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *AzureProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage implements the ai.Provider interface.
func (p *AzureProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("API key is not set")
	}
	if p.endpoint == "" || p.deployment == "" {
		return nil, fmt.Errorf("Azure endpoint or deployment is not set")
	}

	requestURL := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		p.endpoint, url.PathEscape(p.deployment), url.QueryEscape(p.apiVersion))

	// Azure authenticates with the api-key header, so DoPostSync's Bearer
	// default stays unused.
	httpResponse, resp, err := utils.DoPostSync[chatCompletionResponse](
		ctx, p.client, requestURL, "", requestFromGeneric(request),
		utils.HeaderOption{Key: "api-key", Value: p.apiKey},
	)
	if err != nil {
		return nil, err
	}

	if resp == nil {
		return nil, fmt.Errorf("empty response from Azure OpenAI API: %s", httpResponse.Status)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	return responseToGeneric(*resp), nil
}
