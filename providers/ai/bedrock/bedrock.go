// Package bedrock implements the AI provider interface for Anthropic models
// hosted on AWS Bedrock, using the Bedrock InvokeModel API.
//
// The request/response body format matches the Anthropic Messages API, but
// authentication uses AWS Signature V4 and the model ID is specified in the
// URL path rather than the request body.
package bedrock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/asthralabs/asthra/internal/utils"
	"github.com/asthralabs/asthra/providers/ai"
)

// Credentials holds AWS authentication credentials.
type Credentials struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// BedrockProvider implements the ai.Provider interface for AWS Bedrock.
type BedrockProvider struct {
	region  string
	creds   Credentials
	baseURL string
	client  *http.Client
}

var _ ai.Provider = (*BedrockProvider)(nil)

// New creates a new Bedrock provider for the given region and credentials.
// Returns an error when the region is missing or the credentials are unusable,
// since no endpoint can be derived without them.
func New(region string, creds Credentials) (*BedrockProvider, error) {
	if region == "" {
		return nil, fmt.Errorf("AWS region is required: set AWS_REGION or AWS_DEFAULT_REGION")
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, fmt.Errorf("AWS credentials are required: set AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")
	}

	return &BedrockProvider{
		region:  region,
		creds:   creds,
		baseURL: fmt.Sprintf("https://bedrock-runtime.%s.amazonaws.com", region),
		client:  &http.Client{},
	}, nil
}

// WithAPIKey is a no-op for Bedrock, which authenticates with SigV4 rather
// than a bearer key. It exists to satisfy the ai.Provider interface.
func (p *BedrockProvider) WithAPIKey(string) ai.Provider {
	return p
}

// WithBaseURL overrides the derived endpoint (useful for testing or VPC endpoints).
func (p *BedrockProvider) WithBaseURL(baseURL string) ai.Provider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

// WithHttpClient sets a custom HTTP client.
func (p *BedrockProvider) WithHttpClient(httpClient *http.Client) ai.Provider {
	p.client = httpClient
	return p
}

// SendMessage implements the ai.Provider interface. The request body is signed
// with AWS SigV4 before dispatch, so this does not go through utils.DoPostSync.
func (p *BedrockProvider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	body, err := json.Marshal(requestToAnthropic(request))
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	endpoint := p.baseURL + "/model/" + request.Model + "/invoke"
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	signRequest(req, body, p.creds, p.region, "bedrock", time.Now().UTC())

	res, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %w", err)
	}
	defer res.Body.Close()

	respBody, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body: %w", err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("non-2xx status %d: %s", res.StatusCode, string(respBody))
	}

	var resp invokeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("error unmarshaling LLM response body (status %d): %w\nResponse preview: %s", res.StatusCode, err, utils.TruncateString(string(respBody), 500))
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no content blocks in response")
	}

	return responseToGeneric(request.Model, resp), nil
}
