package plan

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/asthralabs/asthra/providers"
	"github.com/asthralabs/asthra/providers/ai"
)

// DefaultFetchTimeout bounds the single provider call per request. A timeout
// is treated like any other fetch failure and is never retried.
const DefaultFetchTimeout = 60 * time.Second

// Fetcher asks the active provider for an AI-drafted documentation plan.
// All failure modes (disabled selection, network errors, non-2xx responses,
// timeouts, malformed JSON) come back as ordinary error values; nothing
// panics across this boundary and callers never branch on provider kind.
type Fetcher struct {
	selection providers.Selection
	timeout   time.Duration
	logger    *slog.Logger
}

// NewFetcher creates a fetcher over the given selection. A nil logger falls
// back to slog.Default(); a non-positive timeout falls back to
// DefaultFetchTimeout.
func NewFetcher(selection providers.Selection, timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{selection: selection, timeout: timeout, logger: logger}
}

// Fetch dispatches one synchronous chat request for a documentation plan and
// returns the decoded JSON object. When the selection is disabled it returns
// the disabled reason immediately without any network call.
func (f *Fetcher) Fetch(ctx context.Context, message string) (map[string]any, error) {
	if !f.selection.Ready {
		return nil, errors.New(f.selection.Status)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	request := ai.ChatRequest{
		Model:        f.selection.Model,
		SystemPrompt: systemPrompt,
		Messages: []ai.Message{
			{Role: ai.RoleUser, Content: message},
		},
		ResponseFormat: &ai.ResponseFormat{Type: ai.ResponseFormatJSON},
		GenerationConfig: &ai.GenerationConfig{
			Temperature: 0.4,
			MaxTokens:   1200,
		},
	}

	f.logger.InfoContext(ctx, "llm send",
		slog.String("provider", string(f.selection.Kind)),
		slog.String("model", f.selection.Model),
	)

	start := time.Now()
	response, err := f.selection.Provider.SendMessage(ctx, request)
	elapsed := time.Since(start)

	if err != nil {
		f.logger.ErrorContext(ctx, "llm send failed",
			slog.String("provider", string(f.selection.Kind)),
			slog.String("model", f.selection.Model),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	f.logger.InfoContext(ctx, "llm send completed",
		slog.String("provider", string(f.selection.Kind)),
		slog.String("model", f.selection.Model),
		slog.Duration("duration", elapsed),
		slog.String("finish_reason", response.FinishReason),
	)

	return Parse(response.Content)
}
