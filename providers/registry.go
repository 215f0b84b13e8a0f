// Package providers selects the active AI backend for the process.
//
// Selection happens exactly once at startup and the resulting Selection is
// read-only afterwards, so it is safe for concurrent use by request handlers.
// A misconfigured or absent provider is state, not an error: the service keeps
// running in static-only mode with a human-readable reason.
package providers

import (
	"fmt"
	"strings"

	"github.com/asthralabs/asthra/config"
	"github.com/asthralabs/asthra/providers/ai"
	"github.com/asthralabs/asthra/providers/ai/azure"
	"github.com/asthralabs/asthra/providers/ai/bedrock"
	"github.com/asthralabs/asthra/providers/ai/gemini"
	"github.com/asthralabs/asthra/providers/ai/openai"
)

// Kind identifies a supported AI backend.
type Kind string

const (
	KindOpenAI  Kind = "openai"
	KindAzure   Kind = "azure"
	KindGemini  Kind = "gemini"
	KindBedrock Kind = "bedrock"
	KindNone    Kind = "none"
)

// SupportedProviders lists selectable provider names for display.
var SupportedProviders = []string{"openai", "azure", "gemini", "bedrock"}

// Selection is the outcome of provider selection. When Ready is false the
// Provider field is nil and Status carries the reason.
type Selection struct {
	Kind     Kind
	Model    string
	Provider ai.Provider
	Ready    bool
	Status   string
}

// Select examines the environment snapshot and picks the active provider.
// An explicit AI_PROVIDER value is honored (with credential validation);
// "auto" detects the first fully-configured backend in priority order
// azure, gemini, bedrock, openai.
func Select(env config.Env) Selection {
	name := strings.ToLower(env.GetDefault("AI_PROVIDER", "auto"))

	if name == "auto" {
		switch {
		case env.Get("AZURE_OPENAI_ENDPOINT") != "" && env.Get("AZURE_OPENAI_API_KEY") != "":
			name = "azure"
		case env.Get("GEMINI_API_KEY") != "":
			name = "gemini"
		case env.Get("AWS_ACCESS_KEY_ID") != "" || env.Get("AWS_SESSION_TOKEN") != "":
			name = "bedrock"
		case env.Get("OPENAI_API_KEY") != "":
			name = "openai"
		default:
			return disabled(KindNone, "No AI credentials found; running in static mode")
		}
	}

	switch name {
	case "openai":
		return selectOpenAI(env)
	case "azure":
		return selectAzure(env)
	case "gemini":
		return selectGemini(env)
	case "bedrock":
		return selectBedrock(env)
	default:
		return disabled(KindNone, fmt.Sprintf("unknown AI provider %q; supported: %s", name, strings.Join(SupportedProviders, ", ")))
	}
}

func selectOpenAI(env config.Env) Selection {
	apiKey := env.Get("OPENAI_API_KEY")
	if apiKey == "" {
		return disabled(KindOpenAI, "OPENAI_API_KEY missing")
	}
	return Selection{
		Kind:     KindOpenAI,
		Model:    env.GetDefault("OPENAI_MODEL", "gpt-4o-mini"),
		Provider: openai.New(apiKey),
		Ready:    true,
		Status:   "OpenAI ready",
	}
}

func selectAzure(env config.Env) Selection {
	endpoint := env.Get("AZURE_OPENAI_ENDPOINT")
	apiKey := env.Get("AZURE_OPENAI_API_KEY")
	deployment := env.GetDefault("AZURE_OPENAI_DEPLOYMENT", env.Get("AZURE_OPENAI_MODEL"))
	if endpoint == "" || apiKey == "" || deployment == "" {
		return disabled(KindAzure, "Azure OpenAI env vars missing (endpoint/key/deployment)")
	}
	apiVersion := env.GetDefault("AZURE_OPENAI_API_VERSION", azure.DefaultAPIVersion)
	return Selection{
		Kind:     KindAzure,
		Model:    deployment,
		Provider: azure.New(apiKey, endpoint, deployment, apiVersion),
		Ready:    true,
		Status:   "Azure OpenAI ready",
	}
}

func selectGemini(env config.Env) Selection {
	apiKey := env.Get("GEMINI_API_KEY")
	if apiKey == "" {
		return disabled(KindGemini, "GEMINI_API_KEY missing")
	}
	return Selection{
		Kind:     KindGemini,
		Model:    env.GetDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		Provider: gemini.New(apiKey),
		Ready:    true,
		Status:   "Gemini ready",
	}
}

func selectBedrock(env config.Env) Selection {
	region := env.GetDefault("AWS_REGION", env.Get("AWS_DEFAULT_REGION"))
	provider, err := bedrock.New(region, bedrock.Credentials{
		AccessKeyID:     env.Get("AWS_ACCESS_KEY_ID"),
		SecretAccessKey: env.Get("AWS_SECRET_ACCESS_KEY"),
		SessionToken:    env.Get("AWS_SESSION_TOKEN"),
	})
	if err != nil {
		// Construction failure keeps the registry disabled; the reason
		// captures the error message.
		return disabled(KindBedrock, fmt.Sprintf("Bedrock init error: %v", err))
	}
	return Selection{
		Kind:     KindBedrock,
		Model:    env.GetDefault("AWS_BEDROCK_MODEL", "anthropic.claude-3-haiku-20240307-v1:0"),
		Provider: provider,
		Ready:    true,
		Status:   "AWS Bedrock ready",
	}
}

func disabled(kind Kind, status string) Selection {
	return Selection{Kind: kind, Ready: false, Status: status}
}
