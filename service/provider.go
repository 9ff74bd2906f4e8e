package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/tieubaoca/rag-studio-be/types"
)

// ErrUnknownProvider marks a provider name the resolvers do not know,
// a client error rather than a backend failure.
var ErrUnknownProvider = errors.New("unknown provider")

// EmbeddingProvider turns text into a fixed-length vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// LLMProvider generates an answer for a prompt.
type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt, prompt string, temperature float64, maxTokens int) (string, error)
}

// ResolveEmbeddingProvider maps a provider name to a concrete client.
// Clients are constructed per request; nothing is cached.
func ResolveEmbeddingProvider(name string, cfg types.ProviderConfig) (EmbeddingProvider, error) {
	switch name {
	case types.ProviderVertex:
		return NewVertexProvider(cfg)
	case types.ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case types.ProviderAzure:
		return NewAzureProvider(cfg)
	case types.ProviderAWS:
		return NewBedrockProvider(cfg)
	case types.ProviderLocal:
		return NewLocalProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}

// ResolveLLMProvider maps a provider name to a concrete LLM client.
// AWS Bedrock is embedding-only here, same as the rest of the system.
func ResolveLLMProvider(name string, cfg types.ProviderConfig) (LLMProvider, error) {
	switch name {
	case types.ProviderVertex:
		return NewVertexProvider(cfg)
	case types.ProviderOpenAI:
		return NewOpenAIProvider(cfg)
	case types.ProviderAzure:
		return NewAzureProvider(cfg)
	case types.ProviderLocal:
		return NewLocalProvider(cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
	}
}
