package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/tieubaoca/rag-studio-be/types"
)

// OpenAIProvider implements both embedding and generation over the
// OpenAI API. The same type backs the Azure provider, which only differs
// in client configuration.
type OpenAIProvider struct {
	client         *openai.Client
	embeddingModel string
	llmModel       string
}

func NewOpenAIProvider(cfg types.ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return newOpenAIProvider(openai.NewClientWithConfig(clientCfg), cfg), nil
}

func NewAzureProvider(cfg types.ProviderConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" || cfg.AzureEndpoint == "" {
		return nil, errors.New("azure api key and endpoint are required")
	}
	clientCfg := openai.DefaultAzureConfig(cfg.APIKey, cfg.AzureEndpoint)
	if cfg.APIVersion != "" {
		clientCfg.APIVersion = cfg.APIVersion
	}
	if cfg.DeploymentName != "" {
		deployment := cfg.DeploymentName
		clientCfg.AzureModelMapperFunc = func(string) string { return deployment }
	}
	provider := newOpenAIProvider(openai.NewClientWithConfig(clientCfg), cfg)
	if cfg.DeploymentName != "" {
		provider.embeddingModel = cfg.DeploymentName
		if provider.llmModel == "" {
			provider.llmModel = cfg.DeploymentName
		}
	}
	return provider, nil
}

func newOpenAIProvider(client *openai.Client, cfg types.ProviderConfig) *OpenAIProvider {
	embeddingModel := cfg.ModelName
	if embeddingModel == "" {
		embeddingModel = string(openai.SmallEmbedding3)
	}
	llmModel := cfg.ModelName
	if llmModel == "" {
		llmModel = openai.GPT4oMini
	}
	return &OpenAIProvider{
		client:         client,
		embeddingModel: embeddingModel,
		llmModel:       llmModel,
	}
}

func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(p.embeddingModel),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, errors.New("embedding response count mismatch")
	}
	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

func (p *OpenAIProvider) Dimension() int {
	if strings.Contains(p.embeddingModel, "3-large") {
		return 3072
	}
	// text-embedding-3-small and ada-002
	return 1536
}

func (p *OpenAIProvider) Generate(ctx context.Context, systemPrompt, prompt string, temperature float64, maxTokens int) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.llmModel,
		Messages:    messages,
		Temperature: float32(temperature),
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return resp.Choices[0].Message.Content, nil
}
