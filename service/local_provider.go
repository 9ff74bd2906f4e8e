package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/tieubaoca/rag-studio-be/types"
)

// LocalProvider runs embedding and generation against a local Ollama
// server, the no-credentials path for fully offline use.
type LocalProvider struct {
	llm      *ollama.LLM
	embedder *embeddings.EmbedderImpl

	dimOnce sync.Once
	dim     int
}

func NewLocalProvider(cfg types.ProviderConfig) (*LocalProvider, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := cfg.ModelName
	if model == "" {
		model = "nomic-embed-text"
	}

	llm, err := ollama.New(
		ollama.WithServerURL(baseURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local model: %w", err)
	}
	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}
	return &LocalProvider{llm: llm, embedder: embedder}, nil
}

func (p *LocalProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vector, err := p.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	p.dimOnce.Do(func() { p.dim = len(vector) })
	return vector, nil
}

func (p *LocalProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vectors, err := p.embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) > 0 {
		p.dimOnce.Do(func() { p.dim = len(vectors[0]) })
	}
	return vectors, nil
}

// Dimension is only known after the first embedding call; the local
// model decides it, not the configuration.
func (p *LocalProvider) Dimension() int {
	return p.dim
}

func (p *LocalProvider) Generate(ctx context.Context, systemPrompt, prompt string, temperature float64, maxTokens int) (string, error) {
	messages := []llms.MessageContent{}
	if systemPrompt != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextContent{Text: systemPrompt}},
		})
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
	})

	opts := []llms.CallOption{llms.WithTemperature(temperature)}
	if maxTokens > 0 {
		opts = append(opts, llms.WithMaxTokens(maxTokens))
	}

	res, err := p.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", errors.New("no response generated")
	}
	return res.Choices[0].Content, nil
}
