package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/tieubaoca/rag-studio-be/types"
)

// VertexProvider wraps the Gemini SDK for both embedding and generation.
// Authentication uses the service-account JSON from the settings when
// present, otherwise an API key.
type VertexProvider struct {
	opts           []option.ClientOption
	embeddingModel string
	llmModel       string
}

func NewVertexProvider(cfg types.ProviderConfig) (*VertexProvider, error) {
	var opts []option.ClientOption
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.APIKey != "":
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	default:
		return nil, errors.New("vertex credentials JSON or api key is required")
	}

	embeddingModel := cfg.ModelName
	if embeddingModel == "" {
		embeddingModel = "text-embedding-004"
	}
	llmModel := cfg.ModelName
	if llmModel == "" {
		llmModel = "gemini-2.5-pro"
	}

	return &VertexProvider{
		opts:           opts,
		embeddingModel: embeddingModel,
		llmModel:       llmModel,
	}, nil
}

func (p *VertexProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	client, err := genai.NewClient(ctx, p.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}
	defer client.Close()

	res, err := client.EmbeddingModel(p.embeddingModel).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, err
	}
	if res.Embedding == nil {
		return nil, errors.New("empty embedding response")
	}
	return res.Embedding.Values, nil
}

func (p *VertexProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	client, err := genai.NewClient(ctx, p.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}
	defer client.Close()

	em := client.EmbeddingModel(p.embeddingModel)
	batch := em.NewBatch()
	for _, t := range texts {
		batch = batch.AddContent(genai.Text(t))
	}
	res, err := em.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, err
	}
	if len(res.Embeddings) != len(texts) {
		return nil, errors.New("embedding response count mismatch")
	}
	vectors := make([][]float32, len(res.Embeddings))
	for i, e := range res.Embeddings {
		vectors[i] = e.Values
	}
	return vectors, nil
}

func (p *VertexProvider) Dimension() int {
	// text-embedding-004
	return 768
}

func (p *VertexProvider) Generate(ctx context.Context, systemPrompt, prompt string, temperature float64, maxTokens int) (string, error) {
	client, err := genai.NewClient(ctx, p.opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create vertex client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.llmModel)
	if systemPrompt != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}
	}
	model.SetTemperature(float32(temperature))
	if maxTokens > 0 {
		model.SetMaxOutputTokens(int32(maxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no response generated")
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return content, nil
}
