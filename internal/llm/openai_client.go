// ABOUTME: OpenAI client for text embeddings used in duplicate detection
// ABOUTME: Uses text-embedding-3-small by default, with retry and L2 normalization
package llm

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/pressroom/dedup/internal/config"
	"github.com/pressroom/dedup/internal/util"
)

// OpenAIClient wraps the OpenAI embeddings API with retry logic
type OpenAIClient struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimension  int
	timeout    time.Duration
	maxRetries int
	retryDelay time.Duration
}

// NewOpenAIClient creates a new embedding client from configuration
func NewOpenAIClient(cfg *config.Config) (*OpenAIClient, error) {
	if cfg.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAIClient{
		client:     openai.NewClient(cfg.OpenAIKey),
		model:      openai.EmbeddingModel(cfg.EmbeddingModel),
		dimension:  cfg.VectorDimension,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
	}, nil
}

// Dimension returns the configured vector dimension
func (c *OpenAIClient) Dimension() int {
	return c.dimension
}

// Embed generates an L2-normalized embedding vector for the given text.
// Identical input yields an identical vector for a fixed model.
func (c *OpenAIClient) Embed(ctx context.Context, text string) ([]float64, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("cannot embed empty text")
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(util.CalculateBackoff(c.retryDelay, attempt)):
			}
		}

		reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
		resp, err := c.client.CreateEmbeddings(reqCtx, openai.EmbeddingRequestStrings{
			Input: []string{text},
			Model: c.model,
		})
		cancel()

		if err != nil {
			lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
			continue
		}
		if len(resp.Data) == 0 {
			lastErr = fmt.Errorf("attempt %d: no embeddings returned", attempt+1)
			continue
		}

		embedding32 := resp.Data[0].Embedding
		if len(embedding32) != c.dimension {
			return nil, fmt.Errorf("model returned %d-dimensional vector, expected %d",
				len(embedding32), c.dimension)
		}

		vector := make([]float64, len(embedding32))
		for i, v := range embedding32 {
			vector[i] = float64(v)
		}

		return NormalizeL2(vector), nil
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

// NormalizeL2 scales a vector to unit length in place and returns it.
// Zero vectors are returned unchanged.
func NormalizeL2(vector []float64) []float64 {
	var sum float64
	for _, v := range vector {
		sum += v * v
	}
	if sum == 0 {
		return vector
	}
	norm := math.Sqrt(sum)
	for i := range vector {
		vector[i] /= norm
	}
	return vector
}
