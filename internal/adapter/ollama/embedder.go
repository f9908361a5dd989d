package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Embedder generates embeddings through an Ollama server's OpenAI-compatible
// /v1 endpoint. Ollama ignores the API key but the client library requires
// one, so a placeholder is sent.
type Embedder struct {
	client     openai.Client
	model      string
	dimension  int
	timeout    time.Duration
	maxRetries int
}

const maxBatchSize = 100

// modelDimensions maps known embedding models to their vector dimension.
// Unknown models fall back to 768.
var modelDimensions = map[string]int{
	"mxbai-embed-large": 1024,
	"nomic-embed-text":  768,
	"all-minilm":        384,
}

func NewEmbedder(baseURL, model string, timeout time.Duration, maxRetries int) *Embedder {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}

	dimension := 768
	if d, ok := modelDimensions[model]; ok {
		dimension = d
	}

	return &Embedder{
		client: openai.NewClient(
			option.WithAPIKey("ollama"),
			option.WithBaseURL(baseURL),
			option.WithMaxRetries(0), // retries are handled here
		),
		model:      model,
		dimension:  dimension,
		timeout:    timeout,
		maxRetries: maxRetries,
	}
}

// Embed generates one vector per input text, preserving order. Inputs beyond
// the batch limit are embedded in successive requests.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var all [][]float32
	for i := 0; i < len(texts); i += maxBatchSize {
		end := i + maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}

		vectors, err := e.embedBatch(ctx, texts[i:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
	}
	return all, nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(e.model),
	}
	if len(texts) == 1 {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(texts[0]),
		}
	} else {
		params.Input = openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		}
	}

	var resp *openai.CreateEmbeddingResponse
	op := func() error {
		callCtx, cancel := context.WithTimeout(ctx, e.timeout)
		defer cancel()

		var err error
		resp, err = e.client.Embeddings.New(callCtx, params)
		if err != nil {
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	if err := backoff.Retry(op, retryPolicy(ctx, e.maxRetries)); err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || int(data.Index) >= len(vectors) {
			return nil, fmt.Errorf("embedding index %d out of range", data.Index)
		}
		v := make([]float32, len(data.Embedding))
		for i, f := range data.Embedding {
			v[i] = float32(f)
		}
		vectors[data.Index] = v
	}
	return vectors, nil
}

func (e *Embedder) Dimension() int {
	return e.dimension
}

func (e *Embedder) ModelName() string {
	return e.model
}
