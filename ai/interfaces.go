package ai

import "context"

// Embedder generates vector embeddings from text for similarity clustering.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Summarizer synthesizes one event summary from the combined text of a
// cluster of articles covering the same real-world event.
// Implementations must be thread-safe for concurrent use.
type Summarizer interface {
	// SummarizeEvent sends the combined article text to the oracle and
	// returns the parsed structured result. The response is parsed
	// tolerantly (formatting fences are stripped, common JSON faults
	// repaired); a response that still fails to parse yields a typed error.
	SummarizeEvent(ctx context.Context, combined string) (*EventSummary, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Summarizer instances,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Summarizer returns the event summarization service.
	// The returned Summarizer is safe for concurrent use.
	Summarizer() Summarizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
