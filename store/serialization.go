package store

import (
	"encoding/json"
	"fmt"

	"github.com/newsweave/newsweave/core"
)

// MarshalQueueItem encodes a raw article for transport on the queue.
// The wire format is JSON so any consumer of the shared queue can decode it.
func MarshalQueueItem(article *core.Article) ([]byte, error) {
	if err := core.ValidateArticle(article); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	payload, err := json.Marshal(article)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return payload, nil
}

// UnmarshalQueueItem decodes a queue payload back into a raw article.
func UnmarshalQueueItem(payload []byte) (*core.Article, error) {
	var article core.Article
	if err := json.Unmarshal(payload, &article); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}

	if err := core.ValidateArticle(&article); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &article, nil
}
