package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a deterministic 64-bit identifier derived from content.
// It is used for journal keys and log correlation, not for storage IDs
// (the document store generates those).
type Fingerprint uint64

// FingerprintOf generates a deterministic fingerprint from text using BLAKE2b.
// Identical input always produces an identical fingerprint.
func FingerprintOf(text string) Fingerprint {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return Fingerprint(binary.LittleEndian.Uint64(sum))
}

// Article is a news article flowing through the pipeline.
//
// In its raw form (as produced by a source adapter and carried on the queue)
// only the JSON-tagged fields are populated. The embedding worker fills in
// Embedding and ProcessedAt when it persists the record; the clustering
// engine later sets ClusterID exactly once, and it is never cleared.
type Article struct {
	Source      string     `json:"source"`
	URL         string     `json:"url"`
	Headline    string     `json:"headline"`
	Body        string     `json:"body"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"published_at"`

	ID          string    `json:"-"` // document store identifier, empty until persisted
	Embedding   []float32 `json:"-"`
	ProcessedAt time.Time `json:"-"`
	ClusterID   string    `json:"-"` // references a Summary; empty means unclustered
}

// Clustered reports whether the article has been assigned to an event cluster.
func (a *Article) Clustered() bool {
	return a.ClusterID != ""
}

// Summary is a synthesized account of one real-world event, built from a
// cluster of articles. Immutable after creation.
type Summary struct {
	ID                string
	Headline          string
	Summary           string
	Tags              []string // ordered, 3-5 topical keywords
	CreatedAt         time.Time
	RelatedArticleIDs []string
	ArticleCount      int
}
