package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"

	"github.com/newsweave/newsweave/core"
	"github.com/newsweave/newsweave/store"
)

// summaryDoc is the persisted shape of an event summary.
type summaryDoc struct {
	ID                primitive.ObjectID   `bson:"_id,omitempty"`
	Headline          string               `bson:"headline"`
	Summary           string               `bson:"summary"`
	Tags              []string             `bson:"tags"`
	CreatedAt         time.Time            `bson:"created_at"`
	RelatedArticleIDs []primitive.ObjectID `bson:"related_article_ids"`
	ArticleCount      int                  `bson:"article_count"`
}

func (d *summaryDoc) toCore() *core.Summary {
	related := make([]string, len(d.RelatedArticleIDs))
	for i, oid := range d.RelatedArticleIDs {
		related[i] = oid.Hex()
	}
	return &core.Summary{
		ID:                d.ID.Hex(),
		Headline:          d.Headline,
		Summary:           d.Summary,
		Tags:              d.Tags,
		CreatedAt:         d.CreatedAt,
		RelatedArticleIDs: related,
		ArticleCount:      d.ArticleCount,
	}
}

// SummaryRepository implements store.SummaryRepository on MongoDB.
type SummaryRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ store.SummaryRepository = (*SummaryRepository)(nil)

// NewSummaryRepository creates a summary repository on the given backend.
//
// Returns store.SummaryRepository interface to enforce abstraction.
func NewSummaryRepository(backend *Backend) (store.SummaryRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &SummaryRepository{
		backend: backend,
		logger:  slog.Default().With("component", "mongo-summaries"),
	}, nil
}

// InsertSummary persists a summary and returns the generated id.
func (r *SummaryRepository) InsertSummary(ctx context.Context, summary *core.Summary) (string, error) {
	if err := core.ValidateSummary(summary); err != nil {
		return "", err
	}

	related := make([]primitive.ObjectID, 0, len(summary.RelatedArticleIDs))
	for _, id := range summary.RelatedArticleIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return "", fmt.Errorf("%w: related article %q: %w", store.ErrInvalidQuery, id, err)
		}
		related = append(related, oid)
	}

	doc := &summaryDoc{
		Headline:          summary.Headline,
		Summary:           summary.Summary,
		Tags:              summary.Tags,
		CreatedAt:         summary.CreatedAt,
		RelatedArticleIDs: related,
		ArticleCount:      summary.ArticleCount,
	}

	result, err := r.backend.summaries().InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	summary.ID = oid.Hex()
	return summary.ID, nil
}

// GetSummary retrieves a single summary by ID.
func (r *SummaryRepository) GetSummary(ctx context.Context, id string) (*core.Summary, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidQuery, err)
	}

	var doc summaryDoc
	err = r.backend.summaries().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toCore(), nil
}
