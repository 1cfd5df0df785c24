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

// articleDoc is the persisted shape of an article record.
// cluster_id is omitted entirely until the clustering engine sets it, so
// the unclustered query can filter on field absence.
type articleDoc struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty"`
	Source      string              `bson:"source"`
	URL         string              `bson:"url"`
	Headline    string              `bson:"headline"`
	Body        string              `bson:"body"`
	Author      string              `bson:"author"`
	PublishedAt *time.Time          `bson:"published_at,omitempty"`
	Embedding   []float32           `bson:"embedding"`
	ProcessedAt time.Time           `bson:"processed_at"`
	ClusterID   *primitive.ObjectID `bson:"cluster_id,omitempty"`
}

func (d *articleDoc) toCore() *core.Article {
	article := &core.Article{
		ID:          d.ID.Hex(),
		Source:      d.Source,
		URL:         d.URL,
		Headline:    d.Headline,
		Body:        d.Body,
		Author:      d.Author,
		PublishedAt: d.PublishedAt,
		Embedding:   d.Embedding,
		ProcessedAt: d.ProcessedAt,
	}
	if d.ClusterID != nil {
		article.ClusterID = d.ClusterID.Hex()
	}
	return article
}

// ArticleRepository implements store.ArticleRepository on MongoDB.
type ArticleRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ store.ArticleRepository = (*ArticleRepository)(nil)

// NewArticleRepository creates an article repository on the given backend.
//
// Returns store.ArticleRepository interface to enforce abstraction.
func NewArticleRepository(backend *Backend) (store.ArticleRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ArticleRepository{
		backend: backend,
		logger:  slog.Default().With("component", "mongo-articles"),
	}, nil
}

// InsertArticle persists an embedded article and returns the generated id.
func (r *ArticleRepository) InsertArticle(ctx context.Context, article *core.Article) (string, error) {
	if err := core.ValidateArticle(article); err != nil {
		return "", err
	}

	doc := &articleDoc{
		Source:      article.Source,
		URL:         article.URL,
		Headline:    article.Headline,
		Body:        article.Body,
		Author:      article.Author,
		PublishedAt: article.PublishedAt,
		Embedding:   article.Embedding,
		ProcessedAt: article.ProcessedAt,
	}

	result, err := r.backend.articles().InsertOne(ctx, doc)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}

	article.ID = oid.Hex()
	return article.ID, nil
}

// GetArticle retrieves a single article by ID.
func (r *ArticleRepository) GetArticle(ctx context.Context, id string) (*core.Article, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidQuery, err)
	}

	var doc articleDoc
	err = r.backend.articles().FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongodrv.ErrNoDocuments) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toCore(), nil
}

// UnclusteredArticles returns every article with no cluster assignment.
func (r *ArticleRepository) UnclusteredArticles(ctx context.Context) ([]*core.Article, error) {
	return r.find(ctx, bson.M{"cluster_id": bson.M{"$exists": false}})
}

// AllArticles returns every stored article.
func (r *ArticleRepository) AllArticles(ctx context.Context) ([]*core.Article, error) {
	return r.find(ctx, bson.M{})
}

func (r *ArticleRepository) find(ctx context.Context, filter bson.M) ([]*core.Article, error) {
	cursor, err := r.backend.articles().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var articles []*core.Article
	for cursor.Next(ctx) {
		var doc articleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		articles = append(articles, doc.toCore())
	}
	return articles, cursor.Err()
}

// MarkClustered assigns summaryID as the cluster of each listed article.
// Each update filters on cluster_id still being unset, so a racing cycle
// cannot re-mark an already-clustered article.
func (r *ArticleRepository) MarkClustered(ctx context.Context, summaryID string, articleIDs []string) (int64, error) {
	if len(articleIDs) == 0 {
		return 0, nil
	}

	summaryOID, err := primitive.ObjectIDFromHex(summaryID)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", store.ErrInvalidQuery, err)
	}

	models := make([]mongodrv.WriteModel, 0, len(articleIDs))
	for _, id := range articleIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", store.ErrInvalidQuery, err)
		}
		models = append(models, mongodrv.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid, "cluster_id": bson.M{"$exists": false}}).
			SetUpdate(bson.M{"$set": bson.M{"cluster_id": summaryOID}}))
	}

	result, err := r.backend.articles().BulkWrite(ctx, models)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// UpdateEmbeddings replaces the embedding and processed timestamp of the
// given articles. Cluster assignments are untouched.
func (r *ArticleRepository) UpdateEmbeddings(ctx context.Context, articles ...*core.Article) error {
	if len(articles) == 0 {
		return nil
	}

	models := make([]mongodrv.WriteModel, 0, len(articles))
	for _, article := range articles {
		oid, err := primitive.ObjectIDFromHex(article.ID)
		if err != nil {
			return fmt.Errorf("%w: article %q: %w", store.ErrInvalidQuery, article.URL, err)
		}
		models = append(models, mongodrv.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid}).
			SetUpdate(bson.M{"$set": bson.M{
				"embedding":    article.Embedding,
				"processed_at": article.ProcessedAt,
			}}))
	}

	_, err := r.backend.articles().BulkWrite(ctx, models)
	return err
}
