package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"compass/internal/model"
)

// MetricsRepo handles MongoDB operations for per-turn and per-conversation
// well-being metrics
type MetricsRepo interface {
	CreateMessageMetrics(ctx context.Context, m *model.MessageMetrics) error
	GetConversationMetrics(ctx context.Context, conversationID string) (*model.ConversationMetrics, error)
	UpsertConversationMetrics(ctx context.Context, m *model.ConversationMetrics) error
}

type metricsRepo struct {
	messageMetrics      *mongo.Collection
	conversationMetrics *mongo.Collection
}

// NewMetricsRepo creates a new metrics repository
func NewMetricsRepo(db *mongo.Database) MetricsRepo {
	return &metricsRepo{
		messageMetrics:      db.Collection(CollectionMessageMetrics),
		conversationMetrics: db.Collection(CollectionConversationMetrics),
	}
}

func (r *metricsRepo) CreateMessageMetrics(ctx context.Context, m *model.MessageMetrics) error {
	result, err := r.messageMetrics.InsertOne(ctx, m)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		m.ID = oid.Hex()
	}
	return nil
}

func (r *metricsRepo) GetConversationMetrics(ctx context.Context, conversationID string) (*model.ConversationMetrics, error) {
	var m model.ConversationMetrics
	err := r.conversationMetrics.FindOne(ctx, bson.M{"conversationId": conversationID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *metricsRepo) UpsertConversationMetrics(ctx context.Context, m *model.ConversationMetrics) error {
	m.ID = ""
	m.UpdatedAt = time.Now()
	opts := options.Replace().SetUpsert(true)
	_, err := r.conversationMetrics.ReplaceOne(ctx, bson.M{"conversationId": m.ConversationID}, m, opts)
	return err
}
