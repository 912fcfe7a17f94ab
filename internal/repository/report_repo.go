package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"compass/internal/model"
)

// ReportRepo handles MongoDB operations for counseling reports
type ReportRepo interface {
	SaveReport(ctx context.Context, report *model.Report) error
	GetReport(ctx context.Context, conversationID string) (*model.Report, error)
}

type reportRepo struct {
	collection *mongo.Collection
}

// NewReportRepo creates a new report repository
func NewReportRepo(db *mongo.Database) ReportRepo {
	return &reportRepo{
		collection: db.Collection(CollectionReports),
	}
}

func (r *reportRepo) SaveReport(ctx context.Context, report *model.Report) error {
	report.ID = ""
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"conversationId": report.ConversationID}, report, opts)
	return err
}

func (r *reportRepo) GetReport(ctx context.Context, conversationID string) (*model.Report, error) {
	var report model.Report
	err := r.collection.FindOne(ctx, bson.M{"conversationId": conversationID}).Decode(&report)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}
