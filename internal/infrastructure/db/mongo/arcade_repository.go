package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

const collectionArcade = "arcade_scores"

type ArcadeRepository struct {
	col *mongo.Collection
}

func NewArcadeRepository(db *mongo.Database) *ArcadeRepository {
	return &ArcadeRepository{col: db.Collection(collectionArcade)}
}

type arcadeDocument struct {
	AccountID string    `bson:"account_id"`
	Mode      string    `bson:"mode"`
	Score     int       `bson:"score"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d arcadeDocument) toDomain() domain.ArcadeScore {
	return domain.ArcadeScore{AccountID: d.AccountID, Mode: d.Mode, Score: d.Score, UpdatedAt: d.UpdatedAt.UTC()}
}

// RecordBest upserts only when the stored score is lower. A duplicate key on
// the upsert means a higher or equal score is already kept.
func (r *ArcadeRepository) RecordBest(ctx context.Context, score domain.ArcadeScore) (domain.ArcadeScore, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"account_id": score.AccountID,
		"mode":       score.Mode,
		"score":      bson.M{"$lt": score.Score},
	}
	update := bson.M{"$set": bson.M{"score": score.Score, "updated_at": score.UpdatedAt}}

	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return domain.ArcadeScore{}, fmt.Errorf("record score: %w", err)
	}

	var doc arcadeDocument
	if err := r.col.FindOne(ctx, bson.M{"account_id": score.AccountID, "mode": score.Mode}).Decode(&doc); err != nil {
		return domain.ArcadeScore{}, fmt.Errorf("read best score: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ArcadeRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.ArcadeScore, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"account_id": accountID}, options.Find().SetSort(bson.D{{Key: "mode", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}

	var docs []arcadeDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}

	out := make([]domain.ArcadeScore, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ArcadeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "mode", Value: 1}},
		Options: options.Index().SetName("uniq_account_mode").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("arcade indexes: %w", err)
	}
	return nil
}
