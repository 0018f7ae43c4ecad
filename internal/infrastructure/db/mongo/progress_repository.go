package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codetutor/tutor-api/internal/core/domain"
	"github.com/codetutor/tutor-api/internal/core/ports"
)

const collectionProgress = "progress"

// ProgressRepository stores one document per (account, lesson). With
// transactions enabled a push runs inside a multi-document transaction, which
// needs a replica set. Without them every write is still guarded on its own.
type ProgressRepository struct {
	client       *mongo.Client
	col          *mongo.Collection
	transactions bool
}

func NewProgressRepository(db *mongo.Database, transactions bool) *ProgressRepository {
	return &ProgressRepository{
		client:       db.Client(),
		col:          db.Collection(collectionProgress),
		transactions: transactions,
	}
}

type progressDocument struct {
	AccountID      string    `bson:"account_id"`
	LessonID       string    `bson:"lesson_id"`
	Status         string    `bson:"status"`
	HomeworkPassed bool      `bson:"homework_passed"`
	UpdatedAt      time.Time `bson:"updated_at"`
}

func (d progressDocument) toDomain() domain.Progress {
	return domain.Progress{
		AccountID:      d.AccountID,
		LessonID:       d.LessonID,
		Status:         domain.ProgressStatus(d.Status),
		HomeworkPassed: d.HomeworkPassed,
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func (r *ProgressRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.Progress, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "lesson_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	var docs []progressDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode progress: %w", err)
	}

	out := make([]domain.Progress, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *ProgressRepository) Atomically(ctx context.Context, fn func(ctx context.Context, store ports.ProgressStore) error) error {
	store := &progressStore{col: r.col}
	if !r.transactions {
		return fn(ctx, store)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, store)
	})
	return err
}

// EnsureIndexes creates the unique (account_id, lesson_id) index.
func (r *ProgressRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "lesson_id", Value: 1}},
		Options: options.Index().SetName("uniq_account_lesson").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("progress indexes: %w", err)
	}
	return nil
}

type progressStore struct {
	col *mongo.Collection
}

func (s *progressStore) Get(ctx context.Context, accountID, lessonID string) (*domain.Progress, error) {
	var doc progressDocument
	err := s.col.FindOne(ctx, bson.M{"account_id": accountID, "lesson_id": lessonID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProgressNotFound
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	p := doc.toDomain()
	return &p, nil
}

func (s *progressStore) Insert(ctx context.Context, p domain.Progress) error {
	_, err := s.col.InsertOne(ctx, progressDocument{
		AccountID:      p.AccountID,
		LessonID:       p.LessonID,
		Status:         string(p.Status),
		HomeworkPassed: p.HomeworkPassed,
		UpdatedAt:      p.UpdatedAt,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrProgressExists
		}
		return fmt.Errorf("insert progress: %w", err)
	}
	return nil
}

func (s *progressStore) Complete(ctx context.Context, p domain.Progress) (bool, error) {
	filter := bson.M{
		"account_id": p.AccountID,
		"lesson_id":  p.LessonID,
		"status":     bson.M{"$ne": string(domain.ProgressCompleted)},
	}
	update := bson.M{"$set": bson.M{
		"status":          string(p.Status),
		"homework_passed": p.HomeworkPassed,
		"updated_at":      p.UpdatedAt,
	}}

	res, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("complete progress: %w", err)
	}
	return res.MatchedCount > 0, nil
}
