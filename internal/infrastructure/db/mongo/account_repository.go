package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

const (
	collectionAccounts = "accounts"
	indexHandle        = "uniq_username"
	indexContact       = "uniq_email"
)

type AccountRepository struct {
	col *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{col: db.Collection(collectionAccounts)}
}

type accountDocument struct {
	ID           string    `bson:"_id"`
	Handle       string    `bson:"username"`
	Contact      string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	FirstName    string    `bson:"first_name,omitempty"`
	LastName     string    `bson:"last_name,omitempty"`
	DateOfBirth  string    `bson:"dob,omitempty"`
	Title        string    `bson:"title"`
	AvatarURL    string    `bson:"avatar_url,omitempty"`
	XP           int       `bson:"xp"`
	Level        int       `bson:"level"`
	Vault        string    `bson:"api_key,omitempty"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

func toAccountDocument(a *domain.Account) accountDocument {
	return accountDocument{
		ID:           a.ID,
		Handle:       a.Handle,
		Contact:      a.Contact,
		PasswordHash: a.PasswordHash,
		FirstName:    a.FirstName,
		LastName:     a.LastName,
		DateOfBirth:  a.DateOfBirth,
		Title:        a.Title,
		AvatarURL:    a.AvatarURL,
		XP:           a.XP,
		Level:        a.Level,
		Vault:        a.Vault,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (d accountDocument) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID,
		Handle:       d.Handle,
		Contact:      d.Contact,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		DateOfBirth:  d.DateOfBirth,
		Title:        d.Title,
		AvatarURL:    d.AvatarURL,
		XP:           d.XP,
		Level:        d.Level,
		Vault:        d.Vault,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, toAccountDocument(account)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return accountConflict(err)
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// accountConflict tells which unique index rejected an insert.
func accountConflict(err error) error {
	if strings.Contains(err.Error(), indexContact) {
		return domain.ErrContactTaken
	}
	return domain.ErrHandleTaken
}

func (r *AccountRepository) FindByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username": handle})
}

func (r *AccountRepository) FindByContact(ctx context.Context, contact string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": contact})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc accountDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *AccountRepository) SetVault(ctx context.Context, accountID, blob string, now time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, accountID, bson.M{"$set": bson.M{"api_key": blob, "updated_at": now}})
	if err != nil {
		return fmt.Errorf("set vault: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) UpdateProfile(ctx context.Context, accountID string, patch domain.ProfilePatch, now time.Time) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := profileSet(patch)
	set["updated_at"] = now

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc accountDocument
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": accountID}, bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return doc.toDomain(), nil
}

func profileSet(p domain.ProfilePatch) bson.M {
	set := bson.M{}
	if p.FirstName != nil {
		set["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		set["last_name"] = *p.LastName
	}
	if p.DateOfBirth != nil {
		set["dob"] = *p.DateOfBirth
	}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.AvatarURL != nil {
		set["avatar_url"] = *p.AvatarURL
	}
	return set
}

// EnsureIndexes creates the unique username and email indexes.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName(indexHandle).SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetName(indexContact).SetUnique(true)},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("account indexes: %w", err)
	}
	return nil
}
