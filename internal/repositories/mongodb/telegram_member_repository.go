package mongodb

import (
	"context"
	"time"

	"github.com/jehub/points-backend/internal/models"
	"github.com/jehub/points-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure TelegramMemberRepository implements the interface
var _ repositories.TelegramMemberRepository = (*TelegramMemberRepository)(nil)

// TelegramMemberRepository handles MongoDB operations for TelegramMember
type TelegramMemberRepository struct {
	collection *mongo.Collection
}

// NewTelegramMemberRepository creates a new TelegramMemberRepository
func NewTelegramMemberRepository(db *mongo.Database) *TelegramMemberRepository {
	return &TelegramMemberRepository{
		collection: db.Collection("telegram_members"),
	}
}

// FindByUsername finds a member by username (stored without the @ prefix)
func (r *TelegramMemberRepository) FindByUsername(ctx context.Context, username string) (*models.TelegramMember, error) {
	var member models.TelegramMember
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&member)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &member, nil
}

// Upsert inserts or refreshes a member document keyed by telegramId
func (r *TelegramMemberRepository) Upsert(ctx context.Context, member *models.TelegramMember) error {
	member.UpdatedAt = time.Now()
	filter := bson.M{"telegramId": member.TelegramID}
	update := bson.M{"$set": member}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// FindAll retrieves members with pagination
func (r *TelegramMemberRepository) FindAll(ctx context.Context, page, limit int) ([]*models.TelegramMember, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "joinedAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var members []*models.TelegramMember
	if err = cursor.All(ctx, &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []*models.TelegramMember{}
	}
	return members, nil
}

// Count returns the total number of member documents
func (r *TelegramMemberRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
