package mongodb

import (
	"context"
	"time"

	"github.com/jehub/points-backend/internal/models"
	"github.com/jehub/points-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure LedgerRepository implements the interface
var _ repositories.LedgerRepository = (*LedgerRepository)(nil)

// LedgerRepository handles MongoDB operations for LedgerEntry
type LedgerRepository struct {
	collection *mongo.Collection
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *mongo.Database) *LedgerRepository {
	return &LedgerRepository{
		collection: db.Collection("ledger_entries"),
	}
}

// Create appends a new ledger entry
func (r *LedgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	entry.ID = primitive.NewObjectID()
	entry.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

// FindByUserID retrieves a user's entries, newest first, with pagination
func (r *LedgerRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.LedgerEntry, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.LedgerEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.LedgerEntry{}
	}
	return entries, nil
}

// FindByUserIDAndType retrieves a user's entries of one type, newest first
func (r *LedgerRepository) FindByUserIDAndType(ctx context.Context, userID primitive.ObjectID, entryType models.EntryType) ([]*models.LedgerEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID, "type": entryType}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*models.LedgerEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []*models.LedgerEntry{}
	}
	return entries, nil
}

// FindByEventKey retrieves the entry posted for a logical event, if any
func (r *LedgerRepository) FindByEventKey(ctx context.Context, eventKey string) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.collection.FindOne(ctx, bson.M{"eventKey": eventKey}).Decode(&entry)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &entry, nil
}

// Count returns the total number of ledger entries
func (r *LedgerRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
