package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/jehub/points-backend/internal/models"
	"github.com/jehub/points-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure UserRepository implements the interface
var _ repositories.UserRepository = (*UserRepository)(nil)

// UserRepository handles MongoDB operations for User
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

func userIndexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "referralCode", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

// EnsureIndexes creates the unique indexes on email and referralCode. The
// services pre-check both fields, but only the store can hold uniqueness
// across concurrent signups.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, userIndexModels())
	return err
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, user)
	return err
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, err // Includes mongo.ErrNoDocuments
	}
	return &user, nil
}

// FindByEmail finds a user by email (emails are stored lowercased)
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByReferralCode finds the user owning a referral code (exact match)
func (r *UserRepository) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"referralCode": code}).Decode(&user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll retrieves users with pagination
func (r *UserRepository) FindAll(ctx context.Context, page, limit int) ([]*models.User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// FindReferred retrieves every user created with a referral code
func (r *UserRepository) FindReferred(ctx context.Context) ([]*models.User, error) {
	filter := bson.M{"referredByCode": bson.M{"$exists": true, "$ne": ""}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// TopReferrers retrieves users ordered by referral count, points breaking ties
func (r *UserRepository) TopReferrers(ctx context.Context, limit int) ([]*models.User, error) {
	if limit < 1 {
		limit = 10
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "totalReferrals", Value: -1}, {Key: "totalPoints", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []*models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []*models.User{}
	}
	return users, nil
}

// Update updates an existing user
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	filter := bson.M{"_id": user.ID}
	update := bson.M{"$set": user}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

// Delete deletes a user by ID
func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Count returns the total number of users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// IncrementPoints atomically credits totalPoints and availablePoints
func (r *UserRepository) IncrementPoints(ctx context.Context, userID primitive.ObjectID, points int) error {
	if points < 0 {
		return errors.New("points to add must not be negative")
	}
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$inc": bson.M{"totalPoints": points, "availablePoints": points},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// IncrementReferrals atomically bumps totalReferrals by one
func (r *UserRepository) IncrementReferrals(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$inc": bson.M{"totalReferrals": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SpendPoints moves amount from availablePoints to pointsSpent in one guarded
// update. The availablePoints filter makes the precondition and the decrement
// a single atomic store operation; totalPoints is untouched by spending.
func (r *UserRepository) SpendPoints(ctx context.Context, userID primitive.ObjectID, amount int) error {
	if amount < 0 {
		return errors.New("amount to spend must not be negative")
	}
	filter := bson.M{"_id": userID, "availablePoints": bson.M{"$gte": amount}}
	update := bson.M{
		"$inc": bson.M{"availablePoints": -amount, "pointsSpent": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// IncrementNotesUploaded bumps the uploaded-notes counter
func (r *UserRepository) IncrementNotesUploaded(ctx context.Context, userID primitive.ObjectID) error {
	return r.incrementCounter(ctx, userID, "notesUploaded")
}

// IncrementNotesDownloaded bumps the downloaded-notes counter
func (r *UserRepository) IncrementNotesDownloaded(ctx context.Context, userID primitive.ObjectID) error {
	return r.incrementCounter(ctx, userID, "notesDownloaded")
}

func (r *UserRepository) incrementCounter(ctx context.Context, userID primitive.ObjectID, field string) error {
	filter := bson.M{"_id": userID}
	update := bson.M{
		"$inc": bson.M{field: 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetTelegramVerified records the outcome of a membership check
func (r *UserRepository) SetTelegramVerified(ctx context.Context, userID primitive.ObjectID, verified bool) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{"telegramVerified": verified, "updatedAt": time.Now()}}
	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
