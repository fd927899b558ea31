package repositories

import (
	"context"

	"github.com/jehub/points-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository defines the interface for user data operations.
//
// All point mutations are expressed as atomic store increments rather than
// read-modify-write so concurrent updates to the same account cannot lose
// writes. Not-found is reported as mongo.ErrNoDocuments.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByReferralCode(ctx context.Context, code string) (*models.User, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.User, error)
	// FindReferred returns every user whose account was created with a
	// referral code, regardless of whether the bonus was posted.
	FindReferred(ctx context.Context) ([]*models.User, error)
	TopReferrers(ctx context.Context, limit int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)

	// IncrementPoints atomically adds points to both totalPoints and
	// availablePoints.
	IncrementPoints(ctx context.Context, userID primitive.ObjectID, points int) error
	// IncrementReferrals atomically bumps totalReferrals by one.
	IncrementReferrals(ctx context.Context, userID primitive.ObjectID) error
	// SpendPoints atomically moves amount from availablePoints to pointsSpent,
	// guarded by availablePoints >= amount. Returns mongo.ErrNoDocuments when
	// the guard fails or the user does not exist; no partial debit occurs.
	SpendPoints(ctx context.Context, userID primitive.ObjectID, amount int) error
	IncrementNotesUploaded(ctx context.Context, userID primitive.ObjectID) error
	IncrementNotesDownloaded(ctx context.Context, userID primitive.ObjectID) error
	SetTelegramVerified(ctx context.Context, userID primitive.ObjectID, verified bool) error
}

// LedgerRepository defines the interface for ledger entry operations.
// Entries are append-only; there is no update or delete.
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.LedgerEntry) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.LedgerEntry, error)
	FindByUserIDAndType(ctx context.Context, userID primitive.ObjectID, entryType models.EntryType) ([]*models.LedgerEntry, error)
	FindByEventKey(ctx context.Context, eventKey string) (*models.LedgerEntry, error)
	Count(ctx context.Context) (int64, error)
}

// AdminUserRepository defines the interface for admin account operations.
type AdminUserRepository interface {
	Create(ctx context.Context, adminUser *models.AdminUser) error
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AdminUser, error)
}

// TelegramMemberRepository defines the interface for channel member documents.
type TelegramMemberRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.TelegramMember, error)
	Upsert(ctx context.Context, member *models.TelegramMember) error
	FindAll(ctx context.Context, page, limit int) ([]*models.TelegramMember, error)
	Count(ctx context.Context) (int64, error)
}
