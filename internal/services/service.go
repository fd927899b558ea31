package services

import (
	"context"

	"github.com/jehub/points-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LedgerService defines the interface for point-affecting operations. Every
// operation keeps totalPoints == availablePoints + pointsSpent on the user
// record and appends an immutable ledger entry.
type LedgerService interface {
	// Credit adds amount to a user's balance and records the entry. When
	// opts.EventKey is set the credit is idempotent: re-running it for the
	// same key returns the already-posted entry without mutating balances.
	Credit(ctx context.Context, userID primitive.ObjectID, entryType models.EntryType, amount int, opts CreditOptions) (*models.LedgerEntry, error)

	// Debit moves amount from availablePoints to pointsSpent. Fails with
	// ErrInsufficientBalance when availablePoints < amount, leaving balances
	// unchanged; totalPoints is never reduced by spending.
	Debit(ctx context.Context, userID primitive.ObjectID, amount int, description string) (*models.LedgerEntry, error)

	// Initialize posts the signup bonus for a freshly created account.
	Initialize(ctx context.Context, userID primitive.ObjectID) error

	GetUserPoints(ctx context.Context, userID primitive.ObjectID) (*models.PointsSummary, error)
	GetEntries(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.LedgerEntry, error)

	AwardUploadReward(ctx context.Context, userID primitive.ObjectID, noteTitle string) (*models.LedgerEntry, error)
	AwardDownloadFulfilled(ctx context.Context, uploaderID, downloaderID primitive.ObjectID, noteTitle string) (*models.LedgerEntry, error)
	SpendOnDownload(ctx context.Context, userID primitive.ObjectID, amount int, noteTitle string) (*models.LedgerEntry, error)
}

// CreditOptions carries the optional fields of a credit.
type CreditOptions struct {
	RelatedUserID primitive.ObjectID
	EventKey      string
	Description   string
}

// ReferralService defines the interface for signup-time referral resolution
// and the referral reporting surface.
type ReferralService interface {
	// Signup validates the supplied referral code (when present), creates the
	// account with a freshly minted code, posts the signup bonus and credits
	// the referrer. A supplied code that resolves to nothing fails the whole
	// signup; no account is created.
	Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error)

	ValidateCode(ctx context.Context, code string) (*models.ReferralValidation, error)
	GetStats(ctx context.Context, userID primitive.ObjectID) (*models.ReferralStats, error)
	GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)

	// Reconcile re-posts referral bonuses for referred accounts whose credit
	// was lost between account creation and crediting. Safe to re-run.
	Reconcile(ctx context.Context) (*models.ReconcileReport, error)
}

// UserService defines the interface for user lookups and admin user management
type UserService interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetAllUsers(ctx context.Context, page, limit int) ([]*models.User, error)
	GetUserCount(ctx context.Context) (int64, error)
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
}

// AuthService defines the interface for admin authentication
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.AdminUser, error)
	Login(ctx context.Context, req *models.LoginRequest) (string, error) // Returns JWT token
}

// TelegramService defines the interface for channel membership verification
type TelegramService interface {
	GetMember(ctx context.Context, username string) (*models.TelegramMember, error)
	// VerifyUser checks whether the user's telegramUsername belongs to an
	// active channel member and records the outcome on the user document.
	VerifyUser(ctx context.Context, userID primitive.ObjectID) (bool, error)
}
