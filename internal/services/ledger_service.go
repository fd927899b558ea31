package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jehub/points-backend/internal/config"
	"github.com/jehub/points-backend/internal/models"
	"github.com/jehub/points-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// LedgerServiceImpl implements the LedgerService interface
type LedgerServiceImpl struct {
	userRepo   repositories.UserRepository
	ledgerRepo repositories.LedgerRepository
	points     config.PointsConfig
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(userRepo repositories.UserRepository, ledgerRepo repositories.LedgerRepository, points config.PointsConfig) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		points:     points,
	}
}

var _ LedgerService = (*LedgerServiceImpl)(nil)

// Credit adds amount to a user's balance and appends the matching ledger
// entry. The balance increment happens first; an entry-append failure after a
// successful increment is logged and surfaced so callers can retry with the
// same event key.
func (s *LedgerServiceImpl) Credit(ctx context.Context, userID primitive.ObjectID, entryType models.EntryType, amount int, opts CreditOptions) (*models.LedgerEntry, error) {
	if !entryType.IsCredit() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidEntryType, entryType)
	}
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	if opts.EventKey != "" {
		existing, err := s.ledgerRepo.FindByEventKey(ctx, opts.EventKey)
		if err == nil {
			slog.Info("credit already posted, skipping", "eventKey", opts.EventKey, "entryId", existing.ID.Hex())
			return existing, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to check event key: %w", err)
		}
	}

	if err := s.userRepo.IncrementPoints(ctx, userID, amount); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to credit points: %w", err)
	}

	if entryType == models.EntryReferralBonus {
		// The entry must not be appended until the counter moved: a posted
		// entry would make the keyed retry a no-op and leave totalReferrals
		// permanently behind the bonus count.
		if err := s.userRepo.IncrementReferrals(ctx, userID); err != nil {
			slog.Error("credited points but failed to increment referral count", "userId", userID.Hex(), "error", err)
			return nil, fmt.Errorf("failed to increment referral count: %w", err)
		}
	}

	entry := &models.LedgerEntry{
		UserID:        userID,
		Type:          entryType,
		Amount:        amount,
		Description:   opts.Description,
		RelatedUserID: opts.RelatedUserID,
		EventKey:      opts.EventKey,
		CreatedAt:     time.Now(),
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		slog.Error("credited points but failed to append ledger entry", "userId", userID.Hex(), "type", entryType, "amount", amount, "error", err)
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	slog.Info("points credited", "userId", userID.Hex(), "type", entryType, "amount", amount)
	return entry, nil
}

// Debit moves amount from availablePoints to pointsSpent. The guarded store
// update rejects the debit atomically when the balance is too low, so two
// concurrent spends can never overdraw the account.
func (s *LedgerServiceImpl) Debit(ctx context.Context, userID primitive.ObjectID, amount int, description string) (*models.LedgerEntry, error) {
	if amount < 0 {
		return nil, ErrNegativeAmount
	}

	if err := s.userRepo.SpendPoints(ctx, userID, amount); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Guard failure and missing user look the same at the store;
			// a follow-up lookup tells them apart.
			if _, lookupErr := s.userRepo.FindByID(ctx, userID); errors.Is(lookupErr, mongo.ErrNoDocuments) {
				return nil, ErrUserNotFound
			}
			return nil, ErrInsufficientBalance
		}
		return nil, fmt.Errorf("failed to debit points: %w", err)
	}

	entry := &models.LedgerEntry{
		UserID:      userID,
		Type:        models.EntrySpend,
		Amount:      -amount,
		Description: description,
		CreatedAt:   time.Now(),
	}
	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		slog.Error("debited points but failed to append ledger entry", "userId", userID.Hex(), "amount", amount, "error", err)
		return nil, fmt.Errorf("failed to append ledger entry: %w", err)
	}

	slog.Info("points debited", "userId", userID.Hex(), "amount", amount)
	return entry, nil
}

// Initialize posts the signup bonus for a freshly created account. Keyed on
// the user ID so a retried signup pipeline cannot double-post.
func (s *LedgerServiceImpl) Initialize(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.Credit(ctx, userID, models.EntrySignupBonus, s.points.SignupBonus, CreditOptions{
		EventKey:    "signup:" + userID.Hex(),
		Description: "Welcome bonus",
	})
	return err
}

// GetUserPoints returns the balance view of a single user
func (s *LedgerServiceImpl) GetUserPoints(ctx context.Context, userID primitive.ObjectID) (*models.PointsSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &models.PointsSummary{
		TotalPoints:     user.TotalPoints,
		AvailablePoints: user.AvailablePoints,
		PointsSpent:     user.PointsSpent,
		TotalReferrals:  user.TotalReferrals,
	}, nil
}

// GetEntries returns a page of a user's ledger history, newest first
func (s *LedgerServiceImpl) GetEntries(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.LedgerEntry, error) {
	entries, err := s.ledgerRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	return entries, nil
}

// AwardUploadReward credits the uploader and bumps their upload counter
func (s *LedgerServiceImpl) AwardUploadReward(ctx context.Context, userID primitive.ObjectID, noteTitle string) (*models.LedgerEntry, error) {
	entry, err := s.Credit(ctx, userID, models.EntryUploadReward, s.points.UploadReward, CreditOptions{
		Description: "Upload reward: " + noteTitle,
	})
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.IncrementNotesUploaded(ctx, userID); err != nil {
		slog.Error("failed to increment upload counter", "userId", userID.Hex(), "error", err)
	}
	return entry, nil
}

// AwardDownloadFulfilled credits the uploader when someone spends points on
// their note.
func (s *LedgerServiceImpl) AwardDownloadFulfilled(ctx context.Context, uploaderID, downloaderID primitive.ObjectID, noteTitle string) (*models.LedgerEntry, error) {
	return s.Credit(ctx, uploaderID, models.EntryDownloadFulfilled, s.points.DownloadReward, CreditOptions{
		RelatedUserID: downloaderID,
		Description:   "Download fulfilled: " + noteTitle,
	})
}

// SpendOnDownload debits the downloader and bumps their download counter
func (s *LedgerServiceImpl) SpendOnDownload(ctx context.Context, userID primitive.ObjectID, amount int, noteTitle string) (*models.LedgerEntry, error) {
	entry, err := s.Debit(ctx, userID, amount, "Download: "+noteTitle)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.IncrementNotesDownloaded(ctx, userID); err != nil {
		slog.Error("failed to increment download counter", "userId", userID.Hex(), "error", err)
	}
	return entry, nil
}
