package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jehub/points-backend/internal/config"
	"github.com/jehub/points-backend/internal/models"
	"github.com/jehub/points-backend/internal/repositories"
	"github.com/jehub/points-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// rankWindow bounds how many users are ranked before a user falls off the board.
const rankWindow = 1000

// ReferralServiceImpl implements the ReferralService interface
type ReferralServiceImpl struct {
	userRepo      repositories.UserRepository
	ledgerRepo    repositories.LedgerRepository
	ledgerService LedgerService
	codeGen       *CodeGenerator
	points        config.PointsConfig
}

// NewReferralService creates a new ReferralService
func NewReferralService(userRepo repositories.UserRepository, ledgerRepo repositories.LedgerRepository, ledgerService LedgerService, codeGen *CodeGenerator, points config.PointsConfig) *ReferralServiceImpl {
	return &ReferralServiceImpl{
		userRepo:      userRepo,
		ledgerRepo:    ledgerRepo,
		ledgerService: ledgerService,
		codeGen:       codeGen,
		points:        points,
	}
}

var _ ReferralService = (*ReferralServiceImpl)(nil)

// Signup creates a new account. A supplied referral code is resolved first and
// rejects the whole signup when it is invalid, inactive or the referrer's own
// email. Bonus posting failures after the account exists do not fail the
// signup; the reconciliation pass repairs the referrer credit later.
func (s *ReferralServiceImpl) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var referrer *models.User
	// Codes match exactly as stored; only surrounding whitespace is forgiven.
	code := strings.TrimSpace(req.ReferralCode)
	if code != "" {
		var err error
		referrer, err = s.userRepo.FindByReferralCode(ctx, code)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrInvalidReferralCode
			}
			return nil, fmt.Errorf("failed to resolve referral code: %w", err)
		}
		if !referrer.IsReferralActive {
			return nil, ErrReferralInactive
		}
		if strings.EqualFold(referrer.Email, email) {
			return nil, ErrSelfReferral
		}
	}

	// The duplicate check runs before any account is created or any bonus is
	// posted, so a retried signup fails here instead of crediting twice.
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Email:            email,
		Name:             strings.TrimSpace(req.Name),
		TelegramUsername: strings.TrimPrefix(strings.TrimSpace(req.TelegramUsername), "@"),
		ReferralCode:     s.codeGen.Generate(ctx, req.Name, email),
		ReferredByCode:   code,
		IsReferralActive: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.ledgerService.Initialize(ctx, user.ID); err != nil {
		slog.Error("failed to post signup bonus", "userId", user.ID.Hex(), "error", err)
	}

	if referrer != nil {
		_, err := s.ledgerService.Credit(ctx, referrer.ID, models.EntryReferralBonus, s.points.ReferralBonus, CreditOptions{
			RelatedUserID: user.ID,
			EventKey:      "referral:" + user.ID.Hex(),
			Description:   "Referral bonus: " + user.Name,
		})
		if err != nil {
			slog.Error("failed to post referral bonus", "referrerId", referrer.ID.Hex(), "refereeId", user.ID.Hex(), "error", err)
		}
	}

	refreshed, err := s.userRepo.FindByID(ctx, user.ID)
	if err != nil {
		slog.Warn("failed to reload user after signup", "userId", user.ID.Hex(), "error", err)
		return user, nil
	}
	return refreshed, nil
}

// ValidateCode answers whether a referral code is currently usable, without
// side effects.
func (s *ReferralServiceImpl) ValidateCode(ctx context.Context, code string) (*models.ReferralValidation, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return &models.ReferralValidation{Valid: false, Message: "referral code is required"}, nil
	}

	referrer, err := s.userRepo.FindByReferralCode(ctx, code)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &models.ReferralValidation{Valid: false, Message: "referral code is not valid"}, nil
		}
		return nil, fmt.Errorf("failed to resolve referral code: %w", err)
	}
	if !referrer.IsReferralActive {
		return &models.ReferralValidation{Valid: false, Message: "referral code is no longer active"}, nil
	}
	return &models.ReferralValidation{Valid: true, Message: "referral code is valid", ReferrerName: referrer.Name}, nil
}

// GetStats summarises a user's referral performance from the ledger
func (s *ReferralServiceImpl) GetStats(ctx context.Context, userID primitive.ObjectID) (*models.ReferralStats, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	entries, err := s.ledgerRepo.FindByUserIDAndType(ctx, userID, models.EntryReferralBonus)
	if err != nil {
		return nil, fmt.Errorf("failed to get referral entries: %w", err)
	}

	earned := 0
	for _, entry := range entries {
		earned += entry.Amount
	}

	recent := entries
	if len(recent) > 5 {
		recent = recent[:5]
	}

	rank := 0
	top, err := s.userRepo.TopReferrers(ctx, rankWindow)
	if err != nil {
		slog.Warn("failed to compute referral rank", "userId", userID.Hex(), "error", err)
	} else {
		for i, u := range top {
			if u.ID == userID {
				rank = i + 1
				break
			}
		}
	}

	return &models.ReferralStats{
		TotalReferrals: user.TotalReferrals,
		PointsEarned:   earned,
		Rank:           rank,
		Recent:         recent,
	}, nil
}

// GetLeaderboard returns the top referrers
func (s *ReferralServiceImpl) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	users, err := s.userRepo.TopReferrers(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top referrers: %w", err)
	}

	board := make([]*models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		board = append(board, &models.LeaderboardEntry{
			UserID:         u.ID,
			Name:           u.Name,
			Email:          u.Email,
			TotalReferrals: u.TotalReferrals,
			TotalPoints:    u.TotalPoints,
			AvatarInitials: utils.AvatarInitials(u.Name, u.Email),
		})
	}
	return board, nil
}

// Reconcile walks every referred account and re-posts the referrer bonus where
// it is missing. The event key makes re-posting idempotent, so running this
// concurrently with live signups is safe.
func (s *ReferralServiceImpl) Reconcile(ctx context.Context) (*models.ReconcileReport, error) {
	referred, err := s.userRepo.FindReferred(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list referred users: %w", err)
	}

	report := &models.ReconcileReport{}
	for _, user := range referred {
		report.Scanned++
		eventKey := "referral:" + user.ID.Hex()

		_, err := s.ledgerRepo.FindByEventKey(ctx, eventKey)
		if err == nil {
			continue
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			slog.Warn("reconcile: failed to check event key", "userId", user.ID.Hex(), "error", err)
			report.Skipped++
			continue
		}

		referrer, err := s.userRepo.FindByReferralCode(ctx, user.ReferredByCode)
		if err != nil {
			slog.Warn("reconcile: referrer not found", "userId", user.ID.Hex(), "code", user.ReferredByCode, "error", err)
			report.Skipped++
			continue
		}

		_, err = s.ledgerService.Credit(ctx, referrer.ID, models.EntryReferralBonus, s.points.ReferralBonus, CreditOptions{
			RelatedUserID: user.ID,
			EventKey:      eventKey,
			Description:   "Referral bonus (reconciled): " + user.Name,
		})
		if err != nil {
			slog.Warn("reconcile: failed to post referral bonus", "referrerId", referrer.ID.Hex(), "refereeId", user.ID.Hex(), "error", err)
			report.Skipped++
			continue
		}
		report.Repaired++
	}

	slog.Info("reconciliation complete", "scanned", report.Scanned, "repaired", report.Repaired, "skipped", report.Skipped)
	return report, nil
}
