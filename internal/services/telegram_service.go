package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jehub/points-backend/internal/models"
	"github.com/jehub/points-backend/internal/repositories"
	"github.com/jehub/points-backend/pkg/telegram"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// TelegramServiceImpl implements the TelegramService interface
type TelegramServiceImpl struct {
	memberRepo repositories.TelegramMemberRepository
	userRepo   repositories.UserRepository
	client     telegram.Client
}

// NewTelegramService creates a new TelegramService
func NewTelegramService(memberRepo repositories.TelegramMemberRepository, userRepo repositories.UserRepository, client telegram.Client) *TelegramServiceImpl {
	return &TelegramServiceImpl{
		memberRepo: memberRepo,
		userRepo:   userRepo,
		client:     client,
	}
}

var _ TelegramService = (*TelegramServiceImpl)(nil)

// GetMember looks up a channel member by username
func (s *TelegramServiceImpl) GetMember(ctx context.Context, username string) (*models.TelegramMember, error) {
	username = strings.TrimPrefix(strings.TrimSpace(username), "@")
	member, err := s.memberRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get telegram member: %w", err)
	}
	return member, nil
}

// VerifyUser checks whether the user's telegram username belongs to an active
// channel member and records the outcome on the user document. The member
// store is the source of truth for discovery; the Bot API only refreshes the
// status of members already known to the sync bot.
func (s *TelegramServiceImpl) VerifyUser(ctx context.Context, userID primitive.ObjectID) (bool, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("failed to get user: %w", err)
	}

	if user.TelegramUsername == "" {
		return false, nil
	}

	member, err := s.memberRepo.FindByUsername(ctx, user.TelegramUsername)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if user.TelegramVerified {
				if err := s.userRepo.SetTelegramVerified(ctx, userID, false); err != nil {
					slog.Error("failed to clear telegram verification", "userId", userID.Hex(), "error", err)
				}
			}
			return false, nil
		}
		return false, fmt.Errorf("failed to get telegram member: %w", err)
	}

	status := member.Status
	if fresh, err := s.client.GetChatMemberStatus(ctx, member.TelegramID); err != nil {
		slog.Warn("telegram status refresh failed, using stored status", "telegramId", member.TelegramID, "error", err)
	} else {
		status = fresh
	}

	isActive := telegram.IsActiveStatus(status)
	if status != member.Status || isActive != member.IsActive {
		member.Status = status
		member.IsActive = isActive
		member.UpdatedAt = time.Now()
		if !isActive && member.LeftAt.IsZero() {
			member.LeftAt = time.Now()
		}
		if err := s.memberRepo.Upsert(ctx, member); err != nil {
			slog.Error("failed to refresh telegram member", "telegramId", member.TelegramID, "error", err)
		}
	}

	if user.TelegramVerified != isActive {
		if err := s.userRepo.SetTelegramVerified(ctx, userID, isActive); err != nil {
			slog.Error("failed to record telegram verification", "userId", userID.Hex(), "error", err)
		}
	}
	return isActive, nil
}
