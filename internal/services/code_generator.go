package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jehub/points-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

const codeFiller = 'X'

// CodeGenerator mints referral codes: a 3-letter name fragment, a 2-letter
// email fragment, the last 4 digits of the millisecond timestamp and a 4-digit
// random number. Candidates are checked against the store and regenerated on
// collision, up to maxAttempts.
type CodeGenerator struct {
	userRepo    repositories.UserRepository
	maxAttempts int
}

// NewCodeGenerator creates a new CodeGenerator
func NewCodeGenerator(userRepo repositories.UserRepository, maxAttempts int) *CodeGenerator {
	if maxAttempts < 1 {
		maxAttempts = 10
	}
	return &CodeGenerator{
		userRepo:    userRepo,
		maxAttempts: maxAttempts,
	}
}

// Generate returns a referral code for a new account. It never fails: if the
// store cannot be queried the candidate is handed back unchecked, and when the
// retry budget is exhausted a shorter timestamp-based fallback is used. The
// fallback is not re-checked for uniqueness; that residual risk matches the
// accepted behavior of the system this ledger serves.
func (g *CodeGenerator) Generate(ctx context.Context, name, email string) string {
	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		code := g.candidate(name, email)

		_, err := g.userRepo.FindByReferralCode(ctx, code)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return code
		}
		if err != nil {
			slog.Warn("referral code uniqueness check failed, using unchecked candidate", "error", err)
			return code
		}
		slog.Info("referral code collision, regenerating", "code", code, "attempt", attempt)
	}

	fallback := fmt.Sprintf("%s%06d", alphaFragment(name, 2), time.Now().UnixMilli()%1_000_000)
	slog.Warn("referral code retry budget exhausted, using fallback", "code", fallback)
	return fallback
}

func (g *CodeGenerator) candidate(name, email string) string {
	timeFrag := time.Now().UnixMilli() % 10_000
	randFrag := rand.Intn(9999)
	return fmt.Sprintf("%s%s%04d%04d", alphaFragment(name, 3), alphaFragment(email, 2), timeFrag, randFrag)
}

// alphaFragment uppercases the first width bytes of s, replacing anything
// outside A-Z with the filler, and pads short or empty input with the filler.
func alphaFragment(s string, width int) string {
	frag := make([]byte, width)
	for i := 0; i < width; i++ {
		frag[i] = codeFiller
		if i < len(s) {
			c := s[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			if c >= 'A' && c <= 'Z' {
				frag[i] = c
			}
		}
	}
	return string(frag)
}
