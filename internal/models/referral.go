package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReferralValidation is the side-effect-free answer to "is this code usable?".
type ReferralValidation struct {
	Valid        bool   `json:"valid"`
	Message      string `json:"message"`
	ReferrerName string `json:"referrerName,omitempty"`
}

// ReferralStats summarises a user's referral performance from the ledger.
type ReferralStats struct {
	TotalReferrals int            `json:"totalReferrals"`
	PointsEarned   int            `json:"pointsEarned"`
	Rank           int            `json:"rank"`
	Recent         []*LedgerEntry `json:"recent"`
}

// LeaderboardEntry is one row of the top-referrers board.
type LeaderboardEntry struct {
	UserID         primitive.ObjectID `json:"userId"`
	Name           string             `json:"name"`
	Email          string             `json:"email"`
	TotalReferrals int                `json:"totalReferrals"`
	TotalPoints    int                `json:"totalPoints"`
	AvatarInitials string             `json:"avatarInitials"`
}

// ReconcileReport is the outcome of one reconciliation pass over referred
// accounts whose referrer bonus may be missing.
type ReconcileReport struct {
	Scanned  int `json:"scanned"`
	Repaired int `json:"repaired"`
	Skipped  int `json:"skipped"`
}
