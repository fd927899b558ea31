package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a registered student account.
//
// The three balance counters satisfy TotalPoints == AvailablePoints + PointsSpent
// after every ledger operation. ReferralCode is assigned once at signup and never
// changes; ReferredByCode is empty for organic signups.
type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email            string             `bson:"email" json:"email"`
	Name             string             `bson:"name" json:"name"`
	TelegramUsername string             `bson:"telegramUsername,omitempty" json:"telegramUsername,omitempty"`
	TelegramVerified bool               `bson:"telegramVerified" json:"telegramVerified"`
	ReferralCode     string             `bson:"referralCode" json:"referralCode"`
	ReferredByCode   string             `bson:"referredByCode,omitempty" json:"referredByCode,omitempty"`
	IsReferralActive bool               `bson:"isReferralActive" json:"isReferralActive"`
	TotalPoints      int                `bson:"totalPoints" json:"totalPoints"`
	AvailablePoints  int                `bson:"availablePoints" json:"availablePoints"`
	PointsSpent      int                `bson:"pointsSpent" json:"pointsSpent"`
	TotalReferrals   int                `bson:"totalReferrals" json:"totalReferrals"`
	NotesUploaded    int                `bson:"notesUploaded" json:"notesUploaded"`
	NotesDownloaded  int                `bson:"notesDownloaded" json:"notesDownloaded"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// SignupRequest is the payload for creating a new account.
type SignupRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	TelegramUsername string `json:"telegramUsername"`
	ReferralCode     string `json:"referralCode"`
}

// PointsSummary is the balance view of a single user.
type PointsSummary struct {
	TotalPoints     int `json:"totalPoints"`
	AvailablePoints int `json:"availablePoints"`
	PointsSpent     int `json:"pointsSpent"`
	TotalReferrals  int `json:"totalReferrals"`
}
