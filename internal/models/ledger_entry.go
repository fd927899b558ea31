package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryType enumerates the point-affecting events the ledger records.
type EntryType string

const (
	EntrySignupBonus       EntryType = "signup_bonus"
	EntryReferralBonus     EntryType = "referral_bonus"
	EntryUploadReward      EntryType = "upload_reward"
	EntryDownloadFulfilled EntryType = "download_fulfilled"
	EntrySpend             EntryType = "spend"
	EntryAdminAdjustment   EntryType = "admin_adjustment"
)

// IsCredit reports whether entries of this type add points to a balance.
func (t EntryType) IsCredit() bool {
	switch t {
	case EntrySignupBonus, EntryReferralBonus, EntryUploadReward, EntryDownloadFulfilled, EntryAdminAdjustment:
		return true
	}
	return false
}

// LedgerEntry records one atomic point-affecting event. Entries are append-only;
// corrections are new compensating entries, never edits.
//
// Amount is signed: positive for credits, negative for debits. EventKey, when
// set, deduplicates retries of the same logical event.
type LedgerEntry struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	Type          EntryType          `bson:"type" json:"type"`
	Amount        int                `bson:"amount" json:"amount"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	RelatedUserID primitive.ObjectID `bson:"relatedUserId,omitempty" json:"relatedUserId,omitempty"`
	EventKey      string             `bson:"eventKey,omitempty" json:"eventKey,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
