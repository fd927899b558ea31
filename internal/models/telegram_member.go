package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TelegramMember mirrors one member of the community channel. The sync bot
// owns discovery; this service only reads and refreshes these documents.
type TelegramMember struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	TelegramID int64              `bson:"telegramId" json:"telegramId"`
	Username   string             `bson:"username" json:"username"`
	FirstName  string             `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName   string             `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Status     string             `bson:"status" json:"status"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	JoinedAt   time.Time          `bson:"joinedAt,omitempty" json:"joinedAt,omitempty"`
	LeftAt     time.Time          `bson:"leftAt,omitempty" json:"leftAt,omitempty"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}
