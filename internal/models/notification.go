package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types
const (
	NotificationTypeLike   = "like"
	NotificationTypeFollow = "follow"
)

// Notification represents a user notification stored in MongoDB
type Notification struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Type      string             `json:"type" bson:"type"`
	FromID    uint               `json:"from" bson:"from"`
	ToID      uint               `json:"to" bson:"to"`
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
