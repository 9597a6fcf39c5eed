package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a social media post stored in MongoDB. Likes is the set of
// user IDs that liked the post; comments are embedded in the document.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    uint               `json:"user_id" bson:"user_id"`
	Text      string             `json:"text,omitempty" bson:"text,omitempty"`
	ImageURL  string             `json:"img,omitempty" bson:"img,omitempty"`
	Likes     []uint             `json:"likes" bson:"likes"`
	Comments  []Comment          `json:"comments" bson:"comments"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Comment is a single comment embedded in a post document
type Comment struct {
	Text      string    `json:"text" bson:"text"`
	UserID    uint      `json:"user_id" bson:"user_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// CreatePostRequest defines the request body for creating a new post.
// Image, when present, is the raw payload (data URI) to hand to the media
// host; the stored post keeps the canonical URL the host returns.
type CreatePostRequest struct {
	Text  string `json:"text" validate:"omitempty,max=500"`
	Image string `json:"img" validate:"omitempty"`
}

// CreateCommentRequest defines the request body for commenting on a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required,min=1,max=500"`
}
