package models

import "time"

// LikedPost is one entry of a user's liked-posts set. PostID is the MongoDB
// ObjectID of the post in hex form. Kept mutually consistent with the post
// document's likes array by the like toggle.
type LikedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	PostID    string    `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_like"`
	CreatedAt time.Time `json:"created_at"`
}
