package repositories

import (
	"github.com/adrita28/featherly/backend/internal/models"
	"gorm.io/gorm"
)

// LikedPostRepository tracks each user's liked-posts set. The like toggle
// keeps it consistent with the post document's likes array.
type LikedPostRepository interface {
	AddLikedPost(userID uint, postID string) error
	RemoveLikedPost(userID uint, postID string) error
	GetLikedPostIDs(userID uint) ([]string, error)
	HasLikedPost(userID uint, postID string) (bool, error)
}

type postgresLikedPostRepository struct {
	db *gorm.DB
}

// NewPostgresLikedPostRepository creates a new LikedPostRepository backed by PostgreSQL
func NewPostgresLikedPostRepository(db *gorm.DB) LikedPostRepository {
	return &postgresLikedPostRepository{db: db}
}

func (r *postgresLikedPostRepository) AddLikedPost(userID uint, postID string) error {
	return r.db.Create(&models.LikedPost{UserID: userID, PostID: postID}).Error
}

func (r *postgresLikedPostRepository) RemoveLikedPost(userID uint, postID string) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&models.LikedPost{}).Error
}

// GetLikedPostIDs returns the IDs of every post the user has liked
func (r *postgresLikedPostRepository) GetLikedPostIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.LikedPost{}).
		Where("user_id = ?", userID).
		Pluck("post_id", &ids).Error
	return ids, err
}

func (r *postgresLikedPostRepository) HasLikedPost(userID uint, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.LikedPost{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}
