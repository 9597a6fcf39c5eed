package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/adrita28/featherly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotificationNotFound is returned when a referenced notification does not exist
var ErrNotificationNotFound = fmt.Errorf("notification not found")

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	GetNotificationByID(ctx context.Context, id string) (*models.Notification, error)
	GetByRecipientID(ctx context.Context, recipientID uint) ([]models.Notification, error)
	GetUnreadCount(ctx context.Context, recipientID uint) (int64, error)
	MarkAllAsRead(ctx context.Context, recipientID uint) error
	DeleteNotification(ctx context.Context, id string) error
	DeleteAllForRecipient(ctx context.Context, recipientID uint) error
}

// MongoNotificationRepository implements NotificationRepository for MongoDB
type MongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new MongoNotificationRepository
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{collection: db.Collection("notifications")}
}

// CreateNotification inserts a new, unread notification
func (r *MongoNotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.Read = false
	notification.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

// GetNotificationByID retrieves a notification by ID
func (r *MongoNotificationRepository) GetNotificationByID(ctx context.Context, id string) (*models.Notification, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotificationNotFound
	}

	var notification models.Notification
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&notification)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	return &notification, nil
}

// GetByRecipientID retrieves all notifications addressed to a user, in stored order
func (r *MongoNotificationRepository) GetByRecipientID(ctx context.Context, recipientID uint) ([]models.Notification, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"to": recipientID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	notifications := []models.Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// GetUnreadCount counts the unread notifications addressed to a user
func (r *MongoNotificationRepository) GetUnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"to": recipientID, "read": false})
}

// MarkAllAsRead marks every notification addressed to a user as read
func (r *MongoNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID uint) error {
	_, err := r.collection.UpdateMany(ctx, bson.M{"to": recipientID}, bson.M{"$set": bson.M{"read": true}})
	return err
}

// DeleteNotification deletes a single notification by ID
func (r *MongoNotificationRepository) DeleteNotification(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotificationNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteAllForRecipient deletes every notification addressed to a user.
// A no-op when none exist.
func (r *MongoNotificationRepository) DeleteAllForRecipient(ctx context.Context, recipientID uint) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"to": recipientID})
	return err
}
