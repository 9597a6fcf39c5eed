package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/adrita28/featherly/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrPostNotFound is returned when a referenced post does not exist
var ErrPostNotFound = fmt.Errorf("post not found")

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	GetPostByID(ctx context.Context, id string) (*models.Post, error)
	GetAllPosts(ctx context.Context) ([]models.Post, error)
	GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error)
	GetPostsByUserIDs(ctx context.Context, userIDs []uint) ([]models.Post, error)
	GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error)
	AddLike(ctx context.Context, postID string, userID uint) error
	RemoveLike(ctx context.Context, postID string, userID uint) error
	AddComment(ctx context.Context, postID string, comment models.Comment) error
	DeletePost(ctx context.Context, id string) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = time.Now()
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return err
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPostNotFound
	}

	var post models.Post
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetAllPosts retrieves every post, newest first
func (r *MongoPostRepository) GetAllPosts(ctx context.Context) ([]models.Post, error) {
	return r.find(ctx, bson.D{})
}

// GetPostsByUserID retrieves posts authored by one user, newest first
func (r *MongoPostRepository) GetPostsByUserID(ctx context.Context, userID uint) ([]models.Post, error) {
	return r.find(ctx, bson.M{"user_id": userID})
}

// GetPostsByUserIDs retrieves posts authored by any of the given users, newest first
func (r *MongoPostRepository) GetPostsByUserIDs(ctx context.Context, userIDs []uint) ([]models.Post, error) {
	if len(userIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"user_id": bson.M{"$in": userIDs}})
}

// GetPostsByIDs retrieves the posts whose IDs are in the given set
func (r *MongoPostRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]models.Post, error) {
	objIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		objIDs = append(objIDs, objID)
	}
	if len(objIDs) == 0 {
		return []models.Post{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": objIDs}})
}

func (r *MongoPostRepository) find(ctx context.Context, filter interface{}) ([]models.Post, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// AddLike adds a user to the post's like set. $addToSet keeps the set duplicate-free.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrPostNotFound
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$addToSet": bson.M{"likes": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// RemoveLike removes a user from the post's like set
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID string, userID uint) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrPostNotFound
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$pull": bson.M{"likes": userID}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddComment appends a comment to the post's comment sequence
func (r *MongoPostRepository) AddComment(ctx context.Context, postID string, comment models.Comment) error {
	objID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return ErrPostNotFound
	}
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// DeletePost deletes a post by ID from MongoDB
func (r *MongoPostRepository) DeletePost(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPostNotFound
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}
