package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"time"

	"github.com/adrita28/featherly/backend/internal/models"
	"github.com/adrita28/featherly/backend/internal/repositories"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// In-memory fakes implementing the repository and media interfaces, so the
// handlers can be exercised without MongoDB, PostgreSQL or a media host.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (r *fakeUserRepo) CreateUser(user *models.User) error {
	user.ID = r.nextID
	r.nextID++
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	if user, ok := r.users[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByUsername(username string) (*models.User, error) {
	for _, user := range r.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, user := range r.users {
		if user.FirebaseUID == firebaseUID {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) UpdateUser(user *models.User) error {
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) SearchUsers(query string) ([]models.User, error) {
	var results []models.User
	for _, user := range r.users {
		if strings.Contains(strings.ToLower(user.Name), strings.ToLower(query)) ||
			strings.Contains(strings.ToLower(user.Username), strings.ToLower(query)) {
			results = append(results, *user)
		}
	}
	return results, nil
}

type fakePostRepo struct {
	posts []*models.Post
	clock time.Time
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{clock: time.Now()}
}

func (r *fakePostRepo) CreatePost(_ context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	r.clock = r.clock.Add(time.Second)
	post.CreatedAt = r.clock
	post.UpdatedAt = r.clock
	if post.Likes == nil {
		post.Likes = []uint{}
	}
	if post.Comments == nil {
		post.Comments = []models.Comment{}
	}
	r.posts = append(r.posts, post)
	return nil
}

func (r *fakePostRepo) get(id string) *models.Post {
	for _, post := range r.posts {
		if post.ID.Hex() == id {
			return post
		}
	}
	return nil
}

func (r *fakePostRepo) GetPostByID(_ context.Context, id string) (*models.Post, error) {
	if post := r.get(id); post != nil {
		copied := *post
		copied.Likes = slices.Clone(post.Likes)
		copied.Comments = slices.Clone(post.Comments)
		return &copied, nil
	}
	return nil, repositories.ErrPostNotFound
}

func (r *fakePostRepo) newestFirst(match func(*models.Post) bool) []models.Post {
	var result []models.Post
	for i := len(r.posts) - 1; i >= 0; i-- {
		if match(r.posts[i]) {
			result = append(result, *r.posts[i])
		}
	}
	if result == nil {
		result = []models.Post{}
	}
	return result
}

func (r *fakePostRepo) GetAllPosts(_ context.Context) ([]models.Post, error) {
	return r.newestFirst(func(*models.Post) bool { return true }), nil
}

func (r *fakePostRepo) GetPostsByUserID(_ context.Context, userID uint) ([]models.Post, error) {
	return r.newestFirst(func(p *models.Post) bool { return p.UserID == userID }), nil
}

func (r *fakePostRepo) GetPostsByUserIDs(_ context.Context, userIDs []uint) ([]models.Post, error) {
	return r.newestFirst(func(p *models.Post) bool { return slices.Contains(userIDs, p.UserID) }), nil
}

func (r *fakePostRepo) GetPostsByIDs(_ context.Context, ids []string) ([]models.Post, error) {
	return r.newestFirst(func(p *models.Post) bool { return slices.Contains(ids, p.ID.Hex()) }), nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID string, userID uint) error {
	post := r.get(postID)
	if post == nil {
		return repositories.ErrPostNotFound
	}
	if !slices.Contains(post.Likes, userID) {
		post.Likes = append(post.Likes, userID)
	}
	return nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, postID string, userID uint) error {
	post := r.get(postID)
	if post == nil {
		return repositories.ErrPostNotFound
	}
	post.Likes = slices.DeleteFunc(post.Likes, func(id uint) bool { return id == userID })
	return nil
}

func (r *fakePostRepo) AddComment(_ context.Context, postID string, comment models.Comment) error {
	post := r.get(postID)
	if post == nil {
		return repositories.ErrPostNotFound
	}
	post.Comments = append(post.Comments, comment)
	return nil
}

func (r *fakePostRepo) DeletePost(_ context.Context, id string) error {
	for i, post := range r.posts {
		if post.ID.Hex() == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return repositories.ErrPostNotFound
}

type followPair struct {
	follower, following uint
}

type fakeFollowRepo struct {
	follows []followPair
}

func (r *fakeFollowRepo) CreateFollow(follow *models.Follow) error {
	r.follows = append(r.follows, followPair{follow.FollowerID, follow.FollowingID})
	return nil
}

func (r *fakeFollowRepo) DeleteFollow(followerID, followingID uint) error {
	r.follows = slices.DeleteFunc(r.follows, func(p followPair) bool {
		return p.follower == followerID && p.following == followingID
	})
	return nil
}

func (r *fakeFollowRepo) IsFollowing(followerID, followingID uint) (bool, error) {
	return slices.Contains(r.follows, followPair{followerID, followingID}), nil
}

func (r *fakeFollowRepo) GetFollowingIDs(followerID uint) ([]uint, error) {
	var ids []uint
	for _, p := range r.follows {
		if p.follower == followerID {
			ids = append(ids, p.following)
		}
	}
	return ids, nil
}

type likedPair struct {
	userID uint
	postID string
}

type fakeLikedPostRepo struct {
	liked []likedPair
}

func (r *fakeLikedPostRepo) AddLikedPost(userID uint, postID string) error {
	r.liked = append(r.liked, likedPair{userID, postID})
	return nil
}

func (r *fakeLikedPostRepo) RemoveLikedPost(userID uint, postID string) error {
	r.liked = slices.DeleteFunc(r.liked, func(p likedPair) bool {
		return p.userID == userID && p.postID == postID
	})
	return nil
}

func (r *fakeLikedPostRepo) GetLikedPostIDs(userID uint) ([]string, error) {
	var ids []string
	for _, p := range r.liked {
		if p.userID == userID {
			ids = append(ids, p.postID)
		}
	}
	return ids, nil
}

func (r *fakeLikedPostRepo) HasLikedPost(userID uint, postID string) (bool, error) {
	return slices.Contains(r.liked, likedPair{userID, postID}), nil
}

type fakeNotificationRepo struct {
	notifications []*models.Notification
}

func (r *fakeNotificationRepo) CreateNotification(_ context.Context, n *models.Notification) error {
	n.ID = primitive.NewObjectID()
	n.Read = false
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) GetNotificationByID(_ context.Context, id string) (*models.Notification, error) {
	for _, n := range r.notifications {
		if n.ID.Hex() == id {
			copied := *n
			return &copied, nil
		}
	}
	return nil, repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) GetByRecipientID(_ context.Context, recipientID uint) ([]models.Notification, error) {
	result := []models.Notification{}
	for _, n := range r.notifications {
		if n.ToID == recipientID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (r *fakeNotificationRepo) GetUnreadCount(_ context.Context, recipientID uint) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.ToID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkAllAsRead(_ context.Context, recipientID uint) error {
	for _, n := range r.notifications {
		if n.ToID == recipientID {
			n.Read = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) DeleteNotification(_ context.Context, id string) error {
	for i, n := range r.notifications {
		if n.ID.Hex() == id {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) DeleteAllForRecipient(_ context.Context, recipientID uint) error {
	r.notifications = slices.DeleteFunc(r.notifications, func(n *models.Notification) bool {
		return n.ToID == recipientID
	})
	return nil
}

// fakeMediaService records upload and delete calls
type fakeMediaService struct {
	uploads int
	deleted []string
}

func (s *fakeMediaService) Upload(_ context.Context, payload string) (string, error) {
	s.uploads++
	return fmt.Sprintf("http://media.local/featherly-media/asset-%d.png", s.uploads), nil
}

func (s *fakeMediaService) Delete(_ context.Context, assetID string) error {
	s.deleted = append(s.deleted, assetID)
	return nil
}

// newTestContext builds an echo context carrying the given requester identity
func newTestContext(method, target, body string, userID uint) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set("user", &models.JwtCustomClaims{UserID: userID})
	}
	return c, rec
}
