package handlers

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/adrita28/featherly/backend/internal/media"
	"github.com/adrita28/featherly/backend/internal/models"
	"github.com/adrita28/featherly/backend/internal/repositories"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository         repositories.PostRepository
	userRepository         repositories.UserRepository
	followRepository       repositories.FollowRepository
	likedPostRepository    repositories.LikedPostRepository
	notificationRepository repositories.NotificationRepository
	mediaService           media.Service
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	followRepo repositories.FollowRepository,
	likedPostRepo repositories.LikedPostRepository,
	notificationRepo repositories.NotificationRepository,
	mediaService media.Service,
) *PostHandler {
	return &PostHandler{
		postRepository:         postRepo,
		userRepository:         userRepo,
		followRepository:       followRepo,
		likedPostRepository:    likedPostRepo,
		notificationRepository: notificationRepo,
		mediaService:           mediaService,
	}
}

// RegisterPublicPostRoutes registers the post routes that do not require authentication
func (h *PostHandler) RegisterPublicPostRoutes(g *echo.Group) {
	g.GET("/posts", h.GetAllPosts)
	g.GET("/posts/user/:username", h.GetUserPosts)
	g.GET("/posts/liked/:id", h.GetLikedPosts)
}

// RegisterPostRoutes registers the post routes that require authentication
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts/following", h.GetFollowingPosts)
	g.POST("/posts", h.CreatePost)
	g.POST("/posts/:id/like", h.LikeUnlikePost)
	g.POST("/posts/:id/comment", h.CommentOnPost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// EnrichedComment is a comment with its author's public profile attached
type EnrichedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// EnrichedPost is a post with author info resolved for the response boundary
type EnrichedPost struct {
	models.Post
	Author   models.UserCompact `json:"author"`
	Comments []EnrichedComment  `json:"comments"`
}

// enrichPosts resolves user references into public profiles for each post and
// each of its comments, caching lookups per request.
func (h *PostHandler) enrichPosts(posts []models.Post) []EnrichedPost {
	userCache := make(map[uint]models.UserCompact)
	lookup := func(id uint) models.UserCompact {
		if compact, ok := userCache[id]; ok {
			return compact
		}
		compact := models.UserCompact{}
		if user, err := h.userRepository.GetUserByID(id); err == nil {
			compact = user.ToCompact()
		}
		userCache[id] = compact
		return compact
	}

	enriched := make([]EnrichedPost, len(posts))
	for i, p := range posts {
		comments := make([]EnrichedComment, len(p.Comments))
		for j, c := range p.Comments {
			comments[j] = EnrichedComment{Comment: c, Author: lookup(c.UserID)}
		}
		enriched[i] = EnrichedPost{Post: p, Author: lookup(p.UserID), Comments: comments}
	}
	return enriched
}

// GetAllPosts returns every post, newest first, with author profiles attached
func (h *PostHandler) GetAllPosts(c echo.Context) error {
	posts, err := h.postRepository.GetAllPosts(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichPosts(posts))
}

// GetFollowingPosts returns posts authored by users the requester follows
func (h *PostHandler) GetFollowingPosts(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if _, err := h.userRepository.GetUserByID(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetPostsByUserIDs(c.Request().Context(), followingIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichPosts(posts))
}

// CreatePost creates a new post. An image payload, when present, is uploaded
// to the media host and the post stores the canonical URL it returns.
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if _, err := h.userRepository.GetUserByID(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if req.Text == "" && req.Image == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Post must have text or image")
	}

	imageURL := ""
	if req.Image != "" {
		url, err := h.mediaService.Upload(c.Request().Context(), req.Image)
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		imageURL = url
	}

	post := &models.Post{
		UserID:   currentUserID,
		Text:     req.Text,
		ImageURL: imageURL,
	}

	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, post)
}

// GetUserPosts returns all posts authored by the user with the given username
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	username := c.Param("username")

	user, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	posts, err := h.postRepository.GetPostsByUserID(c.Request().Context(), user.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichPosts(posts))
}

// LikeUnlikePost toggles the requester's like on a post. The toggle writes
// the post document, the requester's liked-posts row and (on the like branch)
// a notification without a transaction; a failure between the writes can
// leave the post's like set and the user's liked-posts set out of sync.
func (h *PostHandler) LikeUnlikePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if slices.Contains(post.Likes, currentUserID) {
		// Unlike the post
		if err := h.postRepository.RemoveLike(ctx, postID, currentUserID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		if err := h.likedPostRepository.RemoveLikedPost(currentUserID, postID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}

		updatedLikes := make([]uint, 0, len(post.Likes))
		for _, id := range post.Likes {
			if id != currentUserID {
				updatedLikes = append(updatedLikes, id)
			}
		}
		return c.JSON(http.StatusOK, updatedLikes)
	}

	// Like the post
	if err := h.postRepository.AddLike(ctx, postID, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := h.likedPostRepository.AddLikedPost(currentUserID, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notification := &models.Notification{
		Type:   models.NotificationTypeLike,
		FromID: currentUserID,
		ToID:   post.UserID,
	}
	if err := h.notificationRepository.CreateNotification(ctx, notification); err != nil {
		// The like already stands; surface the failure without undoing it
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, append(post.Likes, currentUserID))
}

// GetLikedPosts returns all posts in the given user's liked-posts set
func (h *PostHandler) GetLikedPosts(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	if _, err := h.userRepository.GetUserByID(uint(userID)); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	likedPostIDs, err := h.likedPostRepository.GetLikedPostIDs(uint(userID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	posts, err := h.postRepository.GetPostsByIDs(c.Request().Context(), likedPostIDs)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichPosts(posts))
}

// CommentOnPost appends a comment to a post's comment sequence
func (h *PostHandler) CommentOnPost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")
	ctx := c.Request().Context()

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Text field is required")
	}

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	comment := models.Comment{
		Text:      req.Text,
		UserID:    currentUserID,
		CreatedAt: time.Now(),
	}

	if err := h.postRepository.AddComment(ctx, postID, comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	post.Comments = append(post.Comments, comment)
	return c.JSON(http.StatusCreated, post)
}

// DeletePost deletes a post. Only the owner may delete it; an attached image
// is removed from the media host first.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	postID := c.Param("id")
	ctx := c.Request().Context()

	post, err := h.postRepository.GetPostByID(ctx, postID)
	if err != nil {
		if err == repositories.ErrPostNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if post.UserID != currentUserID {
		return echo.NewHTTPError(http.StatusUnauthorized, "You are not authorized to delete this post")
	}

	if post.ImageURL != "" {
		assetID := media.AssetIDFromURL(post.ImageURL)
		if err := h.mediaService.Delete(ctx, assetID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	if err := h.postRepository.DeletePost(ctx, postID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Post deleted successfully"})
}
