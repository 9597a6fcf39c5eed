package handlers

import (
	"net/http"
	"strconv"

	"github.com/adrita28/featherly/backend/internal/models"
	"github.com/adrita28/featherly/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext extracts the authenticated user's ID from the JWT
// claims the auth middleware stored on the context. Returns 0 when the
// request carries no identity.
func getUserIDFromContext(c echo.Context) uint {
	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	if !ok || claims == nil {
		return 0
	}
	return claims.UserID
}

// UserHandler handles user profile and follow requests
type UserHandler struct {
	userRepository         repositories.UserRepository
	followRepository       repositories.FollowRepository
	notificationRepository repositories.NotificationRepository
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, notificationRepo repositories.NotificationRepository) *UserHandler {
	return &UserHandler{
		userRepository:         userRepo,
		followRepository:       followRepo,
		notificationRepository: notificationRepo,
	}
}

// RegisterPublicUserRoutes registers the user routes that do not require authentication
func (h *UserHandler) RegisterPublicUserRoutes(g *echo.Group) {
	g.GET("/users/:username", h.GetProfile)
}

// RegisterUserRoutes registers the user routes that require authentication
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users/search", h.SearchUsers)
	g.POST("/users/:id/follow", h.FollowUnfollowUser)
}

// GetProfile returns a user's public profile by username
func (h *UserHandler) GetProfile(c echo.Context) error {
	username := c.Param("username")

	user, err := h.userRepository.GetUserByUsername(username)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	return c.JSON(http.StatusOK, user.ToCompact())
}

// SearchUsers searches users by name or username, returning public profiles
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing search query")
	}

	users, err := h.userRepository.SearchUsers(query)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	results := make([]models.UserCompact, len(users))
	for i, u := range users {
		results[i] = u.ToCompact()
	}
	return c.JSON(http.StatusOK, results)
}

// FollowUnfollowUser toggles the requester's follow on another user. The
// follow branch creates a "follow" notification; unfollow does not retract it.
func (h *UserHandler) FollowUnfollowUser(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	if uint(targetID) == currentUserID {
		return echo.NewHTTPError(http.StatusBadRequest, "You can't follow yourself")
	}

	target, err := h.userRepository.GetUserByID(uint(targetID))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	following, err := h.followRepository.IsFollowing(currentUserID, target.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if following {
		if err := h.followRepository.DeleteFollow(currentUserID, target.ID); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, echo.Map{"message": "User unfollowed successfully"})
	}

	if err := h.followRepository.CreateFollow(&models.Follow{FollowerID: currentUserID, FollowingID: target.ID}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	notification := &models.Notification{
		Type:   models.NotificationTypeFollow,
		FromID: currentUserID,
		ToID:   target.ID,
	}
	if err := h.notificationRepository.CreateNotification(c.Request().Context(), notification); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "User followed successfully"})
}
