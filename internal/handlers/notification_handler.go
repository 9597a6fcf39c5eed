package handlers

import (
	"net/http"

	"github.com/adrita28/featherly/backend/internal/models"
	"github.com/adrita28/featherly/backend/internal/repositories"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	userRepository         repositories.UserRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository, userRepo repositories.UserRepository) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notifRepo,
		userRepository:         userRepo,
	}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.DELETE("/notifications", h.DeleteNotifications)
	g.DELETE("/notifications/:id", h.DeleteNotification)
}

// EnrichedNotification includes the sending user's public profile
type EnrichedNotification struct {
	models.Notification
	From models.UserCompact `json:"from_user"`
}

func (h *NotificationHandler) enrichNotifications(notifications []models.Notification) []EnrichedNotification {
	enriched := make([]EnrichedNotification, len(notifications))
	userCache := make(map[uint]models.UserCompact)

	for i, n := range notifications {
		enriched[i] = EnrichedNotification{Notification: n}
		if from, ok := userCache[n.FromID]; ok {
			enriched[i].From = from
		} else {
			user, err := h.userRepository.GetUserByID(n.FromID)
			if err == nil {
				compact := user.ToCompact()
				userCache[n.FromID] = compact
				enriched[i].From = compact
			}
		}
	}
	return enriched
}

// GetNotifications returns the requester's notifications, each with the
// sender's public profile, and marks all of them read as a side effect.
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	ctx := c.Request().Context()

	notifications, err := h.notificationRepository.GetByRecipientID(ctx, currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if err := h.notificationRepository.MarkAllAsRead(ctx, currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, h.enrichNotifications(notifications))
}

// GetUnreadCount returns the unread notification count
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	count, err := h.notificationRepository.GetUnreadCount(c.Request().Context(), currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// DeleteNotifications deletes every notification addressed to the requester
func (h *NotificationHandler) DeleteNotifications(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)

	if err := h.notificationRepository.DeleteAllForRecipient(c.Request().Context(), currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notifications deleted successfully"})
}

// DeleteNotification deletes a single notification. Only the recipient may delete it.
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	notificationID := c.Param("id")
	ctx := c.Request().Context()

	notification, err := h.notificationRepository.GetNotificationByID(ctx, notificationID)
	if err != nil {
		if err == repositories.ErrNotificationNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	if notification.ToID != currentUserID {
		return echo.NewHTTPError(http.StatusUnauthorized, "You are not allowed to delete this notification")
	}

	if err := h.notificationRepository.DeleteNotification(ctx, notificationID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification deleted successfully"})
}
