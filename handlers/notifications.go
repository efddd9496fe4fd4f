package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListNotifications returns the caller's notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	list, err := h.n.ListForUser(c.Request.Context(), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to fetch notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// UnreadNotificationCount returns the caller's unread badge count.
func (h *Handler) UnreadNotificationCount(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	count, err := h.n.UnreadCount(c.Request.Context(), claims.Subject)
	if err != nil {
		abortWithDomainError(c, err, "Failed to count notifications")
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": count})
}

// MarkNotificationRead marks one of the caller's notifications as read.
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	claims, ok := requestClaims(c)
	if !ok {
		return
	}

	if err := h.n.MarkRead(c.Request.Context(), c.Param("id"), claims.Subject); err != nil {
		abortWithDomainError(c, err, "Failed to mark notification read")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
