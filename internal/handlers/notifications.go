package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"livra_back_end/internal/domain"
	"livra_back_end/internal/notify"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	Log notify.DurableLog
}

func NewNotificationHandler(log notify.DurableLog) *NotificationHandler {
	return &NotificationHandler{Log: log}
}

// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID := c.GetString("user_id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	notifications, err := h.Log.List(c.Request.Context(), userID, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notifications})
}

// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.Log.MarkRead(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			fail(c, http.StatusNotFound, err)
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/notifications
func (h *NotificationHandler) ClearAll(c *gin.Context) {
	userID := c.GetString("user_id")

	if err := h.Log.ClearAll(c.Request.Context(), userID); err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Notifications supprimées"})
}
