package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"faceattend/internal/metrics"
	"faceattend/internal/notify"
)

type notifyRequest struct {
	Email   string `json:"email" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Notify enqueues an attendance notification mail. Delivery happens in the
// worker; enqueue success is all this endpoint promises.
func (h *Handler) Notify(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and message are required"})
		return
	}

	mail := notify.Mail{
		To:      req.Email,
		Subject: "Attendance Notification",
		Body:    req.Message,
	}
	if err := h.queue.Publish(c.Request.Context(), mail); err != nil {
		h.log.Error("notification enqueue failed", zap.Error(err))
		h.fail(c, err, "failed to send notification")
		return
	}

	metrics.NotificationsEnqueued.Inc()
	c.JSON(http.StatusOK, gin.H{"message": "notification sent successfully"})
}
