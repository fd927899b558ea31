package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jehub/points-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// TelegramHandler handles channel membership HTTP requests
type TelegramHandler struct {
	telegramService services.TelegramService
}

// NewTelegramHandler creates a new TelegramHandler
func NewTelegramHandler(telegramService services.TelegramService) *TelegramHandler {
	return &TelegramHandler{telegramService: telegramService}
}

// GetMember handles GET /telegram/members/:username
func (h *TelegramHandler) GetMember(c *gin.Context) {
	member, err := h.telegramService.GetMember(c, c.Param("username"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": errorMessage(status, err)})
		return
	}

	c.JSON(http.StatusOK, member)
}

// VerifyUser handles POST /telegram/verify/:userId
func (h *TelegramHandler) VerifyUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	verified, err := h.telegramService.VerifyUser(c, userID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("telegram verification failed", "userId", userID.Hex(), "error", err)
		}
		c.JSON(status, gin.H{"error": errorMessage(status, err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"verified": verified})
}
