package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jehub/points-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// ReferralHandler handles referral-related HTTP requests
type ReferralHandler struct {
	referralService services.ReferralService
}

// NewReferralHandler creates a new ReferralHandler
func NewReferralHandler(referralService services.ReferralService) *ReferralHandler {
	return &ReferralHandler{referralService: referralService}
}

// Validate handles GET /referrals/validate?code=
func (h *ReferralHandler) Validate(c *gin.Context) {
	result, err := h.referralService.ValidateCode(c, c.Query("code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// Stats handles GET /referrals/stats/:userId
func (h *ReferralHandler) Stats(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	stats, err := h.referralService.GetStats(c, userID)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": errorMessage(status, err)})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Leaderboard handles GET /referrals/leaderboard
func (h *ReferralHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	board, err := h.referralService.GetLeaderboard(c, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, board)
}

// Reconcile handles POST /referrals/reconcile. Admin only.
func (h *ReferralHandler) Reconcile(c *gin.Context) {
	report, err := h.referralService.Reconcile(c)
	if err != nil {
		slog.Error("reconciliation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, report)
}
