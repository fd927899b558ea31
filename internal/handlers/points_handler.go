package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jehub/points-backend/internal/models"
	"github.com/jehub/points-backend/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/exp/slog"
)

// PointsHandler handles balance and ledger HTTP requests
type PointsHandler struct {
	ledgerService services.LedgerService
}

// NewPointsHandler creates a new PointsHandler
func NewPointsHandler(ledgerService services.LedgerService) *PointsHandler {
	return &PointsHandler{ledgerService: ledgerService}
}

type uploadRewardRequest struct {
	NoteTitle string `json:"noteTitle" binding:"required"`
}

type downloadRequest struct {
	NoteTitle  string              `json:"noteTitle" binding:"required"`
	Cost       int                 `json:"cost" binding:"required"`
	UploaderID *primitive.ObjectID `json:"uploaderId"`
}

type adjustRequest struct {
	Amount      int    `json:"amount" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// GetUserPoints handles GET /points/:userId
func (h *PointsHandler) GetUserPoints(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	summary, err := h.ledgerService.GetUserPoints(c, userID)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, gin.H{"error": errorMessage(status, err)})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetUserLedger handles GET /points/:userId/ledger
func (h *PointsHandler) GetUserLedger(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.ledgerService.GetEntries(c, userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, entries)
}

// UploadReward handles POST /points/:userId/upload-reward
func (h *PointsHandler) UploadReward(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req uploadRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.ledgerService.AwardUploadReward(c, userID, req.NoteTitle)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("upload reward failed", "userId", userID.Hex(), "error", err)
		}
		c.JSON(status, gin.H{"error": errorMessage(status, err)})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// Download handles POST /points/:userId/download. The downloader is debited
// and, when the uploader is known, the uploader is credited in the same
// request.
func (h *PointsHandler) Download(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req downloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.ledgerService.SpendOnDownload(c, userID, req.Cost, req.NoteTitle)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("download debit failed", "userId", userID.Hex(), "error", err)
		}
		c.JSON(status, gin.H{"error": errorMessage(status, err)})
		return
	}

	if req.UploaderID != nil && !req.UploaderID.IsZero() {
		if _, err := h.ledgerService.AwardDownloadFulfilled(c, *req.UploaderID, userID, req.NoteTitle); err != nil {
			slog.Error("download fulfilled credit failed", "uploaderId", req.UploaderID.Hex(), "downloaderId", userID.Hex(), "error", err)
		}
	}

	c.JSON(http.StatusCreated, entry)
}

// Adjust handles POST /points/:userId/adjust. Admin only. The generated event
// key makes an accidental client retry of the same response idempotent on the
// server side while distinct adjustments stay distinct.
func (h *PointsHandler) Adjust(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
		return
	}

	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var entry *models.LedgerEntry
	if req.Amount >= 0 {
		entry, err = h.ledgerService.Credit(c, userID, models.EntryAdminAdjustment, req.Amount, services.CreditOptions{
			EventKey:    "adjust:" + uuid.NewString(),
			Description: req.Description,
		})
	} else {
		entry, err = h.ledgerService.Debit(c, userID, -req.Amount, req.Description)
	}
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("adjustment failed", "userId", userID.Hex(), "error", err)
		}
		c.JSON(status, gin.H{"error": errorMessage(status, err)})
		return
	}

	c.JSON(http.StatusCreated, entry)
}
