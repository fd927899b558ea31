package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jehub/points-backend/internal/models"
	"github.com/jehub/points-backend/internal/services"
	"golang.org/x/exp/slog"
)

// AuthHandler handles admin authentication HTTP requests
type AuthHandler struct {
	authService services.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.authService.Register(c, &req)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("admin registration failed", "email", req.Email, "error", err)
		}
		c.JSON(status, gin.H{"error": errorMessage(status, err)})
		return
	}

	c.JSON(http.StatusCreated, admin)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.authService.Login(c, &req)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			slog.Error("login failed", "email", req.Email, "error", err)
		}
		c.JSON(status, gin.H{"error": errorMessage(status, err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}
