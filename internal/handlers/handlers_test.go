package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jehub/points-backend/internal/models"
	"github.com/jehub/points-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubLedgerService returns canned results so handler tests exercise the HTTP
// surface without a store.
type stubLedgerService struct {
	entry   *models.LedgerEntry
	summary *models.PointsSummary
	err     error
}

func (s *stubLedgerService) Credit(ctx context.Context, userID primitive.ObjectID, entryType models.EntryType, amount int, opts services.CreditOptions) (*models.LedgerEntry, error) {
	return s.entry, s.err
}

func (s *stubLedgerService) Debit(ctx context.Context, userID primitive.ObjectID, amount int, description string) (*models.LedgerEntry, error) {
	return s.entry, s.err
}

func (s *stubLedgerService) Initialize(ctx context.Context, userID primitive.ObjectID) error {
	return s.err
}

func (s *stubLedgerService) GetUserPoints(ctx context.Context, userID primitive.ObjectID) (*models.PointsSummary, error) {
	return s.summary, s.err
}

func (s *stubLedgerService) GetEntries(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.LedgerEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.LedgerEntry{s.entry}, nil
}

func (s *stubLedgerService) AwardUploadReward(ctx context.Context, userID primitive.ObjectID, noteTitle string) (*models.LedgerEntry, error) {
	return s.entry, s.err
}

func (s *stubLedgerService) AwardDownloadFulfilled(ctx context.Context, uploaderID, downloaderID primitive.ObjectID, noteTitle string) (*models.LedgerEntry, error) {
	return s.entry, s.err
}

func (s *stubLedgerService) SpendOnDownload(ctx context.Context, userID primitive.ObjectID, amount int, noteTitle string) (*models.LedgerEntry, error) {
	return s.entry, s.err
}

type stubReferralService struct {
	user       *models.User
	validation *models.ReferralValidation
	err        error
}

func (s *stubReferralService) Signup(ctx context.Context, req *models.SignupRequest) (*models.User, error) {
	return s.user, s.err
}

func (s *stubReferralService) ValidateCode(ctx context.Context, code string) (*models.ReferralValidation, error) {
	return s.validation, s.err
}

func (s *stubReferralService) GetStats(ctx context.Context, userID primitive.ObjectID) (*models.ReferralStats, error) {
	return nil, s.err
}

func (s *stubReferralService) GetLeaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	return nil, s.err
}

func (s *stubReferralService) Reconcile(ctx context.Context) (*models.ReconcileReport, error) {
	return &models.ReconcileReport{}, s.err
}

func performJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSignupHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid code", services.ErrInvalidReferralCode, http.StatusConflict},
		{"inactive code", services.ErrReferralInactive, http.StatusConflict},
		{"self referral", services.ErrSelfReferral, http.StatusConflict},
		{"duplicate email", services.ErrDuplicateEmail, http.StatusConflict},
		{"store failure", assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewUserHandler(nil, &stubReferralService{err: tc.err})
			router := gin.New()
			router.POST("/users/signup", handler.Signup)

			w := performJSON(t, router, http.MethodPost, "/users/signup", models.SignupRequest{
				Name:  "Priya",
				Email: "priya@example.com",
			})
			assert.Equal(t, tc.status, w.Code)

			if tc.status == http.StatusInternalServerError {
				var resp map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "internal server error", resp["error"], "internal detail must not leak")
			}
		})
	}
}

func TestSignupHandlerSuccess(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "priya@example.com", ReferralCode: "PRXPR12345678"}
	handler := NewUserHandler(nil, &stubReferralService{user: user})
	router := gin.New()
	router.POST("/users/signup", handler.Signup)

	w := performJSON(t, router, http.MethodPost, "/users/signup", models.SignupRequest{Name: "Priya", Email: "priya@example.com"})

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp models.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "PRXPR12345678", resp.ReferralCode)
}

func TestSignupHandlerRejectsBadPayload(t *testing.T) {
	handler := NewUserHandler(nil, &stubReferralService{})
	router := gin.New()
	router.POST("/users/signup", handler.Signup)

	w := performJSON(t, router, http.MethodPost, "/users/signup", map[string]string{"email": "not-an-email"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserPointsHandler(t *testing.T) {
	summary := &models.PointsSummary{TotalPoints: 70, AvailablePoints: 50, PointsSpent: 20}
	handler := NewPointsHandler(&stubLedgerService{summary: summary})
	router := gin.New()
	router.GET("/points/:userId", handler.GetUserPoints)

	w := performJSON(t, router, http.MethodGet, "/points/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PointsSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 70, resp.TotalPoints)

	w = performJSON(t, router, http.MethodGet, "/points/not-an-id", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserPointsHandlerNotFound(t *testing.T) {
	handler := NewPointsHandler(&stubLedgerService{err: services.ErrUserNotFound})
	router := gin.New()
	router.GET("/points/:userId", handler.GetUserPoints)

	w := performJSON(t, router, http.MethodGet, "/points/"+primitive.NewObjectID().Hex(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadHandlerInsufficientBalance(t *testing.T) {
	handler := NewPointsHandler(&stubLedgerService{err: services.ErrInsufficientBalance})
	router := gin.New()
	router.POST("/points/:userId/download", handler.Download)

	w := performJSON(t, router, http.MethodPost, "/points/"+primitive.NewObjectID().Hex()+"/download", map[string]interface{}{
		"noteTitle": "physics notes",
		"cost":      40,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateHandler(t *testing.T) {
	handler := NewReferralHandler(&stubReferralService{
		validation: &models.ReferralValidation{Valid: true, Message: "referral code is valid", ReferrerName: "Aarav"},
	})
	router := gin.New()
	router.GET("/referrals/validate", handler.Validate)

	w := performJSON(t, router, http.MethodGet, "/referrals/validate?code=ABXY12349876", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ReferralValidation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "Aarav", resp.ReferrerName)
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusForError(services.ErrInvalidReferralCode))
	assert.Equal(t, http.StatusNotFound, statusForError(services.ErrUserNotFound))
	assert.Equal(t, http.StatusBadRequest, statusForError(services.ErrInsufficientBalance))
	assert.Equal(t, http.StatusUnauthorized, statusForError(services.ErrInvalidCredentials))
	assert.Equal(t, http.StatusInternalServerError, statusForError(assert.AnError))
}
