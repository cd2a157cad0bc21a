package handler

import (
	"errors"
	"net/http"
	"os"
	"time"

	"campusdesk/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenLifetime = 12 * time.Hour

// generateToken signs a staff session token. Only identity goes in; role and
// department are resolved per request by the auth middleware.
func generateToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		ID:        uuid.New().String(),
		Issuer:    "campusdesk",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges staff credentials for a session token.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := generateToken(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"full_name":  user.FullName,
			"role":       user.Role,
			"department": user.Department,
		},
	})
}

// Logout revokes the current session token for its remaining lifetime.
func (h *Handler) Logout(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if len(header) < 8 {
		c.Status(http.StatusNoContent)
		return
	}
	claims, err := middleware.ParseToken(header[7:])
	if err != nil {
		c.Status(http.StatusNoContent)
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl > 0 {
		if err := h.Storage.RevokeToken(claims.ID, ttl); err != nil {
			respondError(c, err)
			return
		}
	}
	c.Status(http.StatusNoContent)
}
