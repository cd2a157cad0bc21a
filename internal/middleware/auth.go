package middleware

import (
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"campusdesk/backend/internal/lifecycle"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const (
	ActorKey = "actor"
	UserKey  = "user"
)

// StaffClaims is what the service signs into a staff session token. Role and
// department deliberately stay out of the token; they are looked up fresh on
// every request so a permission change takes effect immediately.
type StaffClaims struct {
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	return []byte(os.Getenv("JWT_SECRET"))
}

// ParseToken validates a staff session token and returns its claims.
func ParseToken(tokenString string) (*StaffClaims, error) {
	claims := &StaffClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

// AuthRequired validates the bearer token, re-resolves the account's role
// and department, and applies the access gate: students, unprovisioned
// department staff and unrecognized roles are denied. A denial revokes the
// token for its remaining lifetime — a forced sign-out, not just a redirect,
// so a stale session cannot be replayed.
func AuthRequired(s storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
			return
		}

		revoked, err := s.IsTokenRevoked(claims.ID)
		if err != nil {
			log.Printf("ERROR: Token revocation check failed: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication unavailable"})
			return
		}
		if revoked {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session has been signed out"})
			return
		}

		user, err := s.GetUserByID(claims.Subject)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account no longer exists"})
			return
		}
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Authentication unavailable"})
			return
		}

		role, allowed := gateRole(user)
		if !allowed {
			forceSignOut(s, claims)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			return
		}

		c.Set(UserKey, user)
		c.Set(ActorKey, lifecycle.Actor{
			ID:         user.ID,
			Role:       role,
			Department: user.Department,
		})
		c.Next()
	}
}

// RoleRequired allows only the listed roles through. Super admins pass every
// gate.
func RoleRequired(allowed ...models.Role) gin.HandlerFunc {
	roleSet := make(map[models.Role]bool)
	for _, r := range allowed {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		actorVal, exists := c.Get(ActorKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		actor := actorVal.(lifecycle.Actor)

		if actor.Role == models.RoleSuperAdmin {
			c.Next()
			return
		}
		if !roleSet[actor.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access Denied"})
			return
		}
		c.Next()
	}
}

// gateRole normalizes the stored role and applies the three denial rules:
// students never reach staff surfaces, department-class roles without an
// assigned department are unverified staff, unknown roles are refused.
func gateRole(user *models.User) (models.Role, bool) {
	if !user.IsActive {
		return "", false
	}
	switch user.Role {
	case models.RoleAdmin, models.RoleSuperAdmin:
		return user.Role, true
	case models.RoleDepartment, "employee", "faculty":
		if user.Department == "" {
			return "", false
		}
		return models.RoleDepartment, true
	case models.RoleStudent:
		return "", false
	default:
		return "", false
	}
}

func forceSignOut(s storage.Storage, claims *StaffClaims) {
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return
	}
	if err := s.RevokeToken(claims.ID, ttl); err != nil {
		log.Printf("ERROR: Failed to revoke token %s: %v", claims.ID, err)
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Browsers cannot set headers on websocket dials; allow ?token= there.
	return c.Query("token")
}
