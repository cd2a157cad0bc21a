package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campusdesk/backend/internal/lifecycle"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubStore provides just the methods the auth gate touches. Anything else
// panics through the embedded nil interface, which is the point: auth must
// not reach further into storage.
type stubStore struct {
	storage.Storage

	user    *models.User
	revoked map[string]bool

	revokeCalls []string
}

func (s *stubStore) IsTokenRevoked(tokenID string) (bool, error) {
	return s.revoked[tokenID], nil
}

func (s *stubStore) GetUserByID(id string) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubStore) RevokeToken(tokenID string, ttl time.Duration) error {
	s.revokeCalls = append(s.revokeCalls, tokenID)
	return nil
}

func signTestToken(t *testing.T, userID string) string {
	t.Helper()
	claims := StaffClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(jwtSecret())
	require.NoError(t, err)
	return signed
}

func authTestRouter(store *stubStore) (*gin.Engine, *lifecycle.Actor) {
	gin.SetMode(gin.TestMode)
	var captured lifecycle.Actor
	r := gin.New()
	r.GET("/protected", AuthRequired(store), func(c *gin.Context) {
		captured = c.MustGet(ActorKey).(lifecycle.Actor)
		c.Status(http.StatusOK)
	})
	return r, &captured
}

func TestAuthRequiredMissingToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r, _ := authTestRouter(&stubStore{revoked: map[string]bool{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredGarbageToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	r, _ := authTestRouter(&stubStore{revoked: map[string]bool{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequiredAdminPasses(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := &stubStore{
		revoked: map[string]bool{},
		user: &models.User{
			ID:       "u-1",
			Role:     models.RoleAdmin,
			IsActive: true,
		},
	}
	r, actor := authTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u-1"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u-1", actor.ID)
	assert.Equal(t, models.RoleAdmin, actor.Role)
	assert.Empty(t, store.revokeCalls)
}

// TestAuthRequiredStudentDeniedAndSignedOut: a student account reaching a
// staff surface gets Access Denied and the token revoked, so the session
// cannot be replayed.
func TestAuthRequiredStudentDeniedAndSignedOut(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := &stubStore{
		revoked: map[string]bool{},
		user: &models.User{
			ID:       "u-2",
			Role:     models.RoleStudent,
			IsActive: true,
		},
	}
	r, _ := authTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u-2"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Access Denied")
	assert.Len(t, store.revokeCalls, 1)
}

func TestAuthRequiredDepartmentStaffWithoutDepartmentDenied(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := &stubStore{
		revoked: map[string]bool{},
		user: &models.User{
			ID:       "u-3",
			Role:     models.RoleDepartment,
			IsActive: true,
		},
	}
	r, _ := authTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "u-3"))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Len(t, store.revokeCalls, 1)
}

func TestAuthRequiredQueryTokenAccepted(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	store := &stubStore{
		revoked: map[string]bool{},
		user: &models.User{
			ID:       "u-4",
			Role:     models.RoleAdmin,
			IsActive: true,
		},
	}
	r, _ := authTestRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token="+signTestToken(t, "u-4"), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGateRole(t *testing.T) {
	cases := []struct {
		name     string
		user     models.User
		wantRole models.Role
		allowed  bool
	}{
		{"admin", models.User{Role: models.RoleAdmin, IsActive: true}, models.RoleAdmin, true},
		{"super admin", models.User{Role: models.RoleSuperAdmin, IsActive: true}, models.RoleSuperAdmin, true},
		{"department with dept", models.User{Role: models.RoleDepartment, Department: "finance_office", IsActive: true}, models.RoleDepartment, true},
		{"employee alias", models.User{Role: "employee", Department: "facilities_mgmt", IsActive: true}, models.RoleDepartment, true},
		{"faculty alias", models.User{Role: "faculty", Department: "academic_affairs", IsActive: true}, models.RoleDepartment, true},
		{"department without dept", models.User{Role: models.RoleDepartment, IsActive: true}, "", false},
		{"student", models.User{Role: models.RoleStudent, IsActive: true}, "", false},
		{"unknown role", models.User{Role: "janitor", IsActive: true}, "", false},
		{"inactive admin", models.User{Role: models.RoleAdmin, IsActive: false}, "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			role, allowed := gateRole(&tc.user)
			assert.Equal(t, tc.allowed, allowed)
			assert.Equal(t, tc.wantRole, role)
		})
	}
}

func TestRoleRequiredSuperAdminPassesEveryGate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only", func(c *gin.Context) {
		c.Set(ActorKey, lifecycle.Actor{ID: "sa-1", Role: models.RoleSuperAdmin})
	}, RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleRequiredBlocksOtherRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin-only", func(c *gin.Context) {
		c.Set(ActorKey, lifecycle.Actor{ID: "d-1", Role: models.RoleDepartment})
	}, RoleRequired(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin-only", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
