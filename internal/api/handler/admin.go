package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"campusdesk/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Super-admin surface: departments, user provisioning, rate-limit policy and
// IP blocks. All routes here sit behind RoleRequired(super_admin).

type departmentRequest struct {
	Name        string   `json:"name" binding:"required"`
	Code        string   `json:"code" binding:"required"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}

func (h *Handler) ListDepartments(c *gin.Context) {
	depts, err := h.Storage.ListDepartments(c.Query("include_inactive") == "true")
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"departments": depts})
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and code are required"})
		return
	}

	dept := &models.Department{
		Name:        req.Name,
		Code:        strings.ToLower(strings.TrimSpace(req.Code)),
		Description: req.Description,
		Categories:  pq.StringArray(req.Categories),
		IsActive:    true,
	}
	if err := h.Storage.SaveDepartment(dept); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dept)
}

func (h *Handler) UpdateDepartment(c *gin.Context) {
	dept, err := h.Storage.GetDepartmentByCode(c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and code are required"})
		return
	}
	dept.Name = req.Name
	dept.Description = req.Description
	if req.Categories != nil {
		dept.Categories = pq.StringArray(req.Categories)
	}
	if err := h.Storage.SaveDepartment(dept); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dept)
}

// DeleteDepartment is a soft delete: the row stays, complaints keep their
// stale assignment.
func (h *Handler) DeleteDepartment(c *gin.Context) {
	if err := h.Storage.DeactivateDepartment(c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Storage.ListUsers()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

type userPatchRequest struct {
	Role       string `json:"role"`
	Department string `json:"department"`
	IsActive   *bool  `json:"is_active"`
}

// PatchUser assigns role and department. The change takes effect on the
// target's next request since gating re-reads the row every time.
func (h *Handler) PatchUser(c *gin.Context) {
	user, err := h.Storage.GetUserByID(c.Param("id"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "No such user"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}

	var req userPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Role != "" {
		user.Role = models.Role(req.Role)
	}
	if req.Department != "" {
		user.Department = strings.ToLower(strings.TrimSpace(req.Department))
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.Storage.SaveUser(user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) GetRateLimit(c *gin.Context) {
	cfg, err := h.Storage.GetRateLimitConfig()
	if err != nil {
		respondError(c, err)
		return
	}
	if cfg == nil {
		c.JSON(http.StatusOK, gin.H{"config": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"config": cfg})
}

type rateLimitRequest struct {
	MaxRequests   int  `json:"max_requests" binding:"required,min=1"`
	WindowMinutes int  `json:"window_minutes" binding:"required,min=1"`
	Enabled       bool `json:"enabled"`
}

func (h *Handler) PutRateLimit(c *gin.Context) {
	var req rateLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "max_requests and window_minutes are required"})
		return
	}

	cfg, err := h.Storage.GetRateLimitConfig()
	if err != nil {
		respondError(c, err)
		return
	}
	if cfg == nil {
		cfg = &models.RateLimitConfig{}
	}
	cfg.MaxRequests = req.MaxRequests
	cfg.WindowMinutes = req.WindowMinutes
	cfg.Enabled = req.Enabled
	cfg.UpdatedBy = actorFrom(c).ID

	if err := h.Storage.SaveRateLimitConfig(cfg); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

func (h *Handler) ListBlockedIPs(c *gin.Context) {
	blocks, err := h.Storage.ListBlockedIPs()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked_ips": blocks})
}

type blockIPRequest struct {
	IP            string `json:"ip" binding:"required,ip"`
	Reason        string `json:"reason"`
	DurationHours int    `json:"duration_hours"` // 0 means permanent
}

func (h *Handler) BlockIP(c *gin.Context) {
	var req blockIPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A valid ip is required"})
		return
	}

	block := &models.BlockedIP{
		IP:        req.IP,
		Reason:    req.Reason,
		BlockedBy: actorFrom(c).ID,
	}
	if req.DurationHours > 0 {
		expires := time.Now().Add(time.Duration(req.DurationHours) * time.Hour)
		block.ExpiresAt = &expires
	}

	if err := h.Storage.BlockIP(block); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

func (h *Handler) UnblockIP(c *gin.Context) {
	if err := h.Storage.UnblockIP(c.Param("ip")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
