package handler

import (
	"net/http"

	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// List returns the dashboard listing. Department staff only ever see their
// own department's complaints; admins see everything, filterable.
func (h *Handler) List(c *gin.Context) {
	actor := actorFrom(c)

	filter := storage.ComplaintFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}
	if actor.Role == models.RoleDepartment {
		filter.Department = actor.Department
	} else if dept := c.Query("department"); dept != "" {
		filter.Department = dept
	}

	complaints, err := h.Storage.ListComplaints(filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

// Get returns the full staff view: record, audit trail and all comments,
// internal included.
func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")

	complaint, err := h.Storage.GetComplaintByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	trail, err := h.Storage.GetAuditTrail(id)
	if err != nil {
		respondError(c, err)
		return
	}
	comments, err := h.Storage.GetComments(id, true)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaint":   complaint,
		"audit_trail": trail,
		"comments":    comments,
	})
}

type verifyRequest struct {
	Department string `json:"department"`
	Remarks    string `json:"remarks"`
}

func (h *Handler) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.Lifecycle.Verify(c.Param("id"), actorFrom(c), req.Department, req.Remarks); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusVerified})
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) Reject(c *gin.Context) {
	var req rejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.Lifecycle.Reject(c.Param("id"), actorFrom(c), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusRejected})
}

type startRequest struct {
	Remarks string `json:"remarks"`
}

func (h *Handler) Start(c *gin.Context) {
	var req startRequest
	// Body is optional for this action.
	_ = c.ShouldBindJSON(&req)
	if err := h.Lifecycle.StartProgress(c.Param("id"), actorFrom(c), req.Remarks); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusInProgress})
}

type resolveRequest struct {
	ResolutionDetails  string `json:"resolution_details"`
	ResolutionImageURL string `json:"resolution_image_url"`
	Remarks            string `json:"remarks"`
}

func (h *Handler) Resolve(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.Lifecycle.Resolve(c.Param("id"), actorFrom(c), req.ResolutionDetails, req.ResolutionImageURL, req.Remarks); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusResolved})
}

func (h *Handler) Backlog(c *gin.Context) {
	if err := h.Lifecycle.MoveToBacklog(c.Param("id"), actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": models.StatusBacklog})
}

type changeStatusRequest struct {
	NewStatus   string `json:"new_status" binding:"required"`
	Department  string `json:"department"`
	Remarks     string `json:"remarks"`
	NotifyEmail string `json:"notify_email"`
}

// ChangeStatus is the office-admin override along any legal lifecycle edge.
func (h *Handler) ChangeStatus(c *gin.Context) {
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "new_status is required"})
		return
	}
	err := h.Lifecycle.ChangeStatus(c.Param("id"), actorFrom(c),
		models.Status(req.NewStatus), req.Department, req.Remarks, req.NotifyEmail)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.NewStatus})
}

type commentRequest struct {
	Content    string `json:"content" binding:"required"`
	IsInternal bool   `json:"is_internal"`
}

func (h *Handler) PostComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Comment content is required"})
		return
	}
	comment, err := h.Lifecycle.PostComment(c.Param("id"), actorFrom(c).ID, req.Content, req.IsInternal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// UploadAttachment stores a resolution image for staff and returns its URL.
func (h *Handler) UploadAttachment(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A file is required"})
		return
	}
	defer file.Close()

	url, err := h.Uploads.Save(file, header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
