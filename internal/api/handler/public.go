package handler

import (
	"net/http"

	"campusdesk/backend/internal/lifecycle"

	"github.com/gin-gonic/gin"
)

// Submit is the public intake endpoint. Accepts multipart form data with an
// optional evidence attachment; no authentication.
func (h *Handler) Submit(c *gin.Context) {
	in := lifecycle.SubmitInput{
		Name:        c.PostForm("name"),
		Email:       c.PostForm("email"),
		StudentID:   c.PostForm("student_id"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		IsAnonymous: c.PostForm("is_anonymous") == "true",
	}

	file, header, err := c.Request.FormFile("attachment")
	if err == nil {
		defer file.Close()
		url, upErr := h.Uploads.Save(file, header)
		if upErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": upErr.Error()})
			return
		}
		in.AttachmentURL = url
	}

	complaint, err := h.Lifecycle.Submit(in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"reference_number": complaint.ReferenceNumber})
}

// Track returns the public view of a complaint by reference number. Lookup
// is case-insensitive; internal comments are excluded upstream.
func (h *Handler) Track(c *gin.Context) {
	result, err := h.Lifecycle.Track(c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type disputeRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// Dispute lets a complainant contest a resolved concern from the tracking
// page.
func (h *Handler) Dispute(c *gin.Context) {
	var req disputeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A dispute reason is required"})
		return
	}
	if err := h.Lifecycle.Dispute(c.Param("ref"), req.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "disputed"})
}
