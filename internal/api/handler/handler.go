package handler

import (
	"errors"
	"log"
	"net/http"

	"campusdesk/backend/internal/lifecycle"
	"campusdesk/backend/internal/live"
	"campusdesk/backend/internal/middleware"
	"campusdesk/backend/internal/storage"
	"campusdesk/backend/internal/uploads"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler carries the wired services for every route group.
type Handler struct {
	Lifecycle *lifecycle.Service
	Storage   storage.Storage
	Hub       *live.Hub
	Uploads   *uploads.Store
}

func NewHandler(lc *lifecycle.Service, s storage.Storage, hub *live.Hub, up *uploads.Store) *Handler {
	return &Handler{Lifecycle: lc, Storage: s, Hub: hub, Uploads: up}
}

// respondError maps service errors onto the response taxonomy: validation
// 400, missing record 404, stale precondition 409, illegal edge 422, wrong
// department 403, anything else a logged 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, lifecycle.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No complaint found"})
	case errors.Is(err, storage.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "The complaint was updated by someone else, please reload and retry"})
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, lifecycle.ErrNotYourDepartment):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		log.Printf("ERROR: Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

func actorFrom(c *gin.Context) lifecycle.Actor {
	return c.MustGet(middleware.ActorKey).(lifecycle.Actor)
}
