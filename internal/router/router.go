package router

import (
	"campusdesk/backend/internal/api/handler"
	"campusdesk/backend/internal/middleware"
	"campusdesk/backend/internal/models"
	"campusdesk/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires the full HTTP surface: public intake and tracking,
// the staff dashboard API, and the super-admin policy endpoints.
func RegisterRoutes(r *gin.Engine, h *handler.Handler, s storage.Storage, uploadDir string) {
	// Stored attachments are public by URL.
	r.Static("/uploads", uploadDir)

	api := r.Group("/api")

	// Public routes
	api.POST("/complaints", middleware.SubmitPolicy(s), h.Submit)
	api.GET("/track/:ref", h.Track)
	api.POST("/track/:ref/dispute", h.Dispute)
	api.POST("/auth/login", h.Login)
	api.POST("/auth/logout", h.Logout)

	// Staff routes (office admins and department staff)
	staff := api.Group("/")
	staff.Use(middleware.AuthRequired(s))
	{
		staff.GET("/complaints", h.List)
		staff.GET("/complaints/:id", h.Get)
		staff.POST("/complaints/:id/comments", h.PostComment)
		staff.POST("/attachments", h.UploadAttachment)
		staff.GET("/ws", h.ServeWS)

		// Office-admin transitions
		adminOnly := staff.Group("/")
		adminOnly.Use(middleware.RoleRequired(models.RoleAdmin))
		{
			adminOnly.POST("/complaints/:id/verify", h.Verify)
			adminOnly.POST("/complaints/:id/reject", h.Reject)
			adminOnly.POST("/complaints/:id/status", h.ChangeStatus)
		}

		// Department-staff transitions (admins may also drive them)
		deptOnly := staff.Group("/")
		deptOnly.Use(middleware.RoleRequired(models.RoleDepartment, models.RoleAdmin))
		{
			deptOnly.POST("/complaints/:id/start", h.Start)
			deptOnly.POST("/complaints/:id/resolve", h.Resolve)
			deptOnly.POST("/complaints/:id/backlog", h.Backlog)
		}
	}

	// Super-admin policy surface
	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(s), middleware.RoleRequired(models.RoleSuperAdmin))
	{
		admin.GET("/departments", h.ListDepartments)
		admin.POST("/departments", h.CreateDepartment)
		admin.PUT("/departments/:code", h.UpdateDepartment)
		admin.DELETE("/departments/:code", h.DeleteDepartment)

		admin.GET("/users", h.ListUsers)
		admin.PATCH("/users/:id", h.PatchUser)

		admin.GET("/rate-limit", h.GetRateLimit)
		admin.PUT("/rate-limit", h.PutRateLimit)

		admin.GET("/blocked-ips", h.ListBlockedIPs)
		admin.POST("/blocked-ips", h.BlockIP)
		admin.DELETE("/blocked-ips/:ip", h.UnblockIP)
	}
}
