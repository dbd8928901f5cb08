package accounts

import (
	"github.com/gin-gonic/gin"

	"straypaws/rescue-portal/rescue-portal-backend/internal/middleware"
)

// RegisterRoutes registers account routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", handler.Register)
		authGroup.POST("/login", handler.Login)
		authGroup.POST("/request-password-reset", handler.RequestPasswordReset)
		authGroup.POST("/reset-password", handler.ConfirmPasswordReset)

		authGroup.GET("/me", middleware.RequireAuth(), handler.Me)
		authGroup.POST("/verification-document", middleware.RequireAuth(), handler.SubmitVerificationDocument)
	}

	adminGroup := r.Group("/admin/accounts", middleware.RequireAuth())
	{
		adminGroup.GET("/pending", handler.ListPending)
		adminGroup.POST("/:id/approve", handler.Approve)
		adminGroup.POST("/:id/reject", handler.Reject)
	}
}
