package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"straypaws/rescue-portal/rescue-portal-backend/internal/middleware"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	settings := r.Group("/settings", middleware.RequireAuth())
	{
		settings.GET("/notifications", h.GetPreferences)
		settings.PUT("/notifications", h.UpdatePreferences)
	}
}

func (h *Handler) GetPreferences(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	prefs, err := h.service.GetPreferences(c.Request.Context(), actor.ID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

func (h *Handler) UpdatePreferences(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	prefs, err := h.service.UpdatePreferences(c.Request.Context(), actor.ID, req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}
