package rescue

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"straypaws/rescue-portal/rescue-portal-backend/internal/middleware"
)

type Handler struct {
	Service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{Service: s}
}

// RegisterRoutes registers rescue report routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/reports")
	{
		// Public intake: no account needed to report a dog on the street.
		group.POST("", handler.Submit)

		group.GET("", middleware.RequireAuth(), handler.List)
		group.GET("/:id", middleware.RequireAuth(), handler.Get)
		group.PUT("/:id/status", middleware.RequireAuth(), handler.SetStatus)
		group.PUT("/:id/assignee", middleware.RequireAuth(), handler.Assign)
		group.POST("/:id/promote", middleware.RequireAuth(), handler.Promote)
	}
}

func (h *Handler) Submit(c *gin.Context) {
	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	report, err := h.Service.Submit(c.Request.Context(), req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (h *Handler) Get(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	report, err := h.Service.Get(c.Request.Context(), actor, id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) List(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var filter Filter
	if v := c.Query("status"); v != "" {
		status := Status(v)
		filter.Status = &status
	}
	if v := c.Query("urgency"); v != "" {
		urgency := Urgency(v)
		filter.Urgency = &urgency
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	items, err := h.Service.List(c.Request.Context(), actor, filter)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) SetStatus(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	report, err := h.Service.SetStatus(c.Request.Context(), actor, id, Status(req.Status))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Assign(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	report, err := h.Service.Assign(c.Request.Context(), actor, id, req.AssigneeID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) Promote(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}
	var req PromoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	dog, err := h.Service.Promote(c.Request.Context(), actor, id, req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dog)
}
