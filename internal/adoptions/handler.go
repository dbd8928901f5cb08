package adoptions

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

// RegisterRoutes registers adoption routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/applications", middleware.RequireAuth())
	{
		group.POST("", handler.Submit)
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)
		group.POST("/:id/review", handler.StartReview)
		group.POST("/:id/approve", handler.Approve)
		group.POST("/:id/reject", handler.Reject)
	}

	r.GET("/admin/adoptions/export", middleware.RequireAuth(), handler.Export)
}

func (h *Handler) Submit(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	app, err := h.Service.Submit(c.Request.Context(), actor, req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, app)
}

func (h *Handler) Get(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}
	app, err := h.Service.Get(c.Request.Context(), actor, id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) List(c *gin.Context) {
	actor, _ := middleware.GetActor(c)

	var filter Filter
	if v := c.Query("status"); v != "" {
		status := Status(v)
		filter.Status = &status
	}
	if v := c.Query("dog_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dog_id"})
			return
		}
		filter.DogID = &id
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

func (h *Handler) StartReview(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}
	app, err := h.Service.StartReview(c.Request.Context(), actor, id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) Approve(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	app, err := h.Service.Approve(c.Request.Context(), actor, id, req.Notes)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) Reject(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}
	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	app, err := h.Service.Reject(c.Request.Context(), actor, id, req.Notes)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) Export(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	content, err := h.Service.Export(c.Request.Context(), actor)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="adoptions.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
