package dogs

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

// RegisterRoutes registers dog routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/dogs")
	{
		group.GET("", handler.List)
		group.GET("/:id", handler.Get)

		group.POST("", middleware.RequireAuth(), handler.Create)
		group.PATCH("/:id", middleware.RequireAuth(), handler.Update)
		group.DELETE("/:id", middleware.RequireAuth(), handler.Delete)
		group.PUT("/:id/vet", middleware.RequireAuth(), handler.AssignVet)
		group.PUT("/:id/treatment", middleware.RequireAuth(), handler.UpdateTreatment)
	}
}

func (h *Handler) Create(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	var req CreateDogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	dog, err := h.Service.Create(c.Request.Context(), actor, req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dog)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dog id"})
		return
	}
	dog, err := h.Service.Get(c.Request.Context(), id)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

func (h *Handler) List(c *gin.Context) {
	var filter Filter
	if v := c.Query("status"); v != "" {
		status := Status(v)
		filter.Status = &status
	}
	if v := c.Query("created_by"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid created_by"})
			return
		}
		filter.CreatedBy = &id
	}
	if v := c.Query("assigned_vet"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid assigned_vet"})
			return
		}
		filter.AssignedVet = &id
	}
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))

	items, err := h.Service.List(c.Request.Context(), filter)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) Update(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dog id"})
		return
	}
	var req UpdateDogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	dog, err := h.Service.Update(c.Request.Context(), actor, id, req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

func (h *Handler) Delete(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dog id"})
		return
	}
	if err := h.Service.Delete(c.Request.Context(), actor, id); err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "dog deleted"})
}

func (h *Handler) AssignVet(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dog id"})
		return
	}
	var req AssignVetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	dog, err := h.Service.AssignVet(c.Request.Context(), actor, id, req.VetID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}

func (h *Handler) UpdateTreatment(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid dog id"})
		return
	}
	var req TreatmentUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	dog, err := h.Service.UpdateTreatment(c.Request.Context(), actor, id, req)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dog)
}
