package notifications

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"straypaws/rescue-portal/rescue-portal-backend/internal/middleware"
)

// StreamUpgrader upgrades a request to a live notification socket. The
// websocket manager implements it; keeping the dependency behind an interface
// here mirrors Pusher and keeps this package free of the websocket package.
type StreamUpgrader interface {
	HandleConnection(w http.ResponseWriter, r *http.Request, accountID string) error
}

type Handler struct {
	Dispatcher *Dispatcher
	Upgrader   StreamUpgrader
}

func NewHandler(d *Dispatcher, upgrader StreamUpgrader) *Handler {
	return &Handler{Dispatcher: d, Upgrader: upgrader}
}

// RegisterRoutes registers notification routes
func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/notifications", middleware.RequireAuth())
	{
		group.GET("", handler.List)
		group.POST("/:id/read", handler.MarkRead)
		group.GET("/stream", handler.Stream)
	}
}

func (h *Handler) List(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	items, err := h.Dispatcher.ListForAccount(c.Request.Context(), actor.ID, limit, offset)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) MarkRead(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}
	if err := h.Dispatcher.MarkRead(c.Request.Context(), id, actor.ID); err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// Stream upgrades the request to a websocket feed of live notifications.
func (h *Handler) Stream(c *gin.Context) {
	actor, _ := middleware.GetActor(c)
	if err := h.Upgrader.HandleConnection(c.Writer, c.Request, actor.ID.String()); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "websocket upgrade failed"})
	}
}
