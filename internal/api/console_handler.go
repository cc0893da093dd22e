package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/service"
	"github.com/rs/zerolog"
)

// ConsoleHandler handles the item table and role endpoints
type ConsoleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewConsoleHandler creates a new ConsoleHandler
func NewConsoleHandler(services *service.Services, log zerolog.Logger) *ConsoleHandler {
	return &ConsoleHandler{
		services: services,
		log:      log.With().Str("handler", "console").Logger(),
	}
}

// Page handles GET /
func (h *ConsoleHandler) Page(c *gin.Context) {
	role := h.services.Console.Role()
	c.HTML(http.StatusOK, "console.html", gin.H{
		"Role":      role,
		"CanMutate": role.CanMutate(),
		"Items":     h.services.Console.Items(),
		"Statuses":  []models.Status{models.StatusInStock, models.StatusLowStock, models.StatusOrdered, models.StatusDiscontinued},
	})
}

// ListItems handles GET /ui/items
func (h *ConsoleHandler) ListItems(c *gin.Context) {
	c.JSON(http.StatusOK, h.tableResponse(h.services.Console.Items()))
}

// RefreshItems handles POST /ui/items/refresh
func (h *ConsoleHandler) RefreshItems(c *gin.Context) {
	items, err := h.services.Console.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, err, h.tableResponse(items))
		return
	}
	c.JSON(http.StatusOK, h.tableResponse(items))
}

// SearchItems handles GET /ui/items/search?keyword=...
func (h *ConsoleHandler) SearchItems(c *gin.Context) {
	keyword := c.Query("keyword")
	items, err := h.services.Console.Search(c.Request.Context(), keyword)
	if err != nil {
		respondError(c, err, h.tableResponse(items))
		return
	}
	c.JSON(http.StatusOK, h.tableResponse(items))
}

// DeleteItem handles DELETE /ui/items/:id
func (h *ConsoleHandler) DeleteItem(c *gin.Context) {
	id := models.ItemID(c.Param("id"))
	items, err := h.services.Console.Delete(c.Request.Context(), id)
	if err != nil {
		h.log.Warn().Err(err).Str("item_id", id.String()).Msg("Delete refused or failed")
		respondError(c, err, h.tableResponse(items))
		return
	}
	c.JSON(http.StatusOK, h.tableResponse(items))
}

// GetRole handles GET /ui/role
func (h *ConsoleHandler) GetRole(c *gin.Context) {
	c.JSON(http.StatusOK, h.roleResponse(h.services.Console.Role()))
}

// SetRole handles PUT /ui/role
func (h *ConsoleHandler) SetRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.services.Console.SetRole(c.Request.Context(), role); err != nil {
		h.log.Error().Err(err).Msg("Failed to store role")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store role"})
		return
	}
	c.JSON(http.StatusOK, h.roleResponse(role))
}

// ToggleRole handles POST /ui/role/toggle
func (h *ConsoleHandler) ToggleRole(c *gin.Context) {
	role, err := h.services.Console.ToggleRole(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to store role")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store role"})
		return
	}
	c.JSON(http.StatusOK, h.roleResponse(role))
}

func (h *ConsoleHandler) tableResponse(items []models.Item) gin.H {
	if items == nil {
		items = []models.Item{}
	}
	return gin.H{
		"role":  h.services.Console.Role(),
		"count": len(items),
		"items": items,
	}
}

func (h *ConsoleHandler) roleResponse(role models.Role) gin.H {
	return gin.H{
		"role":       role,
		"can_mutate": role.CanMutate(),
	}
}
