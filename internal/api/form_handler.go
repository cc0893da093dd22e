package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/service"
	"github.com/inventory-console/internal/validation"
	"github.com/rs/zerolog"
)

// FormHandler handles the create and edit form endpoints
type FormHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewFormHandler creates a new FormHandler
func NewFormHandler(services *service.Services, log zerolog.Logger) *FormHandler {
	return &FormHandler{
		services: services,
		log:      log.With().Str("handler", "form").Logger(),
	}
}

// OpenCreate handles POST /ui/forms
func (h *FormHandler) OpenCreate(c *gin.Context) {
	c.JSON(http.StatusCreated, h.services.Forms.OpenCreate())
}

// OpenEdit handles POST /ui/forms/edit/:item_id
func (h *FormHandler) OpenEdit(c *gin.Context) {
	itemID := models.ItemID(c.Param("item_id"))
	view, err := h.services.Forms.OpenEdit(itemID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// formID returns the form_id path parameter. Ids that are not UUIDs cannot
// name a form and are answered with 404 without a registry lookup.
func (h *FormHandler) formID(c *gin.Context) (string, bool) {
	id := c.Param("form_id")
	if !validation.IsValidUUID(id) {
		respondError(c, service.ErrFormNotFound, nil)
		return "", false
	}
	return id, true
}

// GetForm handles GET /ui/forms/:form_id
func (h *FormHandler) GetForm(c *gin.Context) {
	formID, ok := h.formID(c)
	if !ok {
		return
	}
	view, err := h.services.Forms.Get(formID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetField handles PATCH /ui/forms/:form_id/fields
//
// A rejected keystroke is not an HTTP error: the field message is
// reported in the returned form's error map.
func (h *FormHandler) SetField(c *gin.Context) {
	formID, ok := h.formID(c)
	if !ok {
		return
	}
	var change models.FieldChange
	if err := c.ShouldBindJSON(&change); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "field is required"})
		return
	}

	view, err := h.services.Forms.SetField(formID, change.Field, change.Value)
	if err != nil {
		respondError(c, err, gin.H{"form": view})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Submit handles POST /ui/forms/:form_id/submit
func (h *FormHandler) Submit(c *gin.Context) {
	formID, ok := h.formID(c)
	if !ok {
		return
	}
	view, err := h.services.Forms.Submit(c.Request.Context(), formID)
	if err != nil {
		h.log.Warn().Err(err).Str("form_id", formID).Msg("Submit refused or failed")
		respondError(c, err, gin.H{"form": view})
		return
	}
	c.JSON(http.StatusOK, view)
}

// Cancel handles DELETE /ui/forms/:form_id
func (h *FormHandler) Cancel(c *gin.Context) {
	formID, ok := h.formID(c)
	if !ok {
		return
	}
	view, err := h.services.Forms.Cancel(formID)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, view)
}
