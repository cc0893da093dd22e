package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inventory-console/internal/config"
	"github.com/inventory-console/internal/models"
	"github.com/inventory-console/internal/service"
	"github.com/rs/zerolog"
)

// TransferHandler handles bulk import and export endpoints
type TransferHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewTransferHandler creates a new TransferHandler
func NewTransferHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *TransferHandler {
	return &TransferHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "transfer").Logger(),
	}
}

// Export handles GET /ui/export?format=...
// Streams the export directly to the response
func (h *TransferHandler) Export(c *gin.Context) {
	format := models.ExportFormat(c.DefaultQuery("format", string(models.ExportCSV)))
	if !models.ValidExportFormats[format] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: csv, ndjson, json"})
		return
	}

	h.log.Info().Str("format", string(format)).Msg("Starting streaming export")

	if err := h.services.Transfer.Export(c.Request.Context(), c.Writer, format); err != nil {
		h.log.Error().Err(err).Str("format", string(format)).Msg("Export failed")
		// Can't return error JSON after streaming has started
		if !c.Writer.Written() {
			respondError(c, err, nil)
		}
	}
}

// Import handles POST /ui/import with a multipart "file" CSV upload
func (h *TransferHandler) Import(c *gin.Context) {
	// Refuse viewers before touching the upload
	if !h.services.Console.Role().CanMutate() {
		respondError(c, service.ErrReadOnly, nil)
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	defer file.Close()

	if header.Size > h.cfg.Server.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", h.cfg.Server.MaxUploadSize/(1024*1024)),
		})
		return
	}
	if ext := strings.ToLower(filepath.Ext(header.Filename)); ext != ".csv" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items import requires a CSV file"})
		return
	}

	report, err := h.services.Transfer.Import(c.Request.Context(), file)
	if err != nil {
		h.log.Error().Err(err).Str("file", header.Filename).Msg("Import failed")
		extra := gin.H{}
		if report != nil {
			extra["report"] = report
		}
		respondError(c, err, extra)
		return
	}

	h.log.Info().
		Str("file", header.Filename).
		Int64("size_bytes", header.Size).
		Int("successful", report.SuccessfulCount).
		Int("failed", report.FailedCount).
		Msg("Import completed")

	c.JSON(http.StatusOK, report)
}
