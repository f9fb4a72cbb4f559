package api

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/service"
)

// ExportHandler handles export endpoints
type ExportHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewExportHandler creates a new ExportHandler
func NewExportHandler(services *service.Services, log zerolog.Logger) *ExportHandler {
	return &ExportHandler{
		services: services,
		log:      log.With().Str("handler", "export").Logger(),
	}
}

// StreamExport handles GET /v1/exports/articles?format=ndjson|json
// Streams every article directly to the response
func (h *ExportHandler) StreamExport(c *gin.Context) {
	format := c.Query("format")
	if format == "" {
		format = "ndjson" // Default to NDJSON for streaming
	}
	if format != "ndjson" && format != "json" {
		badRequest(c, "format must be one of: ndjson, json")
		return
	}

	h.log.Info().
		Str("format", format).
		Str("principal", principalFrom(c).ID).
		Msg("Starting streaming export")

	if err := h.services.Export.StreamArticles(c.Request.Context(), c.Writer, format); err != nil {
		if !c.Writer.Written() {
			respondError(c, h.log, err)
			return
		}
		h.log.Error().Err(err).Str("format", format).Msg("Export failed")
		// Can't return error JSON after streaming has started
	}
}
