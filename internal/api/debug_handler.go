package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/service"
	"github.com/newsroom-api/internal/startup"
)

const debugSuggestions = 5

// DebugHandler exposes boot diagnostics and slug resolution to admins
type DebugHandler struct {
	services *service.Services
	report   startup.Report
	log      zerolog.Logger
}

// NewDebugHandler creates a new DebugHandler
func NewDebugHandler(services *service.Services, report startup.Report, log zerolog.Logger) *DebugHandler {
	return &DebugHandler{
		services: services,
		report:   report,
		log:      log.With().Str("handler", "debug").Logger(),
	}
}

// Startup handles GET /debug/startup
func (h *DebugHandler) Startup(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"healthy": h.report.Healthy(),
		"report":  h.report,
	})
}

// ResolveSlug handles GET /debug/slugs/:slug
func (h *DebugHandler) ResolveSlug(c *gin.Context) {
	resolution, err := h.services.Article.ResolveClosest(c.Request.Context(), c.Param("slug"), debugSuggestions)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, resolution)
}
