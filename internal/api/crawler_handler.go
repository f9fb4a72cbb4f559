package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/config"
	"github.com/newsroom-api/internal/metrics"
	"github.com/newsroom-api/internal/social"
)

// CrawlerHandler serves /article/:slug. Link-preview crawlers get a
// server-rendered meta document, everyone else gets the SPA.
type CrawlerHandler struct {
	composer *social.Composer
	metrics  *metrics.Metrics
	spaIndex string
	log      zerolog.Logger
}

// NewCrawlerHandler creates a new CrawlerHandler
func NewCrawlerHandler(composer *social.Composer, m *metrics.Metrics, site config.SiteConfig, log zerolog.Logger) *CrawlerHandler {
	return &CrawlerHandler{
		composer: composer,
		metrics:  m,
		spaIndex: site.SPAIndexPath,
		log:      log.With().Str("handler", "crawler").Logger(),
	}
}

// ShareArticle handles GET /article/:slug
func (h *CrawlerHandler) ShareArticle(c *gin.Context) {
	c.Header("Vary", "User-Agent")

	if social.Classify(c.GetHeader("User-Agent")) == social.Human {
		h.metrics.ObserveCrawler(metrics.CrawlerHuman)
		if h.spaIndex != "" {
			c.File(h.spaIndex)
			return
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	var body []byte
	outcome := metrics.CrawlerFallback
	if h.composer != nil {
		res := h.composer.Compose(c.Request.Context(), c.Param("slug"))
		body, outcome = res.HTML, res.Outcome
	}
	if len(body) == 0 {
		body = []byte(social.StaticFallback)
		outcome = metrics.CrawlerFallback
	}
	h.metrics.ObserveCrawler(outcome)

	h.log.Debug().
		Str("slug", c.Param("slug")).
		Str("outcome", outcome).
		Str("user_agent", c.GetHeader("User-Agent")).
		Msg("Served crawler document")

	c.Header("Cache-Control", "public, max-age=300")
	c.Header("X-Robots-Tag", "all")
	c.Data(http.StatusOK, "text/html; charset=utf-8", body)
}
