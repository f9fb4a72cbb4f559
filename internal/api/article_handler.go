package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/service"
	"github.com/newsroom-api/internal/validation"
)

// ArticleHandler handles article endpoints
type ArticleHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewArticleHandler creates a new ArticleHandler
func NewArticleHandler(services *service.Services, log zerolog.Logger) *ArticleHandler {
	return &ArticleHandler{
		services: services,
		log:      log.With().Str("handler", "article").Logger(),
	}
}

// List handles GET /v1/articles
func (h *ArticleHandler) List(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	articles, err := h.services.Article.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": publicList(articles),
		"count":    len(articles),
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// TopRail handles GET /v1/articles/top-rail
func (h *ArticleHandler) TopRail(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	rail, err := h.services.Article.TopRail(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, rail)
}

// GetBySlug handles GET /v1/articles/:slug
func (h *ArticleHandler) GetBySlug(c *gin.Context) {
	article, err := h.services.Article.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if !article.IsPublished && !principalFrom(c).CanModify(article) {
		respondError(c, h.log, service.ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, article.Public())
}

// Dashboard handles GET /v1/dashboard/articles
func (h *ArticleHandler) Dashboard(c *gin.Context) {
	filter, err := parseListFilter(c)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	articles, err := h.services.Article.ListForDashboard(c.Request.Context(), principalFrom(c), filter)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"count":    len(articles),
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// Create handles POST /v1/articles
func (h *ArticleHandler) Create(c *gin.Context) {
	var input models.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	article, err := h.services.Article.Create(c.Request.Context(), &input, principalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, article)
}

// Update handles PUT /v1/articles/:id where id is numeric or a uuid
func (h *ArticleHandler) Update(c *gin.Context) {
	var input models.ArticleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	article, err := h.services.Article.Update(c.Request.Context(), c.Param("id"), &input, principalFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /v1/articles/:id where id is a uuid, numeric id or slug
func (h *ArticleHandler) Delete(c *gin.Context) {
	if err := h.services.Article.Delete(c.Request.Context(), c.Param("id"), principalFrom(c)); err != nil {
		respondError(c, h.log, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Stats handles GET /v1/stats
func (h *ArticleHandler) Stats(c *gin.Context) {
	stats, err := h.services.Article.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// parseListFilter reads category, is_breaking, limit and offset from the
// query string. Bad values come back as validation errors.
func parseListFilter(c *gin.Context) (models.ListFilter, error) {
	filter := models.ListFilter{Limit: models.DefaultListLimit}
	var errs validation.Errors

	if raw := c.Query("category"); raw != "" {
		category, err := validation.ParseCategory(raw)
		if err != nil {
			errs = append(errs, err.(validation.Errors)...)
		} else {
			filter.Category = &category
		}
	}

	if raw := c.Query("is_breaking"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			errs = append(errs, validation.ValidationError{Field: "is_breaking", Message: "must be true or false", Value: raw})
		} else {
			filter.IsBreaking = &b
		}
	}

	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			errs = append(errs, validation.ValidationError{Field: "limit", Message: "must be a positive integer", Value: raw})
		} else {
			filter.Limit = min(n, models.MaxListLimit)
		}
	}

	if raw := c.Query("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs = append(errs, validation.ValidationError{Field: "offset", Message: "must be a non-negative integer", Value: raw})
		} else {
			filter.Offset = n
		}
	}

	if len(errs) > 0 {
		return filter, errs
	}
	return filter, nil
}

func publicList(articles []*models.Article) []models.PublicArticle {
	return lo.Map(articles, func(a *models.Article, _ int) models.PublicArticle {
		return a.Public()
	})
}
