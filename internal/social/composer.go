// Package social renders the share-preview documents served to link
// crawlers on /article/:slug.
package social

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/config"
	"github.com/newsroom-api/internal/metrics"
	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/service"
)

// Image dimensions declared in og:image tags. The resolver's transform
// produces exactly this size.
const (
	ImageWidth  = 1200
	ImageHeight = 630
	ImageType   = "image/jpeg"
)

// ArticleSource resolves a slug, returning service.ErrNotFound on a miss
type ArticleSource interface {
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
}

// ImagePicker chooses the share image. It must never return an empty string.
type ImagePicker interface {
	Pick(ctx context.Context, article *models.Article) string
}

// Result is a composed document and how it was produced
type Result struct {
	HTML    []byte
	Outcome string // one of the metrics.Crawler* outcomes
}

// Composer renders crawler documents
type Composer struct {
	site     config.SiteConfig
	articles ArticleSource
	images   ImagePicker
	fallback []byte
	log      zerolog.Logger
}

// NewComposer creates a Composer. fallbackImage is used for the generic
// site document, which is rendered once up front.
func NewComposer(site config.SiteConfig, articles ArticleSource, images ImagePicker, fallbackImage string, log zerolog.Logger) *Composer {
	c := &Composer{
		site:     site,
		articles: articles,
		images:   images,
		log:      log.With().Str("component", "social").Logger(),
	}

	doc, err := render(c.siteDocument(fallbackImage))
	if err != nil {
		c.log.Error().Err(err).Msg("Failed to render site document, using static fallback")
		doc = []byte(StaticFallback)
	}
	c.fallback = doc
	return c
}

// Compose renders the document for slug. It always produces a complete
// HTML document: a hit renders the article, a miss renders site defaults,
// and any failure or panic renders the generic site document.
func (c *Composer) Compose(ctx context.Context, slug string) (res Result) {
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Error().Interface("panic", rec).Str("slug", slug).Msg("Composing share document panicked")
			res = Result{HTML: c.fallback, Outcome: metrics.CrawlerFallback}
		}
	}()

	article, err := c.articles.GetBySlug(ctx, slug)
	switch {
	case errors.Is(err, service.ErrNotFound):
		doc, rerr := render(c.siteDocument(c.images.Pick(ctx, nil)))
		if rerr != nil {
			c.log.Error().Err(rerr).Msg("Failed to render miss document")
			return Result{HTML: c.fallback, Outcome: metrics.CrawlerFallback}
		}
		return Result{HTML: doc, Outcome: metrics.CrawlerMiss}
	case err != nil:
		c.log.Error().Err(err).Str("slug", slug).Msg("Article lookup failed")
		return Result{HTML: c.fallback, Outcome: metrics.CrawlerFallback}
	}

	doc, err := render(c.articleDocument(article, c.images.Pick(ctx, article)))
	if err != nil {
		c.log.Error().Err(err).Str("slug", article.Slug).Msg("Failed to render article document")
		return Result{HTML: c.fallback, Outcome: metrics.CrawlerFallback}
	}
	return Result{HTML: doc, Outcome: metrics.CrawlerHit}
}

// Fallback returns the generic site document
func (c *Composer) Fallback() []byte {
	return c.fallback
}

// CanonicalURL is the public SPA address of an article
func (c *Composer) CanonicalURL(slug string) string {
	return c.site.BaseURL + "/article/" + slug
}

type document struct {
	Title         string
	Description   string
	CanonicalURL  string
	ImageURL      string
	ImageAlt      string
	ImageWidth    int
	ImageHeight   int
	ImageType     string
	SiteName      string
	OgType        string
	TwitterSite   string
	PublishedTime string
	ModifiedTime  string
	Section       string
	JSONLD        template.JS
}

type ldThing struct {
	Type string `json:"@type"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
	ID   string `json:"@id,omitempty"`
}

type ldOrganization struct {
	Type string   `json:"@type"`
	Name string   `json:"name"`
	Logo *ldThing `json:"logo,omitempty"`
}

type ldNewsArticle struct {
	Context          string         `json:"@context"`
	Type             string         `json:"@type"`
	Headline         string         `json:"headline"`
	Description      string         `json:"description"`
	Image            []string       `json:"image"`
	DatePublished    string         `json:"datePublished,omitempty"`
	DateModified     string         `json:"dateModified,omitempty"`
	ArticleSection   string         `json:"articleSection,omitempty"`
	Author           ldThing        `json:"author"`
	Publisher        ldOrganization `json:"publisher"`
	MainEntityOfPage ldThing        `json:"mainEntityOfPage"`
}

func (c *Composer) publisher() ldOrganization {
	org := ldOrganization{Type: "Organization", Name: c.site.Name}
	if c.site.LogoURL != "" {
		org.Logo = &ldThing{Type: "ImageObject", URL: c.site.LogoURL}
	}
	return org
}

func (c *Composer) articleDocument(a *models.Article, image string) document {
	canonical := c.CanonicalURL(a.Slug)
	description := Description(a.Subheading, a.Content)
	published := a.CreatedAt.UTC().Format(time.RFC3339)
	modified := a.UpdatedAt.UTC().Format(time.RFC3339)

	alt := a.Title
	if a.ImageCaption != nil && *a.ImageCaption != "" {
		alt = *a.ImageCaption
	}

	return document{
		Title:         a.Title,
		Description:   description,
		CanonicalURL:  canonical,
		ImageURL:      image,
		ImageAlt:      alt,
		ImageWidth:    ImageWidth,
		ImageHeight:   ImageHeight,
		ImageType:     ImageType,
		SiteName:      c.site.Name,
		OgType:        "article",
		TwitterSite:   c.site.TwitterHandle,
		PublishedTime: published,
		ModifiedTime:  modified,
		Section:       string(a.Category),
		JSONLD: jsonLD(ldNewsArticle{
			Context:          "https://schema.org",
			Type:             "NewsArticle",
			Headline:         a.Title,
			Description:      description,
			Image:            []string{image},
			DatePublished:    published,
			DateModified:     modified,
			ArticleSection:   string(a.Category),
			Author:           ldThing{Type: "Person", Name: a.AuthorName},
			Publisher:        c.publisher(),
			MainEntityOfPage: ldThing{Type: "WebPage", ID: canonical},
		}),
	}
}

// siteDocument has the same shape as an article document, filled with
// site branding
func (c *Composer) siteDocument(image string) document {
	description := Truncate(c.site.Description, MaxDescriptionLength)
	home := c.site.BaseURL + "/"

	return document{
		Title:        c.site.Name,
		Description:  description,
		CanonicalURL: home,
		ImageURL:     image,
		ImageAlt:     c.site.Name,
		ImageWidth:   ImageWidth,
		ImageHeight:  ImageHeight,
		ImageType:    ImageType,
		SiteName:     c.site.Name,
		OgType:       "website",
		TwitterSite:  c.site.TwitterHandle,
		JSONLD: jsonLD(ldNewsArticle{
			Context:          "https://schema.org",
			Type:             "NewsArticle",
			Headline:         c.site.Name,
			Description:      description,
			Image:            []string{image},
			Author:           ldThing{Type: "Organization", Name: c.site.Name},
			Publisher:        c.publisher(),
			MainEntityOfPage: ldThing{Type: "WebPage", ID: home},
		}),
	}
}

// jsonLD marshals v for a script block. encoding/json escapes <, > and &,
// so the output can not close the surrounding script element.
func jsonLD(v any) template.JS {
	data, err := json.Marshal(v)
	if err != nil {
		return template.JS("{}")
	}
	return template.JS(data)
}

func render(doc document) ([]byte, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
