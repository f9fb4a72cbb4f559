// Package ogimage picks the social preview image for an article.
//
// Candidates are tried in order: the article's featured image, the site
// default image, then a fixed fallback that is never fetched. The first two
// must answer a HEAD request with 200 and an image content type.
package ogimage

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/config"
	"github.com/newsroom-api/internal/metrics"
	"github.com/newsroom-api/internal/models"
)

// Tiers, used as metric labels
const (
	TierArticle = "article"
	TierDefault = "default"
)

// Validation outcomes, used as metric labels
const (
	outcomeValid   = "valid"
	outcomeInvalid = "invalid"
	outcomeError   = "error"
	outcomeCached  = "cached"
)

// shareTransform is the crop applied to /upload/ URLs without one
const shareTransform = "w_1200,h_630,c_fill,f_jpg"

// Options configures a Resolver
type Options struct {
	DefaultImageURL string
	FallbackURL     string // defaults to config.FallbackImageURL
	Timeout         time.Duration
	Transform       bool
	Cache           Cache
	Client          *http.Client
	Metrics         *metrics.Metrics
}

// Resolver picks share images
type Resolver struct {
	client       *http.Client
	defaultImage string
	fallback     string
	timeout      time.Duration
	transform    bool
	cache        Cache
	metrics      *metrics.Metrics
	log          zerolog.Logger
}

// NewResolver creates a Resolver
func NewResolver(opts Options, log zerolog.Logger) *Resolver {
	r := &Resolver{
		client:       opts.Client,
		defaultImage: opts.DefaultImageURL,
		fallback:     opts.FallbackURL,
		timeout:      opts.Timeout,
		transform:    opts.Transform,
		cache:        opts.Cache,
		metrics:      opts.Metrics,
		log:          log.With().Str("component", "ogimage").Logger(),
	}
	if r.client == nil {
		r.client = &http.Client{
			// redirects to an image are followed, the final response is judged
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		}
	}
	if r.fallback == "" {
		r.fallback = config.FallbackImageURL
	}
	if r.timeout <= 0 {
		r.timeout = 2 * time.Second
	}
	if r.cache == nil {
		r.cache = NopCache{}
	}
	return r
}

// FromConfig builds a Resolver from application config
func FromConfig(site config.SiteConfig, og config.OgImageConfig, cache Cache, m *metrics.Metrics, log zerolog.Logger) *Resolver {
	return NewResolver(Options{
		DefaultImageURL: site.DefaultImageURL,
		Timeout:         og.ValidationTimeout,
		Transform:       og.Transform,
		Cache:           cache,
		Metrics:         m,
	}, log)
}

// Fallback returns the last-resort image
func (r *Resolver) Fallback() string {
	return r.fallback
}

// Pick returns an absolute https image URL for the article, which may be nil.
// It never returns an empty string and never panics.
func (r *Resolver) Pick(ctx context.Context, article *models.Article) (picked string) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("Image resolution panicked")
			picked = r.fallback
		}
	}()

	if article != nil && article.FeaturedImage != nil {
		if candidate, ok := r.prepare(*article.FeaturedImage); ok && r.validate(ctx, candidate, TierArticle) {
			return candidate
		}
	}
	if candidate, ok := normalize(r.defaultImage); ok && r.validate(ctx, candidate, TierDefault) {
		return candidate
	}
	return r.fallback
}

func (r *Resolver) prepare(raw string) (string, bool) {
	candidate, ok := normalize(raw)
	if !ok {
		return "", false
	}
	if r.transform {
		candidate = Transform(candidate)
	}
	return candidate, true
}

// validate issues a HEAD request bounded by the resolver timeout. Any
// transport error, including the timeout, counts as invalid.
func (r *Resolver) validate(ctx context.Context, url, tier string) bool {
	if valid, found := r.cache.Get(ctx, url); found {
		r.metrics.ObserveImageValidation(tier, outcomeCached)
		return valid
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		r.metrics.ObserveImageValidation(tier, outcomeInvalid)
		return false
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug().Err(err).Str("url", url).Str("tier", tier).Msg("Image validation failed")
		r.metrics.ObserveImageValidation(tier, outcomeError)
		return false
	}
	resp.Body.Close()

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	valid := resp.StatusCode == http.StatusOK && strings.HasPrefix(contentType, "image/")

	if valid {
		r.metrics.ObserveImageValidation(tier, outcomeValid)
	} else {
		r.log.Debug().
			Str("url", url).
			Str("tier", tier).
			Int("status", resp.StatusCode).
			Str("content_type", contentType).
			Msg("Image rejected")
		r.metrics.ObserveImageValidation(tier, outcomeInvalid)
	}

	r.cache.Set(context.WithoutCancel(ctx), url, valid)
	return valid
}

// normalize trims raw, requires an http(s) scheme and upgrades http to https
func normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	lower := strings.ToLower(raw)

	switch {
	case strings.HasPrefix(lower, "https://"):
		return "https://" + raw[len("https://"):], true
	case strings.HasPrefix(lower, "http://"):
		return "https://" + raw[len("http://"):], true
	default:
		return "", false
	}
}

// Transform inserts the share crop after "/upload/" unless the next path
// segment already carries a width, height, crop or format transform.
// URLs without "/upload/" are returned unchanged.
func Transform(url string) string {
	const marker = "/upload/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return url
	}

	head, rest := url[:idx+len(marker)], url[idx+len(marker):]
	segment, _, _ := strings.Cut(rest, "/")
	if hasTransform(segment) {
		return url
	}
	return head + shareTransform + "/" + rest
}

func hasTransform(segment string) bool {
	for _, part := range strings.Split(segment, ",") {
		for _, prefix := range []string{"w_", "h_", "c_", "f_"} {
			if strings.HasPrefix(part, prefix) {
				return true
			}
		}
	}
	return false
}
