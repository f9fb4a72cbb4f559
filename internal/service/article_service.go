package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/levenshtein"
	"github.com/newsroom-api/internal/metrics"
	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/ranking"
	"github.com/newsroom-api/internal/repository"
	"github.com/newsroom-api/internal/slug"
	"github.com/newsroom-api/internal/validation"
)

// maxCreateAttempts bounds how often an insert is retried after losing a
// slug race
const maxCreateAttempts = 5

// articleService is the concrete implementation of ArticleService
type articleService struct {
	repo      repository.ArticleRepository
	validator *validation.Validator
	slugs     slug.Generator
	metrics   *metrics.Metrics
	now       func() time.Time
	log       zerolog.Logger
}

// NewArticleService creates a new ArticleService. m may be nil.
func NewArticleService(repo repository.ArticleRepository, m *metrics.Metrics, log zerolog.Logger) ArticleService {
	now := func() time.Time { return time.Now().UTC() }
	return &articleService{
		repo:      repo,
		validator: validation.NewValidator(),
		slugs:     slug.Generator{Now: now},
		metrics:   m,
		now:       now,
		log:       log.With().Str("service", "article").Logger(),
	}
}

// GetBySlug returns the published or unpublished article with the slug.
// Surrounding whitespace and case are ignored.
func (s *articleService) GetBySlug(ctx context.Context, raw string) (*models.Article, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return nil, ErrNotFound
	}

	article, err := s.repo.GetBySlug(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("get article by slug: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// List returns published articles in ranking order
func (s *articleService) List(ctx context.Context, filter models.ListFilter) ([]*models.Article, error) {
	filter.IncludeUnpublished = false
	filter.AuthorID = ""
	return s.list(ctx, filter)
}

// ListForDashboard includes drafts. Authors see their own articles, admins see all.
func (s *articleService) ListForDashboard(ctx context.Context, principal *models.Principal, filter models.ListFilter) ([]*models.Article, error) {
	if principal == nil {
		return nil, ErrForbidden
	}
	filter.IncludeUnpublished = true
	filter.AuthorID = ""
	if !principal.IsAdmin() {
		filter.AuthorID = principal.ID
	}
	return s.list(ctx, filter)
}

func (s *articleService) list(ctx context.Context, filter models.ListFilter) ([]*models.Article, error) {
	articles, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	ranking.Sort(articles)
	return articles, nil
}

// TopRail partitions the first page of the public listing
func (s *articleService) TopRail(ctx context.Context, filter models.ListFilter) (*models.TopRail, error) {
	filter.Offset = 0
	articles, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	rail := ranking.Partition(articles)
	return &rail, nil
}

// Create validates the input, assigns a unique slug and stores the article.
// The unique constraint on slug is authoritative: losing a race to a
// concurrent insert regenerates the slug and retries.
func (s *articleService) Create(ctx context.Context, input *models.ArticleInput, principal *models.Principal) (*models.Article, error) {
	if principal == nil {
		return nil, ErrForbidden
	}
	if errs := s.validator.ValidateCreate(input); len(errs) > 0 {
		return nil, errs
	}

	category, _ := validation.ParseCategory(*input.Category)
	now := s.now()

	article := &models.Article{
		UUID:           uuid.New().String(),
		Title:          strings.TrimSpace(*input.Title),
		Subheading:     optional(input.Subheading),
		Content:        s.validator.SanitizeContent(*input.Content),
		Category:       category,
		CategoryLabels: validation.FilterLabels(input.CategoryLabels),
		IsBreaking:     input.IsBreaking != nil && *input.IsBreaking,
		IsPublished:    input.IsPublished == nil || *input.IsPublished,
		FeaturedImage:  optional(input.FeaturedImage),
		ImageCaption:   optional(input.ImageCaption),
		AuthorName:     principal.Username,
		AuthorID:       principal.ID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if input.Pin != nil && *input.Pin {
		article.PinnedAt = &now
	}
	if input.Priority != nil {
		article.Priority = *input.Priority
	}

	rejected := make(map[string]bool)
	var id int64
	for attempt := 1; ; attempt++ {
		article.Slug = s.slugs.Generate(article.Title, s.slugTaken(ctx, rejected))

		var err error
		id, err = s.repo.Create(ctx, article)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrSlugConflict) {
			return nil, fmt.Errorf("create article: %w", err)
		}

		s.metrics.ObserveSlugConflict()
		s.log.Warn().
			Str("slug", article.Slug).
			Int("attempt", attempt).
			Msg("Slug taken concurrently, regenerating")

		if attempt >= maxCreateAttempts {
			return nil, fmt.Errorf("create article after %d attempts: %w", attempt, err)
		}
		rejected[article.Slug] = true
	}

	stored, err := s.repo.GetByID(ctx, id)
	if err != nil || stored == nil {
		s.log.Error().Err(err).Int64("id", id).Msg("Inserted article could not be read back")
		return nil, fmt.Errorf("%w: id %d", ErrStorageInconsistency, id)
	}

	s.metrics.ObserveArticleWrite("create")
	s.log.Info().
		Int64("id", stored.ID).
		Str("slug", stored.Slug).
		Str("author_id", stored.AuthorID).
		Bool("pinned", stored.IsPinned()).
		Msg("Article created")

	return stored, nil
}

// slugTaken reports a candidate as taken if an earlier attempt lost it or
// the table already holds it. Lookup errors count as free, the insert
// constraint catches any collision that slips through.
func (s *articleService) slugTaken(ctx context.Context, rejected map[string]bool) slug.ExistsFunc {
	return func(candidate string) bool {
		if rejected[candidate] {
			return true
		}
		exists, err := s.repo.SlugExists(ctx, candidate)
		if err != nil {
			s.log.Warn().Err(err).Str("slug", candidate).Msg("Slug lookup failed")
			return false
		}
		return exists
	}
}

// Update applies the sent fields to the article identified by numeric id or
// uuid. Slug, uuid, pin, priority and author never change.
func (s *articleService) Update(ctx context.Context, idOrUUID string, input *models.ArticleInput, principal *models.Principal) (*models.Article, error) {
	article, err := s.findByIDOrUUID(ctx, idOrUUID)
	if err != nil {
		return nil, err
	}
	if !principal.CanModify(article) {
		return nil, ErrForbidden
	}
	if errs := s.validator.ValidateUpdate(input); len(errs) > 0 {
		return nil, errs
	}

	if input.Title != nil {
		article.Title = strings.TrimSpace(*input.Title)
	}
	if input.Subheading != nil {
		article.Subheading = optional(input.Subheading)
	}
	if input.Content != nil {
		article.Content = s.validator.SanitizeContent(*input.Content)
	}
	if input.Category != nil {
		article.Category, _ = validation.ParseCategory(*input.Category)
	}
	if input.CategoryLabels != nil {
		article.CategoryLabels = validation.FilterLabels(input.CategoryLabels)
	}
	if input.IsBreaking != nil {
		article.IsBreaking = *input.IsBreaking
	}
	if input.IsPublished != nil {
		article.IsPublished = *input.IsPublished
	}
	if input.FeaturedImage != nil {
		article.FeaturedImage = optional(input.FeaturedImage)
	}
	if input.ImageCaption != nil {
		article.ImageCaption = optional(input.ImageCaption)
	}

	updatedAt := s.now()
	if !updatedAt.After(article.UpdatedAt) {
		updatedAt = article.UpdatedAt.Add(time.Microsecond)
	}
	article.UpdatedAt = updatedAt

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("update article: %w", err)
	}

	stored, err := s.repo.GetByID(ctx, article.ID)
	if err != nil || stored == nil {
		s.log.Error().Err(err).Int64("id", article.ID).Msg("Updated article could not be read back")
		return nil, fmt.Errorf("%w: id %d", ErrStorageInconsistency, article.ID)
	}

	s.metrics.ObserveArticleWrite("update")
	s.log.Info().Int64("id", stored.ID).Str("slug", stored.Slug).Msg("Article updated")

	return stored, nil
}

// Delete removes the article identified by uuid, numeric id or slug
func (s *articleService) Delete(ctx context.Context, identifier string, principal *models.Principal) error {
	article, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return err
	}
	if !principal.CanModify(article) {
		return ErrForbidden
	}

	deleted, err := s.repo.Delete(ctx, article.ID)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}

	s.metrics.ObserveArticleWrite("delete")
	s.log.Info().Int64("id", article.ID).Str("slug", article.Slug).Msg("Article deleted")
	return nil
}

// ResolveClosest reports an exact slug hit or the n nearest stored slugs
func (s *articleService) ResolveClosest(ctx context.Context, raw string, n int) (*models.SlugResolution, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	resolution := &models.SlugResolution{Query: key, Suggestions: []models.SlugMatch{}}

	article, err := s.repo.GetBySlug(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("resolve slug: %w", err)
	}
	if article != nil {
		public := article.Public()
		resolution.Exact = true
		resolution.Article = &public
		return resolution, nil
	}

	slugs, err := s.repo.AllSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve slug: %w", err)
	}
	for _, m := range levenshtein.Closest(key, slugs, n) {
		resolution.Suggestions = append(resolution.Suggestions, models.SlugMatch{Slug: m.Value, Distance: m.Distance})
	}
	return resolution, nil
}

// Stats counts articles per category. Every category is present.
func (s *articleService) Stats(ctx context.Context) (*models.Stats, error) {
	counts, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("count articles: %w", err)
	}

	stats := &models.Stats{ByCategory: make(map[models.Category]int, len(models.Categories))}
	for _, c := range models.Categories {
		stats.ByCategory[c] = counts[c]
		stats.Total += counts[c]
	}
	return stats, nil
}

func (s *articleService) findByIDOrUUID(ctx context.Context, identifier string) (*models.Article, error) {
	identifier = strings.TrimSpace(identifier)

	var (
		article *models.Article
		err     error
	)
	if parsed, perr := uuid.Parse(identifier); perr == nil {
		article, err = s.repo.GetByUUID(ctx, parsed.String())
	} else if id, perr := strconv.ParseInt(identifier, 10, 64); perr == nil {
		article, err = s.repo.GetByID(ctx, id)
	} else {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("find article: %w", err)
	}
	if article == nil {
		return nil, ErrNotFound
	}
	return article, nil
}

// findByIdentifier extends findByIDOrUUID with a slug lookup, also tried
// when a numeric identifier matches no id
func (s *articleService) findByIdentifier(ctx context.Context, identifier string) (*models.Article, error) {
	article, err := s.findByIDOrUUID(ctx, identifier)
	if !errors.Is(err, ErrNotFound) {
		return article, err
	}
	return s.GetBySlug(ctx, identifier)
}

// optional trims s and maps empty to nil
func optional(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
