package mocks

import (
	"context"
	"net/http"

	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/service"
)

// MockArticleService is a mock implementation of ArticleService.
// Unset funcs return zero values.
type MockArticleService struct {
	GetBySlugFunc        func(ctx context.Context, slug string) (*models.Article, error)
	ListFunc             func(ctx context.Context, filter models.ListFilter) ([]*models.Article, error)
	ListForDashboardFunc func(ctx context.Context, principal *models.Principal, filter models.ListFilter) ([]*models.Article, error)
	CreateFunc           func(ctx context.Context, input *models.ArticleInput, principal *models.Principal) (*models.Article, error)
	UpdateFunc           func(ctx context.Context, idOrUUID string, input *models.ArticleInput, principal *models.Principal) (*models.Article, error)
	DeleteFunc           func(ctx context.Context, identifier string, principal *models.Principal) error
	TopRailFunc          func(ctx context.Context, filter models.ListFilter) (*models.TopRail, error)
	ResolveClosestFunc   func(ctx context.Context, slug string, n int) (*models.SlugResolution, error)
	StatsFunc            func(ctx context.Context) (*models.Stats, error)

	GetBySlugCalls int
	LastFilter     models.ListFilter
}

// Verify interface compliance
var _ service.ArticleService = (*MockArticleService)(nil)

func NewMockArticleService() *MockArticleService {
	return &MockArticleService{}
}

func (m *MockArticleService) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.GetBySlugCalls++
	if m.GetBySlugFunc != nil {
		return m.GetBySlugFunc(ctx, slug)
	}
	return nil, service.ErrNotFound
}

func (m *MockArticleService) List(ctx context.Context, filter models.ListFilter) ([]*models.Article, error) {
	m.LastFilter = filter
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return []*models.Article{}, nil
}

func (m *MockArticleService) ListForDashboard(ctx context.Context, principal *models.Principal, filter models.ListFilter) ([]*models.Article, error) {
	m.LastFilter = filter
	if m.ListForDashboardFunc != nil {
		return m.ListForDashboardFunc(ctx, principal, filter)
	}
	return []*models.Article{}, nil
}

func (m *MockArticleService) Create(ctx context.Context, input *models.ArticleInput, principal *models.Principal) (*models.Article, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, input, principal)
	}
	return &models.Article{ID: 1, Slug: "test-article", AuthorID: principal.ID}, nil
}

func (m *MockArticleService) Update(ctx context.Context, idOrUUID string, input *models.ArticleInput, principal *models.Principal) (*models.Article, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, idOrUUID, input, principal)
	}
	return nil, service.ErrNotFound
}

func (m *MockArticleService) Delete(ctx context.Context, identifier string, principal *models.Principal) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, identifier, principal)
	}
	return nil
}

func (m *MockArticleService) TopRail(ctx context.Context, filter models.ListFilter) (*models.TopRail, error) {
	m.LastFilter = filter
	if m.TopRailFunc != nil {
		return m.TopRailFunc(ctx, filter)
	}
	return &models.TopRail{Secondary: []models.PublicArticle{}, More: []models.PublicArticle{}}, nil
}

func (m *MockArticleService) ResolveClosest(ctx context.Context, slug string, n int) (*models.SlugResolution, error) {
	if m.ResolveClosestFunc != nil {
		return m.ResolveClosestFunc(ctx, slug, n)
	}
	return &models.SlugResolution{Query: slug, Suggestions: []models.SlugMatch{}}, nil
}

func (m *MockArticleService) Stats(ctx context.Context) (*models.Stats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &models.Stats{ByCategory: map[models.Category]int{}}, nil
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	StreamArticlesFunc func(ctx context.Context, w http.ResponseWriter, format string) error
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	if m.StreamArticlesFunc != nil {
		return m.StreamArticlesFunc(ctx, w, format)
	}
	return nil
}
