package service

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/metrics"
	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/repository"
)

// Sentinel errors mapped to HTTP statuses by the api package
var (
	ErrNotFound             = errors.New("article not found")
	ErrForbidden            = errors.New("not allowed to modify this article")
	ErrStorageInconsistency = errors.New("article was written but could not be read back")
	ErrUnsupportedFormat    = errors.New("unsupported export format")
)

// ArticleService defines the interface for article operations
type ArticleService interface {
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Article, error)
	ListForDashboard(ctx context.Context, principal *models.Principal, filter models.ListFilter) ([]*models.Article, error)
	Create(ctx context.Context, input *models.ArticleInput, principal *models.Principal) (*models.Article, error)
	Update(ctx context.Context, idOrUUID string, input *models.ArticleInput, principal *models.Principal) (*models.Article, error)
	Delete(ctx context.Context, identifier string, principal *models.Principal) error
	TopRail(ctx context.Context, filter models.ListFilter) (*models.TopRail, error)
	ResolveClosest(ctx context.Context, slug string, n int) (*models.SlugResolution, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

// ExportService defines the interface for export operations
type ExportService interface {
	StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error
}

// Services holds all service interfaces
type Services struct {
	Article ArticleService
	Export  ExportService
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, m *metrics.Metrics, log zerolog.Logger) *Services {
	return &Services{
		Article: NewArticleService(repos.Article, m, log),
		Export:  newExportService(repos, log),
	}
}
