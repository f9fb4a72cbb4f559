package repository

import (
	"context"
	"errors"

	"github.com/newsroom-api/internal/database"
	"github.com/newsroom-api/internal/models"
)

// ErrSlugConflict is returned when an insert collides with an existing slug
var ErrSlugConflict = errors.New("repository: slug already exists")

// ArticleRepository defines the interface for article data operations.
// Lookups return (nil, nil) when no row matches.
type ArticleRepository interface {
	Create(ctx context.Context, article *models.Article) (int64, error)
	Update(ctx context.Context, article *models.Article) error
	Delete(ctx context.Context, id int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	GetByUUID(ctx context.Context, uuid string) (*models.Article, error)
	GetBySlug(ctx context.Context, slug string) (*models.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter models.ListFilter) ([]*models.Article, error)
	AllSlugs(ctx context.Context) ([]string, error)
	CountByCategory(ctx context.Context) (map[models.Category]int, error)
	StreamAll(ctx context.Context, callback func(*models.Article) error) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Article ArticleRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Article: NewArticleRepo(db),
	}
}
