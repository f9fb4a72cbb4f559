package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/ranking"
	"github.com/newsroom-api/internal/repository"
)

// Verify interface compliance
var _ repository.ArticleRepository = (*MockArticleRepository)(nil)

// MockArticleRepository is an in-memory implementation of ArticleRepository.
// It enforces slug uniqueness the way the database constraint does.
type MockArticleRepository struct {
	mu       sync.Mutex
	Articles map[int64]*models.Article
	nextID   int64

	// CreateFunc, when set, runs before the insert. Returning an error aborts it.
	CreateFunc func(ctx context.Context, article *models.Article) error
	// GetByIDFunc, when set, replaces the id lookup
	GetByIDFunc func(ctx context.Context, id int64) (*models.Article, error)

	SlugExistsError error
	ListError       error
	CreateCalls     int
}

func NewMockArticleRepository() *MockArticleRepository {
	return &MockArticleRepository{
		Articles: make(map[int64]*models.Article),
	}
}

// Seed stores articles as-is, assigning ids to those without one
func (m *MockArticleRepository) Seed(articles ...*models.Article) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range articles {
		if a.ID == 0 {
			m.nextID++
			a.ID = m.nextID
		} else if a.ID > m.nextID {
			m.nextID = a.ID
		}
		stored := *a
		m.Articles[a.ID] = &stored
	}
}

func (m *MockArticleRepository) Create(ctx context.Context, article *models.Article) (int64, error) {
	m.mu.Lock()
	m.CreateCalls++
	hook := m.CreateFunc
	m.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, article); err != nil {
			return 0, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bySlug(article.Slug) != nil {
		return 0, repository.ErrSlugConflict
	}
	m.nextID++
	stored := *article
	stored.ID = m.nextID
	m.Articles[stored.ID] = &stored
	return stored.ID, nil
}

func (m *MockArticleRepository) Update(ctx context.Context, article *models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.Articles[article.ID]
	if !ok {
		return nil
	}
	updated := *existing
	updated.Title = article.Title
	updated.Subheading = article.Subheading
	updated.Content = article.Content
	updated.Category = article.Category
	updated.CategoryLabels = article.CategoryLabels
	updated.IsBreaking = article.IsBreaking
	updated.IsPublished = article.IsPublished
	updated.FeaturedImage = article.FeaturedImage
	updated.ImageCaption = article.ImageCaption
	updated.UpdatedAt = article.UpdatedAt
	m.Articles[article.ID] = &updated
	return nil
}

func (m *MockArticleRepository) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Articles[id]
	delete(m.Articles, id)
	return ok, nil
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.Articles[id]), nil
}

func (m *MockArticleRepository) GetByUUID(ctx context.Context, uuid string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.Articles {
		if a.UUID == uuid {
			return clone(a), nil
		}
	}
	return nil, nil
}

func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.bySlug(slug)), nil
}

func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.SlugExistsError != nil {
		return false, m.SlugExistsError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bySlug(slug) != nil, nil
}

func (m *MockArticleRepository) List(ctx context.Context, filter models.ListFilter) ([]*models.Article, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	m.mu.Lock()
	var matched []*models.Article
	for _, a := range m.Articles {
		if !filter.IncludeUnpublished && !a.IsPublished {
			continue
		}
		if filter.Category != nil && a.Category != *filter.Category {
			continue
		}
		if filter.IsBreaking != nil && a.IsBreaking != *filter.IsBreaking {
			continue
		}
		if filter.AuthorID != "" && a.AuthorID != filter.AuthorID {
			continue
		}
		matched = append(matched, clone(a))
	}
	m.mu.Unlock()

	ranking.Sort(matched)

	limit := filter.Limit
	if limit <= 0 {
		limit = models.DefaultListLimit
	}
	if limit > models.MaxListLimit {
		limit = models.MaxListLimit
	}
	if filter.Offset >= len(matched) {
		return []*models.Article{}, nil
	}
	matched = matched[max(filter.Offset, 0):]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *MockArticleRepository) AllSlugs(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slugs := make([]string, 0, len(m.Articles))
	for _, a := range m.Articles {
		slugs = append(slugs, a.Slug)
	}
	return slugs, nil
}

func (m *MockArticleRepository) CountByCategory(ctx context.Context) (map[models.Category]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[models.Category]int)
	for _, a := range m.Articles {
		counts[a.Category]++
	}
	return counts, nil
}

func (m *MockArticleRepository) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	m.mu.Lock()
	all := make([]*models.Article, 0, len(m.Articles))
	for _, a := range m.Articles {
		all = append(all, clone(a))
	}
	m.mu.Unlock()

	ranking.Sort(all)
	for _, article := range all {
		if err := callback(article); err != nil {
			return err
		}
	}
	return nil
}

// bySlug must be called with mu held
func (m *MockArticleRepository) bySlug(slug string) *models.Article {
	slug = strings.ToLower(slug)
	for _, a := range m.Articles {
		if a.Slug == slug {
			return a
		}
	}
	return nil
}

func clone(a *models.Article) *models.Article {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}
