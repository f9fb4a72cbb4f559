package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/newsroom-api/internal/database"
	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/ranking"
)

const articleColumns = `id, uuid, slug, title, subheading, content, category, category_labels,
	is_breaking, is_published, pinned_at, priority, featured_image, image_caption,
	author_name, author_id, created_at, updated_at`

// uniqueViolation is the Postgres SQLSTATE for unique_violation
const uniqueViolation = "23505"

// articleRepo is the concrete implementation of ArticleRepository
type articleRepo struct {
	db *database.DB
}

// NewArticleRepo creates a new article repository
func NewArticleRepo(db *database.DB) ArticleRepository {
	return &articleRepo{db: db}
}

// Create inserts a new article and returns its id.
// A collision on the slug constraint is reported as ErrSlugConflict.
func (r *articleRepo) Create(ctx context.Context, article *models.Article) (int64, error) {
	query := `
		INSERT INTO articles (uuid, slug, title, subheading, content, category, category_labels,
			is_breaking, is_published, pinned_at, priority, featured_image, image_caption,
			author_name, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowxContext(ctx, query,
		article.UUID, article.Slug, article.Title, article.Subheading, article.Content,
		article.Category, article.CategoryLabels, article.IsBreaking, article.IsPublished,
		article.PinnedAt, article.Priority, article.FeaturedImage, article.ImageCaption,
		article.AuthorName, article.AuthorID, article.CreatedAt, article.UpdatedAt,
	).Scan(&id)
	if err != nil {
		if isSlugConflict(err) {
			return 0, ErrSlugConflict
		}
		return 0, fmt.Errorf("insert article: %w", err)
	}
	return id, nil
}

// Update writes the editable columns. Slug, uuid, pin, priority and
// ownership columns are never part of the statement.
func (r *articleRepo) Update(ctx context.Context, article *models.Article) error {
	query := `
		UPDATE articles SET
			title = $1, subheading = $2, content = $3, category = $4, category_labels = $5,
			is_breaking = $6, is_published = $7, featured_image = $8, image_caption = $9,
			updated_at = $10
		WHERE id = $11
	`
	_, err := r.db.ExecContext(ctx, query,
		article.Title, article.Subheading, article.Content, article.Category, article.CategoryLabels,
		article.IsBreaking, article.IsPublished, article.FeaturedImage, article.ImageCaption,
		article.UpdatedAt, article.ID,
	)
	if err != nil {
		return fmt.Errorf("update article %d: %w", article.ID, err)
	}
	return nil
}

// Delete removes an article by id and reports whether a row was removed
func (r *articleRepo) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return false, fmt.Errorf("delete article %d: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

// GetByID retrieves an article by numeric id
func (r *articleRepo) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	return r.getOne(ctx, "id = $1", id)
}

// GetByUUID retrieves an article by its external uuid
func (r *articleRepo) GetByUUID(ctx context.Context, uuid string) (*models.Article, error) {
	return r.getOne(ctx, "uuid = $1", uuid)
}

// GetBySlug retrieves an article by slug. Slugs are stored lowercase, so
// the argument is lowercased before comparison.
func (r *articleRepo) GetBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.getOne(ctx, "slug = $1", strings.ToLower(slug))
}

func (r *articleRepo) getOne(ctx context.Context, where string, arg interface{}) (*models.Article, error) {
	query := "SELECT " + articleColumns + " FROM articles WHERE " + where

	var article models.Article
	err := r.db.GetContext(ctx, &article, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get article: %w", err)
	}
	return &article, nil
}

// SlugExists checks if an article with the given slug exists
func (r *articleRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM articles WHERE slug = $1)", strings.ToLower(slug)).Scan(&exists)
	return exists, err
}

// List returns articles matching the filter in ranking order
func (r *articleRepo) List(ctx context.Context, filter models.ListFilter) ([]*models.Article, error) {
	var (
		conds []string
		args  []interface{}
	)
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if !filter.IncludeUnpublished {
		conds = append(conds, "is_published")
	}
	if filter.Category != nil {
		add("category = $%d", *filter.Category)
	}
	if filter.IsBreaking != nil {
		add("is_breaking = $%d", *filter.IsBreaking)
	}
	if filter.AuthorID != "" {
		add("author_id = $%d", filter.AuthorID)
	}

	query := "SELECT " + articleColumns + " FROM articles"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	args = append(args, clampLimit(filter.Limit), max(filter.Offset, 0))
	query += fmt.Sprintf(" ORDER BY %s LIMIT $%d OFFSET $%d", ranking.OrderBy, len(args)-1, len(args))

	articles := []*models.Article{}
	if err := r.db.SelectContext(ctx, &articles, query, args...); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return articles, nil
}

// AllSlugs returns every stored slug, used by the closest-match resolver
func (r *articleRepo) AllSlugs(ctx context.Context) ([]string, error) {
	slugs := []string{}
	if err := r.db.SelectContext(ctx, &slugs, "SELECT slug FROM articles ORDER BY slug"); err != nil {
		return nil, fmt.Errorf("list slugs: %w", err)
	}
	return slugs, nil
}

// CountByCategory returns the number of articles per category
func (r *articleRepo) CountByCategory(ctx context.Context) (map[models.Category]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT category, COUNT(*) FROM articles GROUP BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Category]int)
	for rows.Next() {
		var category models.Category
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}

// StreamAll streams all articles for export in ranking order
func (r *articleRepo) StreamAll(ctx context.Context, callback func(*models.Article) error) error {
	rows, err := r.db.QueryxContext(ctx, "SELECT "+articleColumns+" FROM articles ORDER BY "+ranking.OrderBy)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var article models.Article
		if err := rows.StructScan(&article); err != nil {
			return err
		}
		if err := callback(&article); err != nil {
			return err
		}
	}

	return rows.Err()
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return models.DefaultListLimit
	}
	if limit > models.MaxListLimit {
		return models.MaxListLimit
	}
	return limit
}

func isSlugConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return string(pqErr.Code) == uniqueViolation && pqErr.Constraint == "articles_slug_key"
}
