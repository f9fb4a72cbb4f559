package service_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsroom-api/internal/mocks"
	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/repository"
	"github.com/newsroom-api/internal/service"
	"github.com/newsroom-api/internal/validation"
)

var (
	author = &models.Principal{ID: "author-1", Username: "Jane Reporter", Role: models.RoleAuthor}
	other  = &models.Principal{ID: "author-2", Username: "Sam Other", Role: models.RoleAuthor}
	admin  = &models.Principal{ID: "admin-1", Username: "Editor", Role: models.RoleAdmin}
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func intPtr(i int) *int       { return &i }

func newService() (service.ArticleService, *mocks.MockArticleRepository) {
	repo := mocks.NewMockArticleRepository()
	return service.NewArticleService(repo, nil, zerolog.Nop()), repo
}

func input(title string) *models.ArticleInput {
	return &models.ArticleInput{
		Title:    strPtr(title),
		Content:  strPtr("<p>Story body</p>"),
		Category: strPtr("news"),
	}
}

func TestCreate_SequentialSlugs(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	want := []string{"hello-world", "hello-world-1", "hello-world-2"}
	for _, expected := range want {
		article, err := svc.Create(ctx, input("Hello World"), author)
		require.NoError(t, err)
		assert.Equal(t, expected, article.Slug)
	}
}

func TestCreate_PopulatesArticle(t *testing.T) {
	svc, _ := newService()

	in := input("  Café Opening Night  ")
	in.Content = strPtr(`<p>Hi<script>alert(1)</script></p>`)
	in.Category = strPtr("Latest")
	in.CategoryLabels = []string{"Exclusive", "nonsense", "exclusive"}
	in.Pin = boolPtr(true)
	in.Priority = intPtr(7)
	in.Subheading = strPtr("   ")

	article, err := svc.Create(context.Background(), in, author)
	require.NoError(t, err)

	assert.NotZero(t, article.ID)
	assert.NotEmpty(t, article.UUID)
	assert.Equal(t, "cafe-opening-night", article.Slug)
	assert.Equal(t, "Café Opening Night", article.Title)
	assert.Equal(t, "<p>Hi</p>", article.Content)
	assert.Equal(t, models.CategoryNews, article.Category)
	assert.Equal(t, []string{"exclusive"}, []string(article.CategoryLabels))
	assert.True(t, article.IsPinned())
	assert.Equal(t, 7, article.Priority)
	assert.True(t, article.IsPublished)
	assert.Nil(t, article.Subheading)
	assert.Equal(t, "author-1", article.AuthorID)
	assert.Equal(t, "Jane Reporter", article.AuthorName)
}

func TestCreate_ValidationErrors(t *testing.T) {
	svc, repo := newService()

	_, err := svc.Create(context.Background(), &models.ArticleInput{Title: strPtr("Only a title")}, author)

	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	assert.Len(t, verrs, 2)
	assert.Equal(t, 0, repo.CreateCalls)
}

func TestCreate_RetriesOnConcurrentSlugConflict(t *testing.T) {
	svc, repo := newService()

	calls := 0
	repo.CreateFunc = func(ctx context.Context, a *models.Article) error {
		calls++
		if calls == 1 {
			return repository.ErrSlugConflict
		}
		return nil
	}

	article, err := svc.Create(context.Background(), input("Hello World"), author)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", article.Slug)
	assert.Equal(t, 2, repo.CreateCalls)
}

func TestCreate_GivesUpAfterBoundedAttempts(t *testing.T) {
	svc, repo := newService()
	repo.CreateFunc = func(ctx context.Context, a *models.Article) error {
		return repository.ErrSlugConflict
	}

	_, err := svc.Create(context.Background(), input("Hello World"), author)
	assert.ErrorIs(t, err, repository.ErrSlugConflict)
	assert.Equal(t, 5, repo.CreateCalls)
}

func TestCreate_SlugLookupFailureFallsBackToConstraint(t *testing.T) {
	svc, repo := newService()
	repo.Seed(&models.Article{Slug: "hello-world", IsPublished: true})
	repo.SlugExistsError = errors.New("connection reset")

	article, err := svc.Create(context.Background(), input("Hello World"), author)
	require.NoError(t, err)
	assert.Equal(t, "hello-world-1", article.Slug)
}

func TestCreate_ReadBackFailure(t *testing.T) {
	svc, repo := newService()
	repo.GetByIDFunc = func(ctx context.Context, id int64) (*models.Article, error) {
		return nil, nil
	}

	_, err := svc.Create(context.Background(), input("Ghost"), author)
	assert.ErrorIs(t, err, service.ErrStorageInconsistency)
}

func TestGetBySlug_CaseInsensitive(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, input("Hello World"), author)
	require.NoError(t, err)

	for _, key := range []string{"Hello-World", "HELLO-WORLD", "  hello-world  "} {
		got, err := svc.GetBySlug(ctx, key)
		require.NoError(t, err, key)
		assert.Equal(t, created.ID, got.ID, key)
	}

	_, err = svc.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, service.ErrNotFound)
	_, err = svc.GetBySlug(ctx, "   ")
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	in := input("Original Title")
	in.Pin = boolPtr(true)
	in.Priority = intPtr(3)
	created, err := svc.Create(ctx, in, author)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, strconv.FormatInt(created.ID, 10), &models.ArticleInput{
		Title:       strPtr("A Completely New Title"),
		IsPublished: boolPtr(false),
	}, author)
	require.NoError(t, err)

	assert.Equal(t, "A Completely New Title", updated.Title)
	assert.False(t, updated.IsPublished)
	assert.Equal(t, created.Slug, updated.Slug)
	assert.Equal(t, created.UUID, updated.UUID)
	assert.Equal(t, 3, updated.Priority)
	assert.True(t, updated.IsPinned())
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	byUUID, err := svc.Update(ctx, created.UUID, &models.ArticleInput{Category: strPtr("music")}, admin)
	require.NoError(t, err)
	assert.Equal(t, models.CategoryMusic, byUUID.Category)
}

func TestUpdate_Errors(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, input("Owned"), author)
	require.NoError(t, err)
	id := strconv.FormatInt(created.ID, 10)

	_, err = svc.Update(ctx, id, &models.ArticleInput{Title: strPtr("Hijack")}, other)
	assert.ErrorIs(t, err, service.ErrForbidden)

	_, err = svc.Update(ctx, id, &models.ArticleInput{Pin: boolPtr(true)}, author)
	var verrs validation.Errors
	assert.True(t, errors.As(err, &verrs))

	_, err = svc.Update(ctx, "999", &models.ArticleInput{}, author)
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = svc.Update(ctx, "not-an-id", &models.ArticleInput{}, author)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestDelete_ByEveryIdentifier(t *testing.T) {
	svc, repo := newService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, input("First"), author)
	b, _ := svc.Create(ctx, input("Second"), author)
	c, _ := svc.Create(ctx, input("Third"), author)

	require.NoError(t, svc.Delete(ctx, a.UUID, author))
	require.NoError(t, svc.Delete(ctx, strconv.FormatInt(b.ID, 10), author))
	require.NoError(t, svc.Delete(ctx, "THIRD", admin))

	assert.Empty(t, repo.Articles)
	assert.ErrorIs(t, svc.Delete(ctx, c.Slug, author), service.ErrNotFound)
}

func TestDelete_Forbidden(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	a, _ := svc.Create(ctx, input("Mine"), author)
	assert.ErrorIs(t, svc.Delete(ctx, a.Slug, other), service.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, a.Slug, nil), service.ErrForbidden)
}

func TestDelete_NumericSlug(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	a, err := svc.Create(ctx, input("2024"), author)
	require.NoError(t, err)
	require.Equal(t, "2024", a.Slug)

	assert.NoError(t, svc.Delete(ctx, "2024", author))
}

func TestListVisibility(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, _ = svc.Create(ctx, input("Public"), author)
	draft := input("Draft")
	draft.IsPublished = boolPtr(false)
	_, _ = svc.Create(ctx, draft, author)
	othersDraft := input("Other Draft")
	othersDraft.IsPublished = boolPtr(false)
	_, _ = svc.Create(ctx, othersDraft, other)

	public, err := svc.List(ctx, models.ListFilter{IncludeUnpublished: true})
	require.NoError(t, err)
	assert.Len(t, public, 1)

	mine, err := svc.ListForDashboard(ctx, author, models.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := svc.ListForDashboard(ctx, admin, models.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = svc.ListForDashboard(ctx, nil, models.ListFilter{})
	assert.ErrorIs(t, err, service.ErrForbidden)
}

func TestList_RankingOrder(t *testing.T) {
	svc, repo := newService()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	pinA := base.Add(10 * time.Minute)
	pinC := base.Add(20 * time.Minute)

	repo.Seed(
		&models.Article{Slug: "a", PinnedAt: &pinA, IsPublished: true, CreatedAt: base},
		&models.Article{Slug: "b", Priority: 9, IsBreaking: true, IsPublished: true, CreatedAt: base},
		&models.Article{Slug: "c", PinnedAt: &pinC, IsPublished: true, CreatedAt: base},
	)

	list, err := svc.List(context.Background(), models.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].Slug)
	assert.Equal(t, "a", list[1].Slug)
	assert.Equal(t, "b", list[2].Slug)
}

func TestTopRail(t *testing.T) {
	svc, repo := newService()
	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 6; i++ {
		repo.Seed(&models.Article{
			Slug:        fmt.Sprintf("story-%d", i),
			Category:    models.CategoryComedy,
			IsPublished: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}

	rail, err := svc.TopRail(context.Background(), models.ListFilter{})
	require.NoError(t, err)
	require.NotNil(t, rail.Lead)
	assert.Equal(t, "story-5", rail.Lead.Slug)
	assert.Len(t, rail.Secondary, 3)
	assert.Len(t, rail.More, 2)
}

func TestResolveClosest(t *testing.T) {
	svc, repo := newService()
	repo.Seed(
		&models.Article{Slug: "hello-world"},
		&models.Article{Slug: "hello-word"},
		&models.Article{Slug: "goodbye"},
	)
	ctx := context.Background()

	exact, err := svc.ResolveClosest(ctx, "Hello-World", 3)
	require.NoError(t, err)
	assert.True(t, exact.Exact)
	require.NotNil(t, exact.Article)
	assert.Equal(t, "hello-world", exact.Article.Slug)

	fuzzy, err := svc.ResolveClosest(ctx, "hello-wrld", 2)
	require.NoError(t, err)
	assert.False(t, fuzzy.Exact)
	require.Len(t, fuzzy.Suggestions, 2)
	assert.Equal(t, models.SlugMatch{Slug: "hello-world", Distance: 1}, fuzzy.Suggestions[0])
	assert.Equal(t, models.SlugMatch{Slug: "hello-word", Distance: 2}, fuzzy.Suggestions[1])
}

func TestStats(t *testing.T) {
	svc, repo := newService()
	repo.Seed(
		&models.Article{Slug: "a", Category: models.CategoryNews},
		&models.Article{Slug: "b", Category: models.CategoryNews},
		&models.Article{Slug: "c", Category: models.CategoryMusic},
	)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.ByCategory[models.CategoryNews])
	assert.Equal(t, 0, stats.ByCategory[models.CategoryComedy])
	assert.Len(t, stats.ByCategory, len(models.Categories))
}
