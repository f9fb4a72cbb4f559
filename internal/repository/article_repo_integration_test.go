//go:build integration

package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/newsroom-api/internal/database"
	"github.com/newsroom-api/internal/models"
)

type ArticleRepoIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *database.DB
	repo      ArticleRepository
}

func (s *ArticleRepoIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("newsroom_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	conn, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = database.Wrap(conn, zerolog.Nop())

	state, err := s.db.RunMigrations(migrationsPath)
	s.Require().NoError(err)
	s.Equal(uint(1), state.Version)

	s.repo = NewArticleRepo(s.db)
}

func (s *ArticleRepoIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *ArticleRepoIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM articles")
}

func TestArticleRepoIntegrationSuite(t *testing.T) {
	suite.Run(t, new(ArticleRepoIntegrationSuite))
}

func (s *ArticleRepoIntegrationSuite) newArticle(slug string, created time.Time) *models.Article {
	return &models.Article{
		UUID:           uuid.NewString(),
		Slug:           slug,
		Title:          "Title " + slug,
		Content:        "<p>body</p>",
		Category:       models.CategoryNews,
		CategoryLabels: []string{"exclusive"},
		IsPublished:    true,
		AuthorName:     "Reporter",
		AuthorID:       "author-1",
		CreatedAt:      created,
		UpdatedAt:      created,
	}
}

func (s *ArticleRepoIntegrationSuite) TestCreateAndGet() {
	now := time.Now().UTC().Truncate(time.Microsecond)
	article := s.newArticle("hello-world", now)

	id, err := s.repo.Create(s.ctx, article)
	s.Require().NoError(err)
	s.Greater(id, int64(0))

	stored, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal("hello-world", stored.Slug)
	s.Equal([]string{"exclusive"}, []string(stored.CategoryLabels))
	s.True(stored.CreatedAt.Equal(now))

	bySlug, err := s.repo.GetBySlug(s.ctx, "Hello-World")
	s.Require().NoError(err)
	s.Require().NotNil(bySlug)
	s.Equal(id, bySlug.ID)

	byUUID, err := s.repo.GetByUUID(s.ctx, article.UUID)
	s.Require().NoError(err)
	s.Require().NotNil(byUUID)
	s.Equal(id, byUUID.ID)
}

func (s *ArticleRepoIntegrationSuite) TestGetMissingReturnsNil() {
	article, err := s.repo.GetBySlug(s.ctx, "nope")
	s.NoError(err)
	s.Nil(article)
}

func (s *ArticleRepoIntegrationSuite) TestCreate_SlugConflict() {
	now := time.Now().UTC()
	_, err := s.repo.Create(s.ctx, s.newArticle("taken", now))
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, s.newArticle("taken", now))
	s.True(errors.Is(err, ErrSlugConflict), "got %v", err)
}

func (s *ArticleRepoIntegrationSuite) TestList_RankingOrder() {
	base := time.Now().UTC().Truncate(time.Second)
	pinA := base.Add(10 * time.Minute)
	pinC := base.Add(20 * time.Minute)

	a := s.newArticle("a", base)
	a.PinnedAt = &pinA
	b := s.newArticle("b", base)
	b.Priority = 9
	b.IsBreaking = true
	c := s.newArticle("c", base)
	c.PinnedAt = &pinC
	draft := s.newArticle("draft", base.Add(time.Hour))
	draft.IsPublished = false

	for _, article := range []*models.Article{a, b, c, draft} {
		_, err := s.repo.Create(s.ctx, article)
		s.Require().NoError(err)
	}

	list, err := s.repo.List(s.ctx, models.ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("c", list[0].Slug)
	s.Equal("a", list[1].Slug)
	s.Equal("b", list[2].Slug)

	breaking := true
	list, err = s.repo.List(s.ctx, models.ListFilter{IsBreaking: &breaking})
	s.Require().NoError(err)
	s.Len(list, 1)

	list, err = s.repo.List(s.ctx, models.ListFilter{IncludeUnpublished: true, AuthorID: "author-1"})
	s.Require().NoError(err)
	s.Len(list, 4)
}

func (s *ArticleRepoIntegrationSuite) TestUpdateAndDelete() {
	now := time.Now().UTC()
	id, err := s.repo.Create(s.ctx, s.newArticle("editable", now))
	s.Require().NoError(err)

	article, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	article.Title = "Edited"
	article.UpdatedAt = now.Add(time.Minute)
	s.Require().NoError(s.repo.Update(s.ctx, article))

	stored, err := s.repo.GetByID(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("Edited", stored.Title)
	s.Equal("editable", stored.Slug)

	deleted, err := s.repo.Delete(s.ctx, id)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.repo.Delete(s.ctx, id)
	s.Require().NoError(err)
	s.False(deleted)
}

func (s *ArticleRepoIntegrationSuite) TestCountsAndSlugs() {
	now := time.Now().UTC()
	_, err := s.repo.Create(s.ctx, s.newArticle("one", now))
	s.Require().NoError(err)
	music := s.newArticle("two", now)
	music.Category = models.CategoryMusic
	_, err = s.repo.Create(s.ctx, music)
	s.Require().NoError(err)

	counts, err := s.repo.CountByCategory(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, counts[models.CategoryNews])
	s.Equal(1, counts[models.CategoryMusic])

	slugs, err := s.repo.AllSlugs(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"one", "two"}, slugs)

	exists, err := s.repo.SlugExists(s.ctx, "one")
	s.Require().NoError(err)
	s.True(exists)
}
