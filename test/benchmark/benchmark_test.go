package benchmark

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/config"
	"github.com/newsroom-api/internal/mocks"
	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/repository"
	"github.com/newsroom-api/internal/service"
	"github.com/newsroom-api/internal/social"
	"github.com/newsroom-api/internal/validation"
)

func strPtr(s string) *string { return &s }

func seededRepo(n int) *mocks.MockArticleRepository {
	repo := mocks.NewMockArticleRepository()
	now := time.Now()
	for i := 0; i < n; i++ {
		repo.Seed(&models.Article{
			UUID:        fmt.Sprintf("550e8400-e29b-41d4-a716-%012d", i),
			Slug:        fmt.Sprintf("article-%06d", i),
			Title:       fmt.Sprintf("Article %d", i),
			Content:     "<p>Body text for the benchmark article.</p>",
			Category:    models.Categories[i%len(models.Categories)],
			IsPublished: true,
			Priority:    i % 7,
			AuthorName:  "Bench Writer",
			AuthorID:    "author-1",
			CreatedAt:   now.Add(-time.Duration(i) * time.Minute),
			UpdatedAt:   now,
		})
	}
	return repo
}

type fixedPicker struct{}

func (fixedPicker) Pick(context.Context, *models.Article) string { return config.FallbackImageURL }

// BenchmarkStreamArticles benchmarks the NDJSON export over 1000 rows
func BenchmarkStreamArticles(b *testing.B) {
	repos := &repository.Repositories{Article: seededRepo(1000)}
	export := service.NewExportService(repos, zerolog.Nop())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		if err := export.StreamArticles(context.Background(), w, "ndjson"); err != nil {
			b.Fatal(err)
		}
	}

	b.ReportMetric(float64(1000*b.N)/b.Elapsed().Seconds(), "rows/sec")
}

// BenchmarkCreateArticle benchmarks validation, slug allocation and insert
func BenchmarkCreateArticle(b *testing.B) {
	repo := mocks.NewMockArticleRepository()
	articles := service.NewArticleService(repo, nil, zerolog.Nop())
	author := &models.Principal{ID: "author-1", Username: "bench", Role: models.RoleAuthor}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		input := &models.ArticleInput{
			Title:    strPtr(fmt.Sprintf("Breaking story number %d", i)),
			Content:  strPtr("<p>Body</p>"),
			Category: strPtr("news"),
		}
		if _, err := articles.Create(context.Background(), input, author); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkListRanked benchmarks a ranked first page out of 1000 rows
func BenchmarkListRanked(b *testing.B) {
	articles := service.NewArticleService(seededRepo(1000), nil, zerolog.Nop())

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := articles.List(context.Background(), models.ListFilter{Limit: models.DefaultListLimit}); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkValidation benchmarks the full create validation pipeline
func BenchmarkValidation(b *testing.B) {
	validator := validation.NewValidator()

	input := &models.ArticleInput{
		Title:          strPtr("Festival line-up announced"),
		Content:        strPtr("<p>The line-up is here.</p><script>alert(1)</script>"),
		Category:       strPtr("Latest"),
		CategoryLabels: []string{"Review", "live", "unknown"},
		FeaturedImage:  strPtr("https://img.example.com/a.jpg"),
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		validator.ValidateCreate(input)
		validator.SanitizeContent(*input.Content)
	}
}

// BenchmarkComposeParallel benchmarks crawler documents under concurrent load
func BenchmarkComposeParallel(b *testing.B) {
	articles := service.NewArticleService(seededRepo(100), nil, zerolog.Nop())
	site := config.SiteConfig{Name: "Newsroom", BaseURL: "https://www.example.com", LogoURL: config.FallbackImageURL}
	composer := social.NewComposer(site, articles, fixedPicker{}, config.FallbackImageURL, zerolog.Nop())

	b.ResetTimer()
	b.ReportAllocs()

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			composer.Compose(context.Background(), fmt.Sprintf("article-%06d", i%100))
			i++
		}
	})
}
