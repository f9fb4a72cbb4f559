package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/newsroom-api/internal/models"
	"github.com/newsroom-api/internal/repository"
)

// flushEvery is how many records are written between flushes
const flushEvery = 100

// exportService is the concrete implementation of ExportService
type exportService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(repos *repository.Repositories, log zerolog.Logger) *exportService {
	return &exportService{
		repos: repos,
		log:   log.With().Str("service", "export").Logger(),
	}
}

// NewExportService creates an ExportService over the given repositories
func NewExportService(repos *repository.Repositories, log zerolog.Logger) ExportService {
	return newExportService(repos, log)
}

// StreamArticles streams every article, drafts included, in ranking order
func (s *exportService) StreamArticles(ctx context.Context, w http.ResponseWriter, format string) error {
	switch format {
	case "", "ndjson":
		return s.streamNDJSON(ctx, w)
	case "json":
		return s.streamJSON(ctx, w)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func (s *exportService) streamNDJSON(ctx context.Context, w http.ResponseWriter) error {
	s.log.Info().Str("format", "ndjson").Msg("Starting articles export")

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.ndjson")

	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)
	count := 0

	err := s.repos.Article.StreamAll(ctx, func(article *models.Article) error {
		if err := enc.Encode(article); err != nil {
			return err
		}
		count++

		if count%flushEvery == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Int("count", count).Msg("Articles export completed")
	return err
}

func (s *exportService) streamJSON(ctx context.Context, w http.ResponseWriter) error {
	s.log.Info().Str("format", "json").Msg("Starting articles export")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=articles.json")

	if _, err := w.Write([]byte("[")); err != nil {
		return err
	}
	first := true
	count := 0

	err := s.repos.Article.StreamAll(ctx, func(article *models.Article) error {
		if !first {
			if _, err := w.Write([]byte(",")); err != nil {
				return err
			}
		}
		first = false

		data, err := json.Marshal(article)
		if err != nil {
			return err
		}
		count++
		_, err = w.Write(data)
		return err
	})

	w.Write([]byte("]"))
	s.log.Info().Int("count", count).Msg("Articles export completed")
	return err
}
