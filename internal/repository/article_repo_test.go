package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"

	"github.com/newsroom-api/internal/models"
)

func TestIsSlugConflict(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"slug constraint", &pq.Error{Code: "23505", Constraint: "articles_slug_key"}, true},
		{"wrapped", fmt.Errorf("insert: %w", &pq.Error{Code: "23505", Constraint: "articles_slug_key"}), true},
		{"uuid constraint", &pq.Error{Code: "23505", Constraint: "articles_uuid_key"}, false},
		{"check violation", &pq.Error{Code: "23514", Constraint: "articles_slug_key"}, false},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSlugConflict(tt.err); got != tt.want {
				t.Errorf("isSlugConflict() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{0, models.DefaultListLimit},
		{-5, models.DefaultListLimit},
		{10, 10},
		{models.MaxListLimit + 1, models.MaxListLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
