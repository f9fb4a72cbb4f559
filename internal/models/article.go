package models

import (
	"time"

	"github.com/newsroom-api/internal/database"
)

// Category is the closed set of sections an article can belong to
type Category string

const (
	CategoryNews          Category = "news"
	CategoryMusic         Category = "music"
	CategoryDocumentaries Category = "documentaries"
	CategoryComedy        Category = "comedy"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategoryNews,
	CategoryMusic,
	CategoryDocumentaries,
	CategoryComedy,
}

// Article represents an article in the system
type Article struct {
	ID             int64                `json:"id" db:"id"`
	UUID           string               `json:"uuid" db:"uuid"`
	Slug           string               `json:"slug" db:"slug"`
	Title          string               `json:"title" db:"title"`
	Subheading     *string              `json:"subheading,omitempty" db:"subheading"`
	Content        string               `json:"content" db:"content"`
	Category       Category             `json:"category" db:"category"`
	CategoryLabels database.StringSlice `json:"category_labels" db:"category_labels"`
	IsBreaking     bool                 `json:"is_breaking" db:"is_breaking"`
	IsPublished    bool                 `json:"is_published" db:"is_published"`
	PinnedAt       *time.Time           `json:"pinned_at,omitempty" db:"pinned_at"`
	Priority       int                  `json:"priority" db:"priority"`
	FeaturedImage  *string              `json:"featured_image,omitempty" db:"featured_image"`
	ImageCaption   *string              `json:"image_caption,omitempty" db:"image_caption"`
	AuthorName     string               `json:"author_name" db:"author_name"`
	AuthorID       string               `json:"author_id" db:"author_id"`
	CreatedAt      time.Time            `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at" db:"updated_at"`
}

// IsPinned reports whether the article carries a pin timestamp
func (a *Article) IsPinned() bool {
	return a.PinnedAt != nil
}

// PublicArticle is the projection served on unauthenticated routes
type PublicArticle struct {
	UUID           string     `json:"uuid"`
	Slug           string     `json:"slug"`
	Title          string     `json:"title"`
	Subheading     *string    `json:"subheading,omitempty"`
	Content        string     `json:"content"`
	Category       Category   `json:"category"`
	CategoryLabels []string   `json:"category_labels"`
	IsBreaking     bool       `json:"is_breaking"`
	IsPinned       bool       `json:"is_pinned"`
	PinnedAt       *time.Time `json:"pinned_at,omitempty"`
	Priority       int        `json:"priority"`
	FeaturedImage  *string    `json:"featured_image,omitempty"`
	ImageCaption   *string    `json:"image_caption,omitempty"`
	AuthorName     string     `json:"author_name"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Public strips internal identifiers from the article
func (a *Article) Public() PublicArticle {
	labels := []string(a.CategoryLabels)
	if labels == nil {
		labels = []string{}
	}
	return PublicArticle{
		UUID:           a.UUID,
		Slug:           a.Slug,
		Title:          a.Title,
		Subheading:     a.Subheading,
		Content:        a.Content,
		Category:       a.Category,
		CategoryLabels: labels,
		IsBreaking:     a.IsBreaking,
		IsPinned:       a.IsPinned(),
		PinnedAt:       a.PinnedAt,
		Priority:       a.Priority,
		FeaturedImage:  a.FeaturedImage,
		ImageCaption:   a.ImageCaption,
		AuthorName:     a.AuthorName,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

// ArticleInput carries the writable fields of a create or update request.
// Pointer fields distinguish "not sent" from zero values on update.
type ArticleInput struct {
	Title          *string  `json:"title"`
	Subheading     *string  `json:"subheading"`
	Content        *string  `json:"content"`
	Category       *string  `json:"category"`
	CategoryLabels []string `json:"category_labels"`
	IsBreaking     *bool    `json:"is_breaking"`
	IsPublished    *bool    `json:"is_published"`
	Pin            *bool    `json:"pin"`
	Priority       *int     `json:"priority"`
	FeaturedImage  *string  `json:"featured_image"`
	ImageCaption   *string  `json:"image_caption"`
}

// ListFilter narrows an article listing
type ListFilter struct {
	Category           *Category
	IsBreaking         *bool
	Limit              int
	Offset             int
	IncludeUnpublished bool
	AuthorID           string // empty means any author
}

// Default and maximum page sizes for listings
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// TopRail partitions a ranked listing for the front page
type TopRail struct {
	Lead      *PublicArticle  `json:"lead"`
	Secondary []PublicArticle `json:"secondary"`
	More      []PublicArticle `json:"more"`
}

// SlugMatch is returned by the debug resolver
type SlugMatch struct {
	Slug     string `json:"slug"`
	Distance int    `json:"distance"`
}

// SlugResolution is the debug view of a slug lookup: an exact hit, or the
// nearest stored slugs when there is none
type SlugResolution struct {
	Query       string         `json:"query"`
	Exact       bool           `json:"exact"`
	Article     *PublicArticle `json:"article,omitempty"`
	Suggestions []SlugMatch    `json:"suggestions"`
}

// Stats summarizes stored articles
type Stats struct {
	Total      int              `json:"total"`
	ByCategory map[Category]int `json:"by_category"`
}
