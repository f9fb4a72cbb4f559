package validation

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"

	"github.com/newsroom-api/internal/models"
)

// Field limits
const (
	MaxTitleLength      = 300
	MaxSubheadingLength = 500
	MaxCaptionLength    = 500
	MaxContentLength    = 200_000
	MinPriority         = -100
	MaxPriority         = 100
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Errors is a non-empty list of field errors returned as a single error
type Errors []ValidationError

func (e Errors) Error() string {
	parts := lo.Map(e, func(v ValidationError, _ int) string {
		return v.Field + ": " + v.Message
	})
	return "validation failed: " + strings.Join(parts, "; ")
}

// categoryAliases maps every accepted spelling (lowercased) to its category
var categoryAliases = map[string]models.Category{
	"news":          models.CategoryNews,
	"latest":        models.CategoryNews,
	"headlines":     models.CategoryNews,
	"music":         models.CategoryMusic,
	"songs":         models.CategoryMusic,
	"documentaries": models.CategoryDocumentaries,
	"documentary":   models.CategoryDocumentaries,
	"docs":          models.CategoryDocumentaries,
	"docu":          models.CategoryDocumentaries,
	"comedy":        models.CategoryComedy,
	"comedies":      models.CategoryComedy,
	"funny":         models.CategoryComedy,
}

// ParseCategory maps a user-supplied category name or alias to a Category.
// Matching ignores case and surrounding whitespace.
func ParseCategory(s string) (models.Category, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", Errors{{
		Field:   "category",
		Message: "invalid category, must be one of: news, music, documentaries, comedy",
		Value:   s,
	}}
}

// AllowedLabels is the fixed label vocabulary
var AllowedLabels = []string{
	"analysis", "behind-the-scenes", "exclusive", "explainer", "feature",
	"interview", "live", "local", "opinion", "podcast", "premiere",
	"review", "trending", "video", "world",
}

var allowedLabelSet = lo.SliceToMap(AllowedLabels, func(l string) (string, struct{}) {
	return l, struct{}{}
})

// FilterLabels lowercases labels, drops anything outside AllowedLabels and
// removes duplicates, keeping first-seen order. It never fails.
func FilterLabels(labels []string) []string {
	normalized := lo.Map(labels, func(l string, _ int) string {
		return strings.ToLower(strings.TrimSpace(l))
	})
	kept := lo.Filter(normalized, func(l string, _ int) bool {
		_, ok := allowedLabelSet[l]
		return ok
	})
	return lo.Uniq(kept)
}

// Validator checks and cleans article input
type Validator struct {
	policy *bluemonday.Policy
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{policy: bluemonday.UGCPolicy()}
}

// SanitizeContent strips unsafe markup from rich text
func (v *Validator) SanitizeContent(content string) string {
	return strings.TrimSpace(v.policy.Sanitize(content))
}

// ValidateCreate validates a create request. Title, content and category are required.
func (v *Validator) ValidateCreate(in *models.ArticleInput) Errors {
	var errors Errors

	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	}
	if in.Content == nil || strings.TrimSpace(*in.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content is required"})
	}
	if in.Category == nil {
		errors = append(errors, ValidationError{Field: "category", Message: "category is required"})
	}

	return append(errors, v.validateFields(in)...)
}

// ValidateUpdate validates an update request. Fields that are sent must be valid.
func (v *Validator) ValidateUpdate(in *models.ArticleInput) Errors {
	var errors Errors

	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title must not be empty"})
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		errors = append(errors, ValidationError{Field: "content", Message: "content must not be empty"})
	}
	if in.Pin != nil {
		errors = append(errors, ValidationError{Field: "pin", Message: "pin can only be set at creation"})
	}
	if in.Priority != nil {
		errors = append(errors, ValidationError{Field: "priority", Message: "priority can only be set at creation"})
	}

	return append(errors, v.validateFields(in)...)
}

func (v *Validator) validateFields(in *models.ArticleInput) Errors {
	var errors Errors

	if in.Title != nil && len(*in.Title) > MaxTitleLength {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title exceeds %d characters", MaxTitleLength),
		})
	}
	if in.Subheading != nil && len(*in.Subheading) > MaxSubheadingLength {
		errors = append(errors, ValidationError{
			Field:   "subheading",
			Message: fmt.Sprintf("subheading exceeds %d characters", MaxSubheadingLength),
		})
	}
	if in.Content != nil && len(*in.Content) > MaxContentLength {
		errors = append(errors, ValidationError{
			Field:   "content",
			Message: fmt.Sprintf("content exceeds %d characters", MaxContentLength),
		})
	}
	if in.ImageCaption != nil && len(*in.ImageCaption) > MaxCaptionLength {
		errors = append(errors, ValidationError{
			Field:   "image_caption",
			Message: fmt.Sprintf("image_caption exceeds %d characters", MaxCaptionLength),
		})
	}
	if in.Category != nil {
		if _, err := ParseCategory(*in.Category); err != nil {
			errors = append(errors, err.(Errors)...)
		}
	}
	if in.Priority != nil && (*in.Priority < MinPriority || *in.Priority > MaxPriority) {
		errors = append(errors, ValidationError{
			Field:   "priority",
			Message: fmt.Sprintf("priority must be between %d and %d", MinPriority, MaxPriority),
			Value:   *in.Priority,
		})
	}
	if in.FeaturedImage != nil && *in.FeaturedImage != "" && !isAbsoluteHTTPURL(*in.FeaturedImage) {
		errors = append(errors, ValidationError{
			Field:   "featured_image",
			Message: "featured_image must be an absolute http(s) URL",
			Value:   *in.FeaturedImage,
		})
	}

	return errors
}

func isAbsoluteHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
