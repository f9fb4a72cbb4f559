// Package ranking defines the order articles appear in on public listings.
//
// Keys, all descending: pinned before unpinned, most recent pin, priority,
// breaking before regular, newest creation. Id breaks any remaining tie so
// the order is total.
package ranking

import (
	"sort"

	"github.com/newsroom-api/internal/models"
)

// OrderBy is the SQL equivalent of Less for the articles table
const OrderBy = "(pinned_at IS NOT NULL) DESC, pinned_at DESC NULLS LAST, priority DESC, is_breaking DESC, created_at DESC, id DESC"

// Less reports whether a ranks ahead of b
func Less(a, b *models.Article) bool {
	if a.IsPinned() != b.IsPinned() {
		return a.IsPinned()
	}
	if a.IsPinned() && !a.PinnedAt.Equal(*b.PinnedAt) {
		return a.PinnedAt.After(*b.PinnedAt)
	}
	if a.Priority != b.Priority {
		return a.Priority > b.Priority
	}
	if a.IsBreaking != b.IsBreaking {
		return a.IsBreaking
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Sort orders articles in place by Less. Equal elements keep their input order.
func Sort(articles []*models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return Less(articles[i], articles[j])
	})
}

// Partition splits an already ranked slice into the front-page rail:
// rank 0 is the lead, ranks 1-3 are secondary, the rest are more.
func Partition(ranked []*models.Article) models.TopRail {
	rail := models.TopRail{
		Secondary: []models.PublicArticle{},
		More:      []models.PublicArticle{},
	}
	for i, a := range ranked {
		p := a.Public()
		switch {
		case i == 0:
			rail.Lead = &p
		case i <= 3:
			rail.Secondary = append(rail.Secondary, p)
		default:
			rail.More = append(rail.More, p)
		}
	}
	return rail
}
