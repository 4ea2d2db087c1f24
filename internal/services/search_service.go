package services

import (
	"aidirectory-backend/internal/database"
	"aidirectory-backend/internal/models"
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

const DefaultSearchLimitPerType = 5

// SearchAll runs the same query against every content type concurrently and
// returns the non-empty groups in display order.
func SearchAll(ctx context.Context, query string, limitPerType int) ([]SearchGroup, error) {
	groups := []SearchGroup{}
	query = strings.TrimSpace(query)
	if query == "" {
		return groups, nil
	}
	if limitPerType <= 0 {
		limitPerType = DefaultSearchLimitPerType
	}

	pages, err := fanOut(ctx, ContentFilter{
		Query:    query,
		Limit:    limitPerType,
		Sort:     SortPopular,
		Statuses: PublicStatuses,
	})
	if err != nil {
		return nil, err
	}

	for i, t := range models.AllContentTypes() {
		if len(pages[i].Items) == 0 {
			continue
		}
		groups = append(groups, SearchGroup{Type: t, Items: pages[i].Items, Total: pages[i].Total})
	}
	return groups, nil
}

// ListPendingContent is the moderation queue across every content type,
// oldest first. Each type is paged independently with the same window.
func ListPendingContent(ctx context.Context, offset, limit int) ([]PendingGroup, error) {
	offset, limit = NormalizePage(offset, limit)
	pages, err := fanOut(ctx, ContentFilter{
		Offset:   offset,
		Limit:    limit,
		Sort:     SortOldest,
		Statuses: []models.ContentStatus{models.ContentStatusPending},
	})
	if err != nil {
		return nil, err
	}

	groups := []PendingGroup{}
	for i, t := range models.AllContentTypes() {
		p := pages[i]
		if p.Total == 0 {
			continue
		}
		groups = append(groups, PendingGroup{
			Type:       t,
			Items:      p.Items,
			Total:      p.Total,
			HasMore:    p.HasMore,
			NextOffset: p.NextOffset,
		})
	}
	return groups, nil
}

func fanOut(ctx context.Context, f ContentFilter) ([]*Page[models.Content], error) {
	types := models.AllContentTypes()
	pages := make([]*Page[models.Content], len(types))

	g, gctx := errgroup.WithContext(ctx)
	for i, t := range types {
		i, t := i, t
		g.Go(func() error {
			page, err := listContent(database.DB.WithContext(gctx), t, f)
			if err != nil {
				return fmt.Errorf("list %s: %w", t, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}
