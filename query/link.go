package query

import (
	"context"
	"sort"

	"github.com/right-track/core/model"
	"github.com/right-track/core/store"
)

func (l *Layer) links(ctx context.Context) ([]model.Link, error) {
	m := l.memoFor(readerLinks)
	return memoGet(m, "__all__", func() ([]model.Link, error) {
		rows, err := l.store.Select(ctx, store.Links())
		if err != nil {
			return nil, storeErr(store.QNameLinks, err)
		}
		out := make([]model.Link, 0, len(rows))
		for _, row := range rows {
			out = append(out, model.Link{
				CategoryTitle: row.String("link_category_title"),
				Title:         row.String("link_title"),
				Description:   row.String("link_description"),
				URL:           row.String("link_url"),
			})
		}
		return out, nil
	})
}

// GetLinks returns every Link.
func (l *Layer) GetLinks(ctx context.Context) ([]model.Link, error) {
	return l.links(ctx)
}

// GetLinkCategories returns the distinct category titles, sorted.
func (l *Layer) GetLinkCategories(ctx context.Context) ([]string, error) {
	all, err := l.links(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []string
	for _, link := range all {
		if seen[link.CategoryTitle] {
			continue
		}
		seen[link.CategoryTitle] = true
		out = append(out, link.CategoryTitle)
	}
	sort.Strings(out)
	return out, nil
}

// GetLinksByCategory returns the Links under category.
func (l *Layer) GetLinksByCategory(ctx context.Context, category string) ([]model.Link, error) {
	all, err := l.links(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Link
	for _, link := range all {
		if link.CategoryTitle == category {
			out = append(out, link)
		}
	}
	return out, nil
}
