package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/right-track/core/store"
)

func TestGetLinksAndCategories(t *testing.T) {
	s := store.NewMemoryStore()
	s.Load("rt_links", []store.Row{
		{"link_category_title": "Schedules", "link_title": "Weekday", "link_url": "http://example.com/weekday"},
		{"link_category_title": "Schedules", "link_title": "Weekend", "link_url": "http://example.com/weekend"},
		{"link_category_title": "Alerts", "link_title": "Service Status", "link_url": "http://example.com/status"},
	})

	l := newTestLayer(s)

	links, err := l.GetLinks(context.Background())
	require.NoError(t, err)
	assert.Len(t, links, 3)

	cats, err := l.GetLinkCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Alerts", "Schedules"}, cats)

	byCat, err := l.GetLinksByCategory(context.Background(), "Schedules")
	require.NoError(t, err)
	assert.Len(t, byCat, 2)
}

func TestGetLinksByCategoryEmptyForUnknown(t *testing.T) {
	s := store.NewMemoryStore()
	l := newTestLayer(s)

	byCat, err := l.GetLinksByCategory(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, byCat)
}
