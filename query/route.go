package query

import (
	"context"
	"sort"
	"strings"

	"github.com/right-track/core/model"
	"github.com/right-track/core/store"
)

// GetRoute returns a single Route by id. The Route refers to its
// agency only through AgencyID; the Agency record is not loaded.
func (l *Layer) GetRoute(ctx context.Context, id string) (model.Route, error) {
	m := l.memoFor(readerRoute)
	return memoGet(m, id, func() (model.Route, error) {
		row, ok, err := l.store.Get(ctx, store.Routes(id))
		if err != nil {
			return model.Route{}, storeErr(store.QNameRoutes, err)
		}
		if !ok {
			return model.Route{}, missingRow(ctx, "route", id)
		}
		return rowToRoute(row), nil
	})
}

// GetRoutesByID returns the Routes matching ids, in no particular
// order — getRoute([ids]) in spec §4.D.
func (l *Layer) GetRoutesByID(ctx context.Context, ids []string) ([]model.Route, error) {
	out := make([]model.Route, 0, len(ids))
	for _, id := range ids {
		r, err := l.GetRoute(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// GetRoutes returns every Route, sorted by long name.
func (l *Layer) GetRoutes(ctx context.Context) ([]model.Route, error) {
	m := l.memoFor(readerRoutes)
	return memoGet(m, "all", func() ([]model.Route, error) {
		rows, err := l.store.Select(ctx, store.Routes())
		if err != nil {
			return nil, storeErr(store.QNameRoutes, err)
		}
		routes := make([]model.Route, 0, len(rows))
		for _, row := range rows {
			routes = append(routes, rowToRoute(row))
		}
		sort.Slice(routes, func(i, j int) bool {
			return strings.ToLower(routes[i].LongName) < strings.ToLower(routes[j].LongName)
		})
		return routes, nil
	})
}

func rowToRoute(row store.Row) model.Route {
	return model.Route{
		ID:        row.String("route_id"),
		AgencyID:  row.String("agency_id"),
		ShortName: row.String("route_short_name"),
		LongName:  row.String("route_long_name"),
		Desc:      row.String("route_desc"),
		Type:      model.RouteType(row.Int("route_type")),
		URL:       row.String("route_url"),
		Color:     row.String("route_color"),
		TextColor: row.String("route_text_color"),
		SortOrder: row.Int("route_sort_order"),
	}
}
