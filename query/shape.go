package query

import (
	"context"
	"sort"

	"github.com/right-track/core/model"
	"github.com/right-track/core/store"
)

func (l *Layer) shapesByID(ctx context.Context) (map[string][]model.Shape, error) {
	m := l.memoFor(readerShapes)
	return memoGet(m, "__all__", func() (map[string][]model.Shape, error) {
		rows, err := l.store.Select(ctx, store.Shapes())
		if err != nil {
			return nil, storeErr(store.QNameShapes, err)
		}
		out := make(map[string][]model.Shape)
		for _, row := range rows {
			id := row.String("shape_id")
			out[id] = append(out[id], model.Shape{
				ID:           id,
				Lat:          row.Float64("shape_pt_lat"),
				Lon:          row.Float64("shape_pt_lon"),
				Sequence:     uint32(row.Int("shape_pt_sequence")),
				DistTraveled: row.Float64("shape_dist_traveled"),
			})
		}
		for id := range out {
			pts := out[id]
			sort.Slice(pts, func(i, j int) bool { return pts[i].Sequence < pts[j].Sequence })
			out[id] = pts
		}
		return out, nil
	})
}

// GetShape returns the sequence-sorted points of a single shape.
func (l *Layer) GetShape(ctx context.Context, id string) ([]model.Shape, error) {
	all, err := l.shapesByID(ctx)
	if err != nil {
		return nil, err
	}
	pts, ok := all[id]
	if !ok {
		return nil, missingRow(ctx, "shape", id)
	}
	return pts, nil
}

// GetShapes returns every shape's points, keyed by shape id.
func (l *Layer) GetShapes(ctx context.Context) (map[string][]model.Shape, error) {
	return l.shapesByID(ctx)
}

// GetShapeRoutes returns the Routes whose trips reference shapeID.
func (l *Layer) GetShapeRoutes(ctx context.Context, shapeID string) ([]model.Route, error) {
	trips, err := l.tripTemplates(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	var out []model.Route
	for _, t := range trips {
		if t.ShapeID != shapeID || seen[t.Route.ID] {
			continue
		}
		seen[t.Route.ID] = true
		out = append(out, t.Route)
	}
	return out, nil
}

// GetShapeCenter returns the mean lat/lon of shapeID's points.
func (l *Layer) GetShapeCenter(ctx context.Context, shapeID string) (lat, lon float64, err error) {
	pts, err := l.GetShape(ctx, shapeID)
	if err != nil {
		return 0, 0, err
	}
	for _, p := range pts {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(pts))
	return lat / n, lon / n, nil
}
