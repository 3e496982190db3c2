package query

import (
	"context"

	"github.com/right-track/core/model"
	"github.com/right-track/core/store"
)

// GetDirections returns every known Direction.
func (l *Layer) GetDirections(ctx context.Context) ([]model.Direction, error) {
	m := l.memoFor(readerDirections)
	return memoGet(m, "__all__", func() ([]model.Direction, error) {
		rows, err := l.store.Select(ctx, store.Directions())
		if err != nil {
			return nil, storeErr(store.QNameDirections, err)
		}
		out := make([]model.Direction, 0, len(rows))
		for _, row := range rows {
			out = append(out, model.Direction{
				ID:          row.String("direction_id"),
				Description: row.String("description"),
			})
		}
		return out, nil
	})
}

// GetDirection returns a single Direction by id.
func (l *Layer) GetDirection(ctx context.Context, id string) (model.Direction, error) {
	all, err := l.GetDirections(ctx)
	if err != nil {
		return model.Direction{}, err
	}
	for _, d := range all {
		if d.ID == id {
			return d, nil
		}
	}
	return model.Direction{}, missingRow(ctx, "direction", id)
}
