package query

import (
	"context"

	"github.com/right-track/core/model"
	"github.com/right-track/core/store"
)

// GetAbout returns the database metadata record (rt_about), a single
// row per spec §4.D.
func (l *Layer) GetAbout(ctx context.Context) (model.About, error) {
	m := l.memoFor(readerAbout)
	return memoGet(m, "about", func() (model.About, error) {
		row, ok, err := l.store.Get(ctx, store.About())
		if err != nil {
			return model.About{}, storeErr(store.QNameAbout, err)
		}
		if !ok {
			return model.About{}, nil
		}
		return model.About{
			CompileDate:     row.String("compile_date"),
			GTFSPublishDate: row.String("gtfs_publish_date"),
			StartDate:       row.String("start_date"),
			EndDate:         row.String("end_date"),
			Version:         row.String("version"),
			Notes:           row.String("notes"),
		}, nil
	})
}

func (l *Layer) getAgency(ctx context.Context, id string) (model.Agency, bool, error) {
	m := l.memoFor(readerAgency)
	type result struct {
		agency model.Agency
		ok     bool
	}
	r, err := memoGet(m, id, func() (result, error) {
		row, ok, err := l.store.Get(ctx, store.Agencies(id))
		if err != nil {
			return result{}, storeErr(store.QNameAgencies, err)
		}
		if !ok {
			return result{}, nil
		}
		return result{agency: rowToAgency(row), ok: true}, nil
	})
	return r.agency, r.ok, err
}

func rowToAgency(row store.Row) model.Agency {
	return model.Agency{
		ID:       row.String("agency_id"),
		Name:     row.String("agency_name"),
		URL:      row.String("agency_url"),
		Timezone: row.String("agency_timezone"),
		Lang:     row.String("agency_lang"),
		Phone:    row.String("agency_phone"),
		FareURL:  row.String("agency_fare_url"),
		Email:    row.String("agency_email"),
	}
}
