package projections

import (
	"context"
	"log/slog"
	"sync"

	"redconnect/internal/adapters/api"
	"redconnect/internal/application/listutil"
	"redconnect/internal/domain/bloodbank"
)

// BloodBanksQuery carries the directory filter and requested page.
type BloodBanksQuery struct {
	Filter bloodbank.Filter
	Page   int
}

// BloodBankRow is one displayed row with its serial number across pages.
type BloodBankRow struct {
	SerialNo int
	bloodbank.BloodBank
}

// BloodBanksResult carries one page of the directory and the filter options.
type BloodBanksResult struct {
	Rows       []BloodBankRow
	PageInfo   listutil.PageInfo
	Filter     bloodbank.Filter
	States     []string // "All States" first
	BloodTypes []string // "All Types" first
}

// BloodBanksDeps holds dependencies for QueryBloodBanks.
type BloodBanksDeps struct {
	API DirectoryAPI
}

// QueryBloodBanks fetches the directory with the server-side filter, re-applies the
// same filter locally and slices out the requested page of five.
// A failing state list degrades to "All States" only.
// POST: Result options are populated even when the directory fetch fails
func QueryBloodBanks(ctx context.Context, query BloodBanksQuery, deps BloodBanksDeps) (BloodBanksResult, error) {
	var (
		wg       sync.WaitGroup
		banks    []bloodbank.BloodBank
		banksErr error
		states   []string
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		banks, banksErr = deps.API.BloodBanks(ctx, api.BloodBankQuery{Filter: query.Filter})
	}()
	go func() {
		defer wg.Done()
		var err error
		if states, err = deps.API.BloodBankStates(ctx); err != nil {
			slog.Warn("directory_event", "event", "states_unavailable", "error", err)
			states = nil
		}
	}()
	wg.Wait()

	res := BloodBanksResult{
		Filter:     query.Filter,
		States:     append([]string{bloodbank.AllStates}, states...),
		BloodTypes: bloodbank.FilterBloodTypes,
	}
	if banksErr != nil {
		res.PageInfo = listutil.NewPageInfo(1, bloodbank.PageSize, 0)
		return res, banksErr
	}

	page, info := listutil.Paginate(query.Filter.Apply(banks), query.Page, bloodbank.PageSize)
	res.PageInfo = info
	res.Rows = make([]BloodBankRow, len(page))
	for i, b := range page {
		res.Rows[i] = BloodBankRow{SerialNo: info.StartRow() + i, BloodBank: b}
	}
	return res, nil
}
