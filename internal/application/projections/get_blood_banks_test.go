package projections

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"redconnect/internal/domain/bloodbank"
)

func directory(n int) []bloodbank.BloodBank {
	out := make([]bloodbank.BloodBank, n)
	for i := range out {
		out[i] = bloodbank.BloodBank{ID: int64(i + 1), Name: fmt.Sprintf("Bank %d", i+1), State: "Goa", AvailableBloodTypes: "A+, O+"}
	}
	return out
}

// TestQueryBloodBanks_LastPage verifies 12 banks give a third page of 2 rows.
func TestQueryBloodBanks_LastPage(t *testing.T) {
	fake := &fakeAPI{banks: directory(12), states: []string{"Goa"}}
	res, err := QueryBloodBanks(context.Background(), BloodBanksQuery{Filter: bloodbank.NewFilter("", ""), Page: 3}, BloodBanksDeps{API: fake})
	if err != nil {
		t.Fatalf("QueryBloodBanks: %v", err)
	}
	if len(res.Rows) != 2 || res.PageInfo.TotalPages != 3 {
		t.Fatalf("rows=%d pages=%d", len(res.Rows), res.PageInfo.TotalPages)
	}
	if res.Rows[0].SerialNo != 11 || res.Rows[1].SerialNo != 12 {
		t.Errorf("serials = %d, %d", res.Rows[0].SerialNo, res.Rows[1].SerialNo)
	}
	if res.States[0] != bloodbank.AllStates || res.States[1] != "Goa" {
		t.Errorf("states = %v", res.States)
	}
}

// TestQueryBloodBanks_ClientRefilter verifies rows the server should have excluded are dropped.
func TestQueryBloodBanks_ClientRefilter(t *testing.T) {
	fake := &fakeAPI{banks: []bloodbank.BloodBank{
		{ID: 1, State: "Goa", AvailableBloodTypes: "AB-"},
		{ID: 2, State: "Goa", AvailableBloodTypes: "O+"},
	}}
	res, err := QueryBloodBanks(context.Background(), BloodBanksQuery{Filter: bloodbank.NewFilter(bloodbank.AllStates, "AB-"), Page: 1}, BloodBanksDeps{API: fake})
	if err != nil {
		t.Fatalf("QueryBloodBanks: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].ID != 1 {
		t.Errorf("rows = %+v", res.Rows)
	}
	if fake.bankQuery.Filter.BloodType != "AB-" {
		t.Errorf("expected server filter to be sent, got %+v", fake.bankQuery)
	}
}

// TestQueryBloodBanks_StatesFailure verifies the state list degrades to the sentinel.
func TestQueryBloodBanks_StatesFailure(t *testing.T) {
	fake := &fakeAPI{banks: directory(1), statesErr: errBoom}
	res, err := QueryBloodBanks(context.Background(), BloodBanksQuery{Filter: bloodbank.NewFilter("", ""), Page: 1}, BloodBanksDeps{API: fake})
	if err != nil {
		t.Fatalf("QueryBloodBanks: %v", err)
	}
	if len(res.States) != 1 || res.States[0] != bloodbank.AllStates {
		t.Errorf("states = %v", res.States)
	}
	if len(res.Rows) != 1 {
		t.Errorf("rows = %d", len(res.Rows))
	}
}

// TestQueryBloodBanks_DirectoryFailure verifies options survive a failed directory fetch.
func TestQueryBloodBanks_DirectoryFailure(t *testing.T) {
	fake := &fakeAPI{banksErr: errBoom, states: []string{"Kerala"}}
	res, err := QueryBloodBanks(context.Background(), BloodBanksQuery{Filter: bloodbank.NewFilter("", ""), Page: 1}, BloodBanksDeps{API: fake})
	if !errors.Is(err, errBoom) {
		t.Errorf("expected errBoom, got %v", err)
	}
	if len(res.States) != 2 || len(res.BloodTypes) != 9 || len(res.Rows) != 0 {
		t.Errorf("unexpected result %+v", res)
	}
}
