package api

import (
	"context"
	"net/http"
	"net/url"

	"redconnect/internal/domain/bloodbank"
)

// BloodBankQuery holds optional directory filters.
type BloodBankQuery struct {
	Filter   bloodbank.Filter
	City     string
	Category string
	Page     Page
}

// BloodBanks lists directory entries matching q.
func (c *Client) BloodBanks(ctx context.Context, q BloodBankQuery) ([]bloodbank.BloodBank, error) {
	params := q.Filter.ServerParams()
	if q.City != "" {
		params.Set("city", q.City)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	q.Page.apply(params)
	var banks []bloodbank.BloodBank
	err := c.do(ctx, "get blood banks", http.MethodGet, "/api/blood-banks/", params, nil, &banks)
	return banks, err
}

// BloodBankStates lists the states that have at least one blood bank.
func (c *Client) BloodBankStates(ctx context.Context) ([]string, error) {
	var resp struct {
		States []string `json:"states"`
	}
	err := c.do(ctx, "get states", http.MethodGet, "/api/blood-banks/states/list", nil, nil, &resp)
	return resp.States, err
}

// BloodBankCities lists the cities of state that have blood banks.
func (c *Client) BloodBankCities(ctx context.Context, state string) ([]string, error) {
	var resp struct {
		Cities []string `json:"cities"`
	}
	err := c.do(ctx, "get cities", http.MethodGet, "/api/blood-banks/cities/"+url.PathEscape(state), nil, nil, &resp)
	return resp.Cities, err
}
