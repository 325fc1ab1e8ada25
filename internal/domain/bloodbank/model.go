package bloodbank

import (
	"net/url"
	"strings"
)

// PageSize is the fixed number of directory rows per page.
const PageSize = 5

// Filter sentinels meaning "no restriction".
const (
	AllStates = "All States"
	AllTypes  = "All Types"
)

// Categories
const (
	CategoryGovernment = "Government"
	CategoryPrivate    = "Private"
)

// FilterBloodTypes lists the blood type filter options, sentinel first.
var FilterBloodTypes = []string{AllTypes, "A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// BloodBank mirrors one directory entry returned by the server.
type BloodBank struct {
	ID                  int64   `json:"id"`
	Name                string  `json:"name"`
	Address             string  `json:"address"`
	Phone               string  `json:"phone"`
	Email               string  `json:"email"`
	Category            string  `json:"category"`
	City                string  `json:"city"`
	State               string  `json:"state"`
	Pincode             string  `json:"pincode"`
	AvailableBloodTypes string  `json:"available_blood_types"`
	OperatingHours      string  `json:"operating_hours"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
}

// Filter is the directory's state and blood type selection.
type Filter struct {
	State     string
	BloodType string
}

// NewFilter normalises raw selections, mapping blanks to the sentinels.
func NewFilter(state, bloodType string) Filter {
	state = strings.TrimSpace(state)
	bloodType = strings.TrimSpace(bloodType)
	if state == "" {
		state = AllStates
	}
	if bloodType == "" {
		bloodType = AllTypes
	}
	return Filter{State: state, BloodType: bloodType}
}

// Matches applies the client-side re-filter.
// State must match exactly; blood type is a substring of available_blood_types.
// INVARIANT: Filter fields are not mutated
func (f Filter) Matches(b BloodBank) bool {
	stateMatch := f.State == AllStates || f.State == "" || b.State == f.State
	bloodMatch := f.BloodType == AllTypes || f.BloodType == "" || strings.Contains(b.AvailableBloodTypes, f.BloodType)
	return stateMatch && bloodMatch
}

// Apply returns the banks that match, preserving order.
func (f Filter) Apply(banks []BloodBank) []BloodBank {
	out := make([]BloodBank, 0, len(banks))
	for _, b := range banks {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// ServerParams returns the query parameters the server-side filter understands.
// Sentinels are omitted.
func (f Filter) ServerParams() url.Values {
	q := url.Values{}
	if f.State != "" && f.State != AllStates {
		q.Set("state", f.State)
	}
	if f.BloodType != "" && f.BloodType != AllTypes {
		q.Set("blood_type", f.BloodType)
	}
	return q
}

// IsUnfiltered reports whether neither filter is active.
func (f Filter) IsUnfiltered() bool {
	return len(f.ServerParams()) == 0
}
