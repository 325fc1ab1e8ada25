package donation

import "strings"

// Status constants as the server emits them.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Donation mirrors one donation record.
type Donation struct {
	ID             int64   `json:"id"`
	DonorID        int64   `json:"donor_id"`
	EventID        *int64  `json:"event_id"`
	DonationDate   string  `json:"donation_date"`
	BloodType      string  `json:"blood_type"`
	Units          float64 `json:"units"`
	Status         string  `json:"status"`
	Location       string  `json:"location"`
	Notes          string  `json:"notes"`
	CertificateURL string  `json:"certificate_url"`
	CreatedAt      string  `json:"created_at"`
}

// IsCompleted reports whether the donation is completed. Status case varies between
// server versions, so the comparison is case-insensitive.
func (d Donation) IsCompleted() bool {
	return strings.EqualFold(strings.TrimSpace(d.Status), StatusCompleted)
}

// Completed returns only the completed donations, preserving order.
func Completed(ds []Donation) []Donation {
	out := make([]Donation, 0, len(ds))
	for _, d := range ds {
		if d.IsCompleted() {
			out = append(out, d)
		}
	}
	return out
}

// TotalUnits sums units over completed donations.
func TotalUnits(ds []Donation) float64 {
	var total float64
	for _, d := range ds {
		if d.IsCompleted() {
			total += d.Units
		}
	}
	return total
}
