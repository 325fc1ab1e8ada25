package certificate

import (
	"errors"
	"strconv"
	"strings"

	"redconnect/internal/domain/donation"
	"redconnect/internal/domain/formcheck"
)

// Status constants
const (
	StatusPending = "pending"
	StatusIssued  = "issued"
	StatusRevoked = "revoked"
)

// Domain errors
var (
	ErrMissingRequired = errors.New("please fill in blood units, blood type and issued by")
	ErrInvalidUnits    = errors.New("blood units must be a positive number")
	ErrNoDonation      = errors.New("select a completed donation first")
)

// Certificate mirrors a donation certificate record.
type Certificate struct {
	ID                int64   `json:"id"`
	DonationID        int64   `json:"donation_id"`
	DonorID           int64   `json:"donor_id"`
	CertificateNumber string  `json:"certificate_number"`
	IssueDate         string  `json:"issue_date"`
	BloodUnits        float64 `json:"blood_units"`
	BloodType         string  `json:"blood_type"`
	Status            string  `json:"status"`
	CertificateURL    string  `json:"certificate_url"`
	IssuedBy          string  `json:"issued_by"`
	Notes             string  `json:"notes"`
}

// Downloadable reports whether a file link is available.
func (c Certificate) Downloadable() bool {
	return strings.TrimSpace(c.CertificateURL) != ""
}

// AwaitingCertificate returns completed donations that have no certificate yet.
// POST: Result order follows donations
func AwaitingCertificate(donations []donation.Donation, certs []Certificate) []donation.Donation {
	issued := make(map[int64]struct{}, len(certs))
	for _, c := range certs {
		issued[c.DonationID] = struct{}{}
	}
	var out []donation.Donation
	for _, d := range donations {
		if !d.IsCompleted() {
			continue
		}
		if _, ok := issued[d.ID]; ok {
			continue
		}
		out = append(out, d)
	}
	return out
}

// IssueForm is the organizer's certificate issue form.
type IssueForm struct {
	DonationID string
	BloodUnits string `validate:"required"`
	BloodType  string `validate:"required"`
	IssuedBy   string `validate:"required"`
	Notes      string
}

// Validate checks required fields and that units parse as a positive number.
func (f IssueForm) Validate() error {
	if _, err := f.donationID(); err != nil {
		return ErrNoDonation
	}
	if err := formcheck.Check(f, formcheck.Rule{Tag: "required", Err: ErrMissingRequired}); err != nil {
		return err
	}
	if _, err := f.units(); err != nil {
		return ErrInvalidUnits
	}
	return nil
}

func (f IssueForm) donationID() (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(f.DonationID), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNoDonation
	}
	return id, nil
}

func (f IssueForm) units() (float64, error) {
	u, err := strconv.ParseFloat(strings.TrimSpace(f.BloodUnits), 64)
	if err != nil || u <= 0 {
		return 0, ErrInvalidUnits
	}
	return u, nil
}

// Payload builds the issue request body.
// PRE: Validate returned nil
func (f IssueForm) Payload() map[string]any {
	id, _ := f.donationID()
	units, _ := f.units()
	return map[string]any{
		"donation_id": id,
		"blood_units": units,
		"blood_type":  strings.TrimSpace(f.BloodType),
		"issued_by":   strings.TrimSpace(f.IssuedBy),
		"notes":       formcheck.Blank(f.Notes),
	}
}
