package orchestrators

import (
	"context"
	"log/slog"

	"redconnect/internal/domain/certificate"
)

// IssueCertificateInput carries the organizer's issue form.
type IssueCertificateInput struct {
	Form certificate.IssueForm
}

// IssueCertificateDeps holds dependencies for IssueCertificate.
type IssueCertificateDeps struct {
	API CertificateAPI
}

// ExecuteIssueCertificate validates the form and issues the certificate.
// PRE: deps.API is authenticated as an organizer
// POST: On validation failure no network call is made
func ExecuteIssueCertificate(ctx context.Context, input IssueCertificateInput, deps IssueCertificateDeps) (certificate.Certificate, error) {
	if err := input.Form.Validate(); err != nil {
		return certificate.Certificate{}, err
	}
	cert, err := deps.API.IssueCertificate(ctx, input.Form.Payload())
	if err != nil {
		return certificate.Certificate{}, err
	}
	slog.Info("certificate_event", "event", "issued", "certificate_id", cert.ID, "donation_id", cert.DonationID)
	return cert, nil
}
