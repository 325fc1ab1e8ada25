package api

import (
	"context"
	"net/http"
	"net/url"

	"redconnect/internal/domain/certificate"
)

// Certificates lists all certificates visible to the caller.
func (c *Client) Certificates(ctx context.Context, page Page) ([]certificate.Certificate, error) {
	q := url.Values{}
	page.apply(q)
	var certs []certificate.Certificate
	err := c.do(ctx, "fetch certificates", http.MethodGet, "/api/certificates/", q, nil, &certs)
	return certs, err
}

// MyCertificates lists the authenticated donor's certificates.
func (c *Client) MyCertificates(ctx context.Context) ([]certificate.Certificate, error) {
	var certs []certificate.Certificate
	err := c.do(ctx, "fetch certificates", http.MethodGet, "/api/certificates/my-certificates", nil, nil, &certs)
	return certs, err
}

// IssueCertificate issues a certificate for a completed donation.
func (c *Client) IssueCertificate(ctx context.Context, payload map[string]any) (certificate.Certificate, error) {
	var cert certificate.Certificate
	err := c.do(ctx, "issue certificate", http.MethodPost, "/api/certificates/", nil, payload, &cert)
	return cert, err
}
