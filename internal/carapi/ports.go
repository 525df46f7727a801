// Package carapi defines the contract with the remote showroom API:
// the ports consumed by the edit view, the wire payloads, and the
// mapping from the nested API response to the flat edit form.
package carapi

import "context"

// Ports for the remote installment API.
type (
	// InstallmentReader loads one installment record.
	InstallmentReader interface {
		FetchInstallment(ctx context.Context, id string) (RecordPayload, error)
	}

	// InstallmentWriter replaces the financing terms of one record.
	InstallmentWriter interface {
		UpdateInstallment(ctx context.Context, id string, req UpdateRequest) error
	}
)

// TokenSource yields the bearer credential for API calls. An empty
// string means "no credential": the request goes out without an
// Authorization header and the server decides.
type TokenSource func() string

// StaticToken returns a source that always yields the given token.
func StaticToken(token string) TokenSource {
	return func() string { return token }
}
