// Package payment creates deposit invoices for reservations.
package payment

import (
	"context"
	"errors"
)

var ErrInvalidAmount = errors.New("invoice amount must be positive")

// Invoice is the payable destination returned by the provider.
type Invoice struct {
	ID  string
	URL string
}

// Invoicer requests a payment invoice tied to a reservation. Amount is in
// whole currency units.
type Invoicer interface {
	CreateInvoice(ctx context.Context, reservationID string, amount int64, description string) (*Invoice, error)
}
