package payment

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// StripeConfig holds configuration for the Stripe invoicer.
type StripeConfig struct {
	SecretKey  string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// Stripe amounts are in the currency's smallest unit. Most currencies have
// two decimals; these have none or three.
var (
	zeroDecimalCurrencies = map[string]bool{
		"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
		"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
		"vuv": true, "xaf": true, "xof": true, "xpf": true,
	}
	threeDecimalCurrencies = map[string]bool{
		"bhd": true, "jod": true, "kwd": true, "omr": true, "tnd": true,
	}
)

// minorUnits is how many smallest units make one whole unit of currency.
func minorUnits(currency string) int64 {
	switch {
	case zeroDecimalCurrencies[currency]:
		return 1
	case threeDecimalCurrencies[currency]:
		return 1000
	default:
		return 100
	}
}

// StripeInvoicer implements Invoicer with hosted Stripe Checkout Sessions.
// The session URL is the invoice's payment destination.
type StripeInvoicer struct {
	cfg        StripeConfig
	unitScale  int64
	newSession func(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// NewStripeInvoicer creates a Stripe invoicer and sets the global API key.
func NewStripeInvoicer(cfg StripeConfig) (*StripeInvoicer, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}
	if cfg.Currency == "" {
		return nil, fmt.Errorf("payment currency is required")
	}

	cfg.Currency = strings.ToLower(strings.TrimSpace(cfg.Currency))
	stripe.Key = cfg.SecretKey

	return &StripeInvoicer{
		cfg:        cfg,
		unitScale:  minorUnits(cfg.Currency),
		newSession: session.New,
	}, nil
}

func (s *StripeInvoicer) CreateInvoice(ctx context.Context, reservationID string, amount int64, description string) (*Invoice, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	unitAmount := amount * s.unitScale

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(reservationID),
		SuccessURL:        stripe.String(s.cfg.SuccessURL),
		CancelURL:         stripe.String(s.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.cfg.Currency),
					UnitAmount: stripe.Int64(unitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"reservation_id": reservationID,
		},
	}
	params.Context = ctx

	sess, err := s.newSession(params)
	if err != nil {
		return nil, fmt.Errorf("create stripe checkout session: %w", err)
	}
	if sess.URL == "" {
		return nil, fmt.Errorf("stripe checkout session %s has no url", sess.ID)
	}

	return &Invoice{ID: sess.ID, URL: sess.URL}, nil
}
