package payment

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MockInvoicer issues local invoice links without a payment provider.
// Used in development when no Stripe key is configured.
type MockInvoicer struct {
	baseURL string
	logger  *zap.Logger
}

func NewMockInvoicer(baseURL string, logger *zap.Logger) *MockInvoicer {
	return &MockInvoicer{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (m *MockInvoicer) CreateInvoice(_ context.Context, reservationID string, amount int64, description string) (*Invoice, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	id := "inv_mock_" + uuid.NewString()
	q := url.Values{}
	q.Set("reservation_id", reservationID)
	q.Set("amount", fmt.Sprint(amount))

	m.logger.Info("mock invoice created",
		zap.String("invoice_id", id),
		zap.String("reservation_id", reservationID),
		zap.Int64("amount", amount),
		zap.String("description", description),
	)

	return &Invoice{
		ID:  id,
		URL: fmt.Sprintf("%s/%s?%s", m.baseURL, id, q.Encode()),
	}, nil
}
