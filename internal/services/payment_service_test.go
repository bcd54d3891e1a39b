package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"anpl-sports-backend/internal/draft"
	"anpl-sports-backend/internal/external"
	"anpl-sports-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	secret      string
	orderStatus string
	createErr   error
	orders      []external.Order
}

func (g *fakeGateway) CreateOrder(_ context.Context, amount int, currency, receipt string, notes map[string]string) (*external.Order, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	o := external.Order{
		ID:       fmt.Sprintf("order_%d", len(g.orders)+1),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
		Notes:    notes,
	}
	g.orders = append(g.orders, o)
	return &o, nil
}

func (g *fakeGateway) FetchOrder(_ context.Context, orderID string) (*external.Order, error) {
	return &external.Order{ID: orderID, Status: g.orderStatus}, nil
}

func (g *fakeGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return external.Sign(g.secret, orderID, paymentID) == signature
}

func (g *fakeGateway) KeyID() string { return "rzp_test_key" }

type paymentFixture struct {
	*fixture
	gateway *fakeGateway
	svc     *PaymentService
	regID   string
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	f := newFixture(t)
	res, err := f.registrations().CompleteRegistration(f.player.ID.String(),
		f.payload(800, draft.EntryPayload{CategoryCode: badminton("Mens Single 35+")}))
	require.NoError(t, err)

	g := &fakeGateway{secret: "whsec", orderStatus: "paid"}
	return &paymentFixture{
		fixture: f,
		gateway: g,
		svc:     NewPaymentService(f.repo, f.cfg, g),
		regID:   res.RegistrationID,
	}
}

func (p *paymentFixture) initiate(t *testing.T) *OrderResponse {
	t.Helper()
	order, err := p.svc.InitiatePayment(context.Background(), p.player.ID.String(), InitiatePaymentRequest{
		RegistrationID: p.regID,
		Amount:         800,
	})
	require.NoError(t, err)
	return order
}

func TestInitiatePayment(t *testing.T) {
	p := newPaymentFixture(t)

	order := p.initiate(t)
	assert.Equal(t, "order_1", order.OrderID)
	assert.Equal(t, 80000, order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.KeyID)

	require.Len(t, p.gateway.orders, 1)
	receipt := p.gateway.orders[0].Receipt
	assert.True(t, strings.HasPrefix(receipt, "badminton_bundle_"), receipt)
	assert.LessOrEqual(t, len(receipt), 40)

	stored, ok := p.store.Payment("order_1")
	require.True(t, ok)
	assert.Equal(t, models.PaymentCreated, stored.Status)
	assert.Equal(t, 80000, stored.Amount)

	b, _ := p.store.Bundle(p.regID)
	assert.Equal(t, "order_1", b.PaymentOrderID)
}

func TestInitiatePaymentRefusals(t *testing.T) {
	t.Run("someone else's registration", func(t *testing.T) {
		p := newPaymentFixture(t)
		_, err := p.svc.InitiatePayment(context.Background(), p.partner.ID.String(), InitiatePaymentRequest{RegistrationID: p.regID, Amount: 800})
		require.Error(t, err)
		assert.Equal(t, ErrForbidden, GetErrorCode(err))
		assert.Contains(t, err.Error(), "You can only pay for your own registrations")
	})

	t.Run("amount differs from total", func(t *testing.T) {
		p := newPaymentFixture(t)
		_, err := p.svc.InitiatePayment(context.Background(), p.player.ID.String(), InitiatePaymentRequest{RegistrationID: p.regID, Amount: 100})
		assert.Equal(t, ErrValidation, GetErrorCode(err))
		assert.Empty(t, p.gateway.orders)
	})

	t.Run("gateway unavailable", func(t *testing.T) {
		p := newPaymentFixture(t)
		p.gateway.createErr = errors.New("connection refused")
		_, err := p.svc.InitiatePayment(context.Background(), p.player.ID.String(), InitiatePaymentRequest{RegistrationID: p.regID, Amount: 800})
		assert.Equal(t, ErrGateway, GetErrorCode(err))
	})
}

func TestVerifyPaymentApprovesBundle(t *testing.T) {
	p := newPaymentFixture(t)
	order := p.initiate(t)

	resp, err := p.svc.VerifyPayment(context.Background(), p.player.ID.String(), VerifyPaymentRequest{
		RegistrationID: p.regID,
		OrderID:        order.OrderID,
		PaymentID:      "pay_1",
		Signature:      external.Sign("whsec", order.OrderID, "pay_1"),
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, resp.Status)

	b, _ := p.store.Bundle(p.regID)
	assert.Equal(t, models.StatusApproved, b.Status)
	assert.Equal(t, "pay_1", b.PaymentReference)
	for _, e := range b.Entries {
		assert.Equal(t, models.StatusApproved, e.Status)
	}

	_, err = os.Stat(filepath.Join(p.cfg.QRDir, b.QRPath))
	assert.NoError(t, err, "QR receipt is written")

	stored, _ := p.store.Payment(order.OrderID)
	assert.Equal(t, models.PaymentPaid, stored.Status)

	path, err := p.registrations().ReceiptPath(p.player.ID.String(), models.RoleUser, p.regID)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(p.cfg.QRDir, b.QRPath), path)
}

func TestVerifyPaymentFailures(t *testing.T) {
	tests := []struct {
		name       string
		signature  func(orderID string) string
		status     string
		wantBundle string
		wantMsg    string
	}{
		{
			name:       "missing signature",
			signature:  func(string) string { return "" },
			status:     "paid",
			wantBundle: models.StatusFailed,
			wantMsg:    "Payment signature verification failed",
		},
		{
			name:       "forged signature",
			signature:  func(o string) string { return external.Sign("wrong", o, "pay_1") },
			status:     "paid",
			wantBundle: models.StatusFailed,
			wantMsg:    "Payment signature verification failed",
		},
		{
			name:       "order not captured",
			signature:  func(o string) string { return external.Sign("whsec", o, "pay_1") },
			status:     "attempted",
			wantBundle: models.StatusPending,
			wantMsg:    "Payment not completed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPaymentFixture(t)
			p.gateway.orderStatus = tt.status
			order := p.initiate(t)

			_, err := p.svc.VerifyPayment(context.Background(), p.player.ID.String(), VerifyPaymentRequest{
				RegistrationID: p.regID,
				OrderID:        order.OrderID,
				PaymentID:      "pay_1",
				Signature:      tt.signature(order.OrderID),
			})
			require.Error(t, err)
			assert.Equal(t, ErrPayment, GetErrorCode(err))
			assert.Contains(t, err.Error(), tt.wantMsg)

			b, _ := p.store.Bundle(p.regID)
			assert.Equal(t, tt.wantBundle, b.Status)
		})
	}
}

func TestFailedBundleCanBeRetried(t *testing.T) {
	p := newPaymentFixture(t)
	order := p.initiate(t)

	_, err := p.svc.VerifyPayment(context.Background(), p.player.ID.String(), VerifyPaymentRequest{
		RegistrationID: p.regID, OrderID: order.OrderID, PaymentID: "pay_1",
	})
	require.Error(t, err)

	retry := p.initiate(t)
	assert.Equal(t, "order_2", retry.OrderID)

	_, err = p.svc.VerifyPayment(context.Background(), p.player.ID.String(), VerifyPaymentRequest{
		RegistrationID: p.regID,
		OrderID:        retry.OrderID,
		PaymentID:      "pay_2",
		Signature:      external.Sign("whsec", retry.OrderID, "pay_2"),
	})
	require.NoError(t, err)
}

func TestVerifyPaymentRejectsForeignOrder(t *testing.T) {
	p := newPaymentFixture(t)
	p.initiate(t)

	_, err := p.svc.VerifyPayment(context.Background(), p.player.ID.String(), VerifyPaymentRequest{
		RegistrationID: p.regID,
		OrderID:        "order_other",
		PaymentID:      "pay_1",
		Signature:      external.Sign("whsec", "order_other", "pay_1"),
	})
	assert.Equal(t, ErrPayment, GetErrorCode(err))
}
