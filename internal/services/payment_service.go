package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anpl-sports-backend/internal/config"
	"anpl-sports-backend/internal/external"
	"anpl-sports-backend/internal/metrics"
	"anpl-sports-backend/internal/models"
	"anpl-sports-backend/internal/repositories"
	"anpl-sports-backend/internal/utils"
	"anpl-sports-backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// PaymentGateway is the order API the service charges through.
// *external.RazorpayClient satisfies it.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int, currency, receipt string, notes map[string]string) (*external.Order, error)
	FetchOrder(ctx context.Context, orderID string) (*external.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

const gatewayPaid = "paid"

type PaymentService struct {
	repo    *repositories.Repository
	cfg     *config.Config
	gateway PaymentGateway
	log     *logrus.Entry
}

func NewPaymentService(repo *repositories.Repository, cfg *config.Config, gateway PaymentGateway) *PaymentService {
	return &PaymentService{
		repo:    repo,
		cfg:     cfg,
		gateway: gateway,
		log:     logger.Log.WithField("service", "payment"),
	}
}

type InitiatePaymentRequest struct {
	RegistrationID string `json:"registrationId" validate:"required,uuid"`
	Amount         int    `json:"amount" validate:"required,gt=0"`
}

type OrderResponse struct {
	OrderID  string `json:"orderId"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type VerifyPaymentRequest struct {
	RegistrationID string `json:"registrationId" validate:"required,uuid"`
	OrderID        string `json:"orderId" validate:"required"`
	PaymentID      string `json:"paymentId" validate:"required"`
	Signature      string `json:"signature"`
}

type VerifyPaymentResponse struct {
	RegistrationID string `json:"registrationId"`
	Status         string `json:"status"`
	QRPath         string `json:"qrPath,omitempty"`
}

// InitiatePayment raises a gateway order for a pending bundle. amount is in
// major units and must equal the bundle total.
func (s *PaymentService) InitiatePayment(ctx context.Context, userID string, req InitiatePaymentRequest) (resp *OrderResponse, err error) {
	defer func() { recordPayment("initiate", err) }()

	bundle, err := s.ownedBundle(userID, req.RegistrationID)
	if err != nil {
		return nil, err
	}
	if bundle.Status != models.StatusPending && bundle.Status != models.StatusFailed {
		return nil, NewServiceError("Registration is not awaiting payment", ErrConflict, nil)
	}
	if bundle.TotalAmount <= 0 {
		return nil, validation("Nothing to pay for this registration")
	}
	if req.Amount != bundle.TotalAmount {
		return nil, validation("Total amount mismatch")
	}

	minor := bundle.TotalAmount * 100
	receipt := receiptID(bundle)
	order, err := s.gateway.CreateOrder(ctx, minor, s.cfg.PaymentCurrency, receipt, map[string]string{
		"registration_id": bundle.ID.String(),
		"user_id":         userID,
	})
	if err != nil {
		return nil, NewServiceError("Failed to initiate payment", ErrGateway, err)
	}

	payment := &models.Payment{
		ID:       uuid.New(),
		BundleID: bundle.ID,
		OrderID:  order.ID,
		Amount:   minor,
		Currency: s.cfg.PaymentCurrency,
		Status:   models.PaymentCreated,
	}
	if err := s.repo.PaymentRepo.CreatePayment(payment); err != nil {
		return nil, dbError("Failed to initiate payment", err)
	}
	if err := s.repo.RegistrationRepo.SetPaymentOrder(bundle.ID.String(), order.ID); err != nil {
		return nil, dbError("Failed to initiate payment", err)
	}

	s.log.WithFields(logrus.Fields{
		"registration_id": bundle.ID,
		"order_id":        order.ID,
		"amount":          minor,
	}).Info("payment order created")

	return &OrderResponse{
		OrderID:  order.ID,
		Amount:   minor,
		Currency: s.cfg.PaymentCurrency,
		KeyID:    s.gateway.KeyID(),
	}, nil
}

// VerifyPayment checks the checkout signature and the order state with the
// gateway. A verified payment approves the bundle and issues its QR receipt.
// A missing or bad signature marks the bundle failed so it can be retried.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID string, req VerifyPaymentRequest) (resp *VerifyPaymentResponse, err error) {
	defer func() { recordPayment("verify", err) }()

	bundle, err := s.ownedBundle(userID, req.RegistrationID)
	if err != nil {
		return nil, err
	}
	if bundle.Status == models.StatusApproved {
		return &VerifyPaymentResponse{RegistrationID: bundle.ID.String(), Status: bundle.Status, QRPath: bundle.QRPath}, nil
	}
	if bundle.PaymentOrderID == "" || bundle.PaymentOrderID != req.OrderID {
		return nil, NewServiceError("Payment order does not match this registration", ErrPayment, nil)
	}

	payment, err := s.repo.PaymentRepo.GetPaymentByOrderID(req.OrderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("Payment order not found", ErrNotFound, err)
		}
		return nil, dbError("Payment verification failed", err)
	}
	payment.PaymentID = req.PaymentID
	payment.Signature = req.Signature

	if strings.TrimSpace(req.Signature) == "" || !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		s.fail(bundle, payment)
		return nil, NewServiceError("Payment signature verification failed", ErrPayment, nil)
	}

	order, err := s.gateway.FetchOrder(ctx, req.OrderID)
	if err != nil {
		return nil, NewServiceError("Payment verification failed", ErrGateway, err)
	}
	if order.Status != gatewayPaid {
		return nil, NewServiceError("Payment not completed", ErrPayment, nil)
	}

	payment.Status = models.PaymentPaid
	if err := s.repo.PaymentRepo.UpdatePayment(payment); err != nil {
		return nil, dbError("Payment verification failed", err)
	}

	qrPath, err := utils.GenerateQRCodeImage(receiptContent(bundle), s.cfg.QRDir, bundle.ID.String())
	if err != nil {
		// the payment stands without a receipt; it can be regenerated
		s.log.WithError(err).WithField("registration_id", bundle.ID).Error("failed to generate receipt")
		qrPath = ""
	}
	if err := s.repo.RegistrationRepo.MarkPaid(bundle.ID.String(), req.PaymentID, qrPath); err != nil {
		return nil, dbError("Payment verification failed", err)
	}

	s.log.WithFields(logrus.Fields{
		"registration_id": bundle.ID,
		"order_id":        req.OrderID,
		"payment_id":      req.PaymentID,
	}).Info("payment verified")

	return &VerifyPaymentResponse{
		RegistrationID: bundle.ID.String(),
		Status:         models.StatusApproved,
		QRPath:         qrPath,
	}, nil
}

func (s *PaymentService) ownedBundle(userID, id string) (*models.RegistrationBundle, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, validation("Invalid registration ID")
	}
	bundle, err := s.repo.RegistrationRepo.GetBundleByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, NewServiceError("Registration not found", ErrNotFound, err)
		}
		return nil, dbError("Failed to load registration", err)
	}
	if bundle.UserID.String() != userID {
		return nil, NewServiceError("You can only pay for your own registrations", ErrForbidden, nil)
	}
	return bundle, nil
}

func (s *PaymentService) fail(bundle *models.RegistrationBundle, payment *models.Payment) {
	entry := s.log.WithFields(logrus.Fields{"registration_id": bundle.ID, "order_id": payment.OrderID})
	payment.Status = models.PaymentFailed
	if err := s.repo.PaymentRepo.UpdatePayment(payment); err != nil {
		entry.WithError(err).Error("failed to record failed payment")
	}
	if err := s.repo.RegistrationRepo.UpdateStatus(bundle.ID.String(), models.StatusFailed, nil); err != nil {
		entry.WithError(err).Error("failed to mark registration failed")
	}
	entry.Warn("payment signature rejected")
}

// receiptID stays within the gateway's 40 character receipt limit.
func receiptID(b *models.RegistrationBundle) string {
	id := strings.ReplaceAll(b.ID.String(), "-", "")
	return fmt.Sprintf("%s_bundle_%s", strings.ToLower(b.Event.EventType), id[:16])
}

// receiptContent is what the QR receipt encodes: the bundle and its entry
// codes.
func receiptContent(b *models.RegistrationBundle) string {
	codes := make([]string, 0, len(b.Entries))
	for _, e := range b.Entries {
		codes = append(codes, e.RegistrationCode)
	}
	return fmt.Sprintf("ANPL|%s|%s|%s", b.ID, b.EventID, strings.Join(codes, ","))
}

func recordPayment(stage string, err error) {
	outcome := metrics.OK
	if err != nil {
		outcome = metrics.Error
	}
	metrics.Payments.WithLabelValues(stage, outcome).Inc()
}
