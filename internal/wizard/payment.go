package wizard

import (
	"context"
	"sync"

	"anpl-sports-backend/internal/draft"
)

type PaymentResult struct {
	PaymentID string
	Signature string
}

// Checkout is handed to the payment widget. The widget reports back by
// calling exactly one of OnSuccess or OnDismiss; later calls are ignored.
type Checkout struct {
	RegistrationID string
	OrderID        string
	Amount         int
	Currency       string
	KeyID          string

	Success <-chan PaymentResult
	Dismiss <-chan struct{}

	success chan PaymentResult
	dismiss chan struct{}
	once    sync.Once
}

func newCheckout(registrationID string, o *Order) *Checkout {
	success := make(chan PaymentResult, 1)
	dismiss := make(chan struct{}, 1)
	return &Checkout{
		RegistrationID: registrationID,
		OrderID:        o.OrderID,
		Amount:         o.Amount,
		Currency:       o.Currency,
		KeyID:          o.KeyID,
		Success:        success,
		Dismiss:        dismiss,
		success:        success,
		dismiss:        dismiss,
	}
}

func (c *Checkout) OnSuccess(paymentID, signature string) {
	c.once.Do(func() { c.success <- PaymentResult{PaymentID: paymentID, Signature: signature} })
}

func (c *Checkout) OnDismiss() {
	c.once.Do(func() { c.dismiss <- struct{}{} })
}

// Submit sends the draft from the final step. On success the draft is
// locked as pending payment and, when there is an amount to pay, a payment
// order is created and returned as a Checkout. A nil Checkout with a nil
// error means nothing is payable and the registration is already approved,
// so the draft is marked paid. On failure the wizard stays on the final
// step with the draft intact.
func (w *Wizard) Submit(ctx context.Context) (*Checkout, error) {
	if !w.IsFinal() {
		return nil, w.fail(validationErr("", "Complete all steps before submitting"))
	}
	if err := w.Validate(w.step); err != nil {
		return nil, w.fail(err)
	}
	if w.event != nil && !w.event.RegistrationOpen(w.cfg.Now()) {
		return nil, w.fail(validationErr("", "Registration is closed for this event"))
	}
	switch w.draft.Status() {
	case draft.StatusPaid, draft.StatusRejected:
		return nil, w.draftErr(draft.ErrClosed, "")
	}

	res, err := w.ports.API.Complete(ctx, w.draft.Payload())
	if err != nil {
		w.log.WithError(err).Warn("registration submission failed")
		return nil, w.fail(networkErr(KindNetwork, err, "Registration failed"))
	}
	w.draft.MarkSubmitted(res.RegistrationID)
	w.log.WithField("registration_id", res.RegistrationID).Info("registration submitted")

	if !res.ReadyForPayment || res.TotalPayableAmount <= 0 {
		w.draft.MarkPaid()
		w.step = StepSubmitted
		w.messages = Messages{Success: "Registration submitted"}
		return nil, nil
	}

	order, err := w.ports.Payments.Initiate(ctx, res.RegistrationID, res.TotalPayableAmount)
	if err != nil {
		w.log.WithError(err).WithField("registration_id", res.RegistrationID).Warn("payment initiation failed")
		return nil, w.fail(networkErr(KindPayment, err, "Failed to initiate payment"))
	}

	w.step = StepSubmitted
	w.messages = Messages{}
	return newCheckout(res.RegistrationID, order), nil
}

// AwaitPayment blocks until the widget reports back through co or ctx ends.
// A verified payment marks the draft paid. A dismissal is not an error: the
// wizard returns to review so the user can retry. A failed verification
// keeps the draft pending payment for a later status check. A nil co, as
// returned by Submit when nothing is payable, returns immediately.
func (w *Wizard) AwaitPayment(ctx context.Context, co *Checkout) error {
	if co == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		w.step = w.flow.last()
		return ctx.Err()

	case <-co.Dismiss:
		w.step = w.flow.last()
		w.messages = Messages{}
		w.log.WithField("registration_id", co.RegistrationID).Info("payment dismissed")
		return nil

	case r := <-co.Success:
		err := w.ports.Payments.Verify(ctx, Verification{
			RegistrationID: co.RegistrationID,
			OrderID:        co.OrderID,
			PaymentID:      r.PaymentID,
			Signature:      r.Signature,
		})
		if err != nil {
			w.step = w.flow.last()
			w.log.WithError(err).WithField("registration_id", co.RegistrationID).Warn("payment verification failed")
			return w.fail(networkErr(KindPayment, err, "Payment verification failed"))
		}
		w.draft.MarkPaid()
		w.step = StepSubmitted
		w.messages = Messages{Success: "Payment successful"}
		return nil
	}
}
