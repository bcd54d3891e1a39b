package handlers

import (
	"anpl-sports-backend/internal/middleware"
	"anpl-sports-backend/internal/services"
	"anpl-sports-backend/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// InitiatePayment creates a gateway order for a pending registration
// @Summary Initiate payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.InitiatePaymentRequest true "Registration and amount"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Failure 502 {object} utils.Response
// @Router /payments/initiate [post]
func (h *Handler) InitiatePayment(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req services.InitiatePaymentRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	order, err := h.paymentSvc.InitiatePayment(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return utils.Success(c, order, "Payment order created")
}

// VerifyPayment confirms a completed checkout
// @Summary Verify payment
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.VerifyPaymentRequest true "Checkout result"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /payments/verify [post]
func (h *Handler) VerifyPayment(c *fiber.Ctx) error {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		return err
	}

	var req services.VerifyPaymentRequest
	if err := middleware.BindAndValidate(c, &req); err != nil {
		return err
	}

	resp, err := h.paymentSvc.VerifyPayment(c.UserContext(), userID, req)
	if err != nil {
		return err
	}

	return utils.Success(c, resp, "Payment verified successfully")
}
