package handlers

import (
	"time"

	"moneymate-api/internal/core/services"
	"moneymate-api/internal/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler handles payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
	validate       *validator.Validate
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validate:       validator.New(),
	}
}

// CreatePaymentRequest represents create payment request
type CreatePaymentRequest struct {
	Amount float64   `json:"amount" validate:"required,gt=0"`
	Date   time.Time `json:"date"`
	Method string    `json:"method" validate:"omitempty,max=50"`
	Notes  *string   `json:"notes"`
}

// Create records a payment against a loan
// @Summary Create payment
// @Description Record a payment against one of the authenticated user's loans
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Param body body CreatePaymentRequest true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var req CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	userID, _ := c.Locals("userID").(string)

	payment, err := h.paymentService.Create(c.Context(), &services.CreatePaymentInput{
		UserID: userID,
		LoanID: c.Params("id"),
		Amount: req.Amount,
		Date:   req.Date,
		Method: req.Method,
		Notes:  req.Notes,
	})
	if err != nil {
		return loanError(c, err)
	}

	return response.Created(c, "Payment recorded successfully", payment)
}

// ListForLoan returns payments for a loan
// @Summary List payments
// @Description List payments recorded against a loan, newest first
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/payments [get]
func (h *PaymentHandler) ListForLoan(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	payments, err := h.paymentService.ListForLoan(c.Context(), userID, c.Params("id"))
	if err != nil {
		return loanError(c, err)
	}

	return response.Success(c, "Payments retrieved successfully", payments)
}
