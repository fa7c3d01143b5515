package handlers

import (
	"errors"
	"time"

	"moneymate-api/internal/core/domain"
	"moneymate-api/internal/core/services"
	"moneymate-api/internal/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
	validate    *validator.Validate
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{
		loanService: loanService,
		validate:    validator.New(),
	}
}

// CreateLoanRequest represents create loan request
type CreateLoanRequest struct {
	BorrowerName     string    `json:"borrowerName" validate:"required,max=100"`
	BorrowerPhone    *string   `json:"borrowerPhone" validate:"omitempty,max=20"`
	Amount           float64   `json:"amount" validate:"required,gt=0"`
	InterestRate     float64   `json:"interestRate" validate:"gte=0"`
	InterestRateType string    `json:"interestRateType" validate:"omitempty,oneof=monthly yearly"`
	StartDate        time.Time `json:"startDate"`
}

// Create records a new loan
// @Summary Create loan
// @Description Record a new loan for the authenticated user
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateLoanRequest true "Loan data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans [post]
func (h *LoanHandler) Create(c *fiber.Ctx) error {
	var req CreateLoanRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return response.BadRequest(c, err.Error())
	}

	userID, _ := c.Locals("userID").(string)

	loan, err := h.loanService.Create(c.Context(), &services.CreateLoanInput{
		UserID:           userID,
		BorrowerName:     req.BorrowerName,
		BorrowerPhone:    req.BorrowerPhone,
		Amount:           req.Amount,
		InterestRate:     req.InterestRate,
		InterestRateType: req.InterestRateType,
		StartDate:        req.StartDate,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to create loan")
	}

	return response.Created(c, "Loan created successfully", loan)
}

// List returns the authenticated user's loans
// @Summary List loans
// @Description List all loans for the authenticated user, payments embedded
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	loans, err := h.loanService.ListForUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", loans)
}

// GetByID returns one loan
// @Summary Get loan
// @Description Get a loan by ID
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	loan, err := h.loanService.GetByID(c.Context(), userID, c.Params("id"))
	if err != nil {
		return loanError(c, err)
	}

	return response.Success(c, "Loan retrieved successfully", loan)
}

// MarkPaid settles a loan
// @Summary Mark loan paid
// @Description Mark a loan as fully repaid, stamping the paid date
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/paid [put]
func (h *LoanHandler) MarkPaid(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	loan, err := h.loanService.MarkPaid(c.Context(), userID, c.Params("id"))
	if err != nil {
		return loanError(c, err)
	}

	return response.Success(c, "Loan marked as paid", loan)
}

// Delete removes a loan
// @Summary Delete loan
// @Description Delete a loan by ID
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [delete]
func (h *LoanHandler) Delete(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(string)

	if err := h.loanService.Delete(c.Context(), userID, c.Params("id")); err != nil {
		return loanError(c, err)
	}

	return response.Success(c, "Loan deleted successfully", nil)
}

// loanError maps loan domain errors to HTTP responses
func loanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrNotLoanOwner):
		return response.Forbidden(c, "Loan does not belong to you")
	default:
		return response.InternalServerError(c, "Something went wrong")
	}
}
