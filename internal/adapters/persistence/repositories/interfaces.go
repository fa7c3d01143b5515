package repositories

import (
	"context"

	"moneymate-api/internal/adapters/persistence/models"
)

// LoanRepository defines loan repository interface
type LoanRepository interface {
	Create(ctx context.Context, loan *models.Loan) error
	GetByID(ctx context.Context, id string) (*models.Loan, error)
	FindByUser(ctx context.Context, userID string) ([]models.Loan, error)
	Update(ctx context.Context, loan *models.Loan) error
	Delete(ctx context.Context, id string) error
}

// PaymentRepository defines payment repository interface
type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) error
	FindByLoan(ctx context.Context, loanID string) ([]models.Payment, error)
}
