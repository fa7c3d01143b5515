package repositories

import (
	"context"

	"moneymate-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormPaymentRepository handles payment data access
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create creates a new payment
func (r *GormPaymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// FindByLoan lists payments for a loan, newest first
func (r *GormPaymentRepository) FindByLoan(ctx context.Context, loanID string) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("loan_id = ?", loanID).
		Order("date DESC").
		Find(&payments).Error
	return payments, err
}
