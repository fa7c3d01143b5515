package repositories

import (
	"context"

	"moneymate-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// GormLoanRepository handles loan data access
type GormLoanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository
func NewLoanRepository(db *gorm.DB) *GormLoanRepository {
	return &GormLoanRepository{db: db}
}

// Create creates a new loan
func (r *GormLoanRepository) Create(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

// GetByID gets a loan by ID with its payments
func (r *GormLoanRepository) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	var loan models.Loan
	err := r.db.WithContext(ctx).
		Preload("Payments").
		First(&loan, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// FindByUser returns every loan owned by a user, payments embedded.
// This is the full-snapshot read the aggregation engine depends on.
func (r *GormLoanRepository) FindByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	var loans []models.Loan
	err := r.db.WithContext(ctx).
		Preload("Payments").
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&loans).Error
	return loans, err
}

// Update updates a loan
func (r *GormLoanRepository) Update(ctx context.Context, loan *models.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

// Delete soft deletes a loan
func (r *GormLoanRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Loan{}, "id = ?", id).Error
}
