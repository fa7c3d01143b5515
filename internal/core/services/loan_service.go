package services

import (
	"context"
	"errors"
	"time"

	"moneymate-api/internal/adapters/persistence/models"
	"moneymate-api/internal/adapters/persistence/repositories"
	"moneymate-api/internal/core/domain"
	"moneymate-api/internal/pkg/cache"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"
)

// Loan lists served from cache may lag mutations by up to this long.
const loanListTTL = 2 * time.Minute

// LoanService handles loan record operations
type LoanService struct {
	loanRepo repositories.LoanRepository
	caches   *CacheSet
	clock    clockwork.Clock
}

// NewLoanService creates a new loan service
func NewLoanService(loanRepo repositories.LoanRepository, caches *CacheSet, clock clockwork.Clock) *LoanService {
	return &LoanService{
		loanRepo: loanRepo,
		caches:   caches,
		clock:    clock,
	}
}

// CreateLoanInput represents loan creation data
type CreateLoanInput struct {
	UserID           string
	BorrowerName     string
	BorrowerPhone    *string
	Amount           float64
	InterestRate     float64
	InterestRateType string
	StartDate        time.Time
}

// Create records a new loan for a user
func (s *LoanService) Create(ctx context.Context, input *CreateLoanInput) (*models.Loan, error) {
	rateType := input.InterestRateType
	if rateType == "" {
		rateType = models.RateTypeMonthly
	}

	startDate := input.StartDate
	if startDate.IsZero() {
		startDate = s.clock.Now()
	}

	loan := &models.Loan{
		ID:               uuid.NewString(),
		UserID:           input.UserID,
		BorrowerName:     input.BorrowerName,
		BorrowerPhone:    input.BorrowerPhone,
		Amount:           input.Amount,
		InterestRate:     input.InterestRate,
		InterestRateType: rateType,
		StartDate:        startDate,
		Status:           models.LoanStatusActive,
	}

	if err := s.loanRepo.Create(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// GetByID returns a loan owned by the given user
func (s *LoanService) GetByID(ctx context.Context, userID, loanID string) (*models.Loan, error) {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLoanNotFound
		}
		return nil, err
	}
	if loan.UserID != userID {
		return nil, domain.ErrNotLoanOwner
	}
	return loan, nil
}

// ListForUser returns all loans for a user, served from the loan-list
// cache while the entry stays fresh. Mutations do not invalidate the
// entry; the TTL bounds the staleness window.
func (s *LoanService) ListForUser(ctx context.Context, userID string) ([]models.Loan, error) {
	key := "loans:" + userID
	now := s.clock.Now()

	if entry, ok := s.caches.Loans.Get(key); ok && !entry.Expired(now, loanListTTL) {
		return entry.Value, nil
	}

	loans, err := s.loanRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.caches.Loans.Set(key, cache.NewEntry(loans, now))
	return loans, nil
}

// MarkPaid settles a loan, stamping the paid date
func (s *LoanService) MarkPaid(ctx context.Context, userID, loanID string) (*models.Loan, error) {
	loan, err := s.GetByID(ctx, userID, loanID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	loan.Status = models.LoanStatusPaid
	loan.PaidDate = &now

	if err := s.loanRepo.Update(ctx, loan); err != nil {
		return nil, err
	}
	return loan, nil
}

// Delete removes a loan owned by the given user
func (s *LoanService) Delete(ctx context.Context, userID, loanID string) error {
	if _, err := s.GetByID(ctx, userID, loanID); err != nil {
		return err
	}
	return s.loanRepo.Delete(ctx, loanID)
}
