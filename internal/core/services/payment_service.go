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

// Payment lists tolerate the same staleness window as loan lists.
const paymentListTTL = 2 * time.Minute

// PaymentService handles payment record operations
type PaymentService struct {
	loanRepo    repositories.LoanRepository
	paymentRepo repositories.PaymentRepository
	caches      *CacheSet
	clock       clockwork.Clock
}

// NewPaymentService creates a new payment service
func NewPaymentService(loanRepo repositories.LoanRepository, paymentRepo repositories.PaymentRepository, caches *CacheSet, clock clockwork.Clock) *PaymentService {
	return &PaymentService{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		caches:      caches,
		clock:       clock,
	}
}

// CreatePaymentInput represents payment creation data
type CreatePaymentInput struct {
	UserID string
	LoanID string
	Amount float64
	Date   time.Time
	Method string
	Notes  *string
}

// Create records a payment against a loan owned by the user
func (s *PaymentService) Create(ctx context.Context, input *CreatePaymentInput) (*models.Payment, error) {
	if err := s.checkOwnership(ctx, input.UserID, input.LoanID); err != nil {
		return nil, err
	}

	date := input.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	payment := &models.Payment{
		ID:     uuid.NewString(),
		LoanID: input.LoanID,
		Amount: input.Amount,
		Date:   date,
		Method: input.Method,
		Notes:  input.Notes,
	}

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// ListForLoan returns payments for a loan owned by the user, served
// from the payment-list cache while the entry stays fresh.
func (s *PaymentService) ListForLoan(ctx context.Context, userID, loanID string) ([]models.Payment, error) {
	if err := s.checkOwnership(ctx, userID, loanID); err != nil {
		return nil, err
	}

	key := "payments:" + loanID
	now := s.clock.Now()

	if entry, ok := s.caches.Payments.Get(key); ok && !entry.Expired(now, paymentListTTL) {
		return entry.Value, nil
	}

	payments, err := s.paymentRepo.FindByLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	s.caches.Payments.Set(key, cache.NewEntry(payments, now))
	return payments, nil
}

func (s *PaymentService) checkOwnership(ctx context.Context, userID, loanID string) error {
	loan, err := s.loanRepo.GetByID(ctx, loanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLoanNotFound
		}
		return err
	}
	if loan.UserID != userID {
		return domain.ErrNotLoanOwner
	}
	return nil
}
