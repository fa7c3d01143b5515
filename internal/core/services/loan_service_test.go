package services

import (
	"context"
	"testing"
	"time"

	"moneymate-api/internal/adapters/persistence/models"
	"moneymate-api/internal/core/domain"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeLoanRepo struct {
	byID      map[string]*models.Loan
	findCalls int
	updated   *models.Loan
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{byID: make(map[string]*models.Loan)}
}

func (f *fakeLoanRepo) Create(ctx context.Context, loan *models.Loan) error {
	f.byID[loan.ID] = loan
	return nil
}

func (f *fakeLoanRepo) GetByID(ctx context.Context, id string) (*models.Loan, error) {
	loan, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return loan, nil
}

func (f *fakeLoanRepo) FindByUser(ctx context.Context, userID string) ([]models.Loan, error) {
	f.findCalls++
	loans := make([]models.Loan, 0)
	for _, loan := range f.byID {
		if loan.UserID == userID {
			loans = append(loans, *loan)
		}
	}
	return loans, nil
}

func (f *fakeLoanRepo) Update(ctx context.Context, loan *models.Loan) error {
	f.updated = loan
	f.byID[loan.ID] = loan
	return nil
}

func (f *fakeLoanRepo) Delete(ctx context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func newTestLoanService(repo *fakeLoanRepo) (*LoanService, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClockAt(testNow)
	return NewLoanService(repo, NewCacheSet(10, 10, 10), clock), clock
}

func TestLoanService_CreateDefaults(t *testing.T) {
	repo := newFakeLoanRepo()
	service, _ := newTestLoanService(repo)

	loan, err := service.Create(context.Background(), &CreateLoanInput{
		UserID:       "user1",
		BorrowerName: "Alice",
		Amount:       1000,
		InterestRate: 12,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, loan.ID)
	assert.Equal(t, models.LoanStatusActive, loan.Status)
	assert.Equal(t, models.RateTypeMonthly, loan.InterestRateType)
	assert.Equal(t, testNow, loan.StartDate)
	assert.Nil(t, loan.PaidDate)
}

func TestLoanService_ListForUserCaches(t *testing.T) {
	repo := newFakeLoanRepo()
	service, clock := newTestLoanService(repo)

	_, err := service.Create(context.Background(), &CreateLoanInput{
		UserID: "user1", BorrowerName: "Alice", Amount: 1000, InterestRate: 12,
	})
	require.NoError(t, err)

	loans, err := service.ListForUser(context.Background(), "user1")
	require.NoError(t, err)
	assert.Len(t, loans, 1)

	// Second read inside the TTL comes from the loan-list cache.
	_, err = service.ListForUser(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.findCalls)

	// Past the TTL the repository is consulted again.
	clock.Advance(2*time.Minute + time.Second)
	_, err = service.ListForUser(context.Background(), "user1")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.findCalls)
}

func TestLoanService_MarkPaid(t *testing.T) {
	repo := newFakeLoanRepo()
	service, _ := newTestLoanService(repo)

	created, err := service.Create(context.Background(), &CreateLoanInput{
		UserID: "user1", BorrowerName: "Alice", Amount: 1000, InterestRate: 12,
	})
	require.NoError(t, err)

	loan, err := service.MarkPaid(context.Background(), "user1", created.ID)
	require.NoError(t, err)

	assert.Equal(t, models.LoanStatusPaid, loan.Status)
	require.NotNil(t, loan.PaidDate)
	assert.Equal(t, testNow, *loan.PaidDate)
}

func TestLoanService_OwnershipEnforced(t *testing.T) {
	repo := newFakeLoanRepo()
	service, _ := newTestLoanService(repo)

	created, err := service.Create(context.Background(), &CreateLoanInput{
		UserID: "user1", BorrowerName: "Alice", Amount: 1000, InterestRate: 12,
	})
	require.NoError(t, err)

	_, err = service.GetByID(context.Background(), "someone-else", created.ID)
	assert.ErrorIs(t, err, domain.ErrNotLoanOwner)

	_, err = service.GetByID(context.Background(), "user1", "missing")
	assert.ErrorIs(t, err, domain.ErrLoanNotFound)
}
