package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"moneymate-api/internal/adapters/persistence/models"
	"moneymate-api/internal/core/domain"
	"moneymate-api/internal/pkg/cache"

	"github.com/jonboulle/clockwork"
)

// Status display colors for the distribution chart
const (
	colorActive  = "#4CAF50"
	colorPaid    = "#2196F3"
	colorOverdue = "#F44336"
)

// A loan is overdue once it has been active for more than this many days.
const overdueThresholdDays = 30

// Timeframe selects the cache freshness policy for a stats request.
// It does not change what the report contains.
type Timeframe string

const (
	Timeframe7d  Timeframe = "7d"
	Timeframe30d Timeframe = "30d"
	Timeframe90d Timeframe = "90d"
)

// ParseTimeframe normalizes a raw timeframe value, defaulting to 30d.
func ParseTimeframe(raw string) Timeframe {
	switch Timeframe(raw) {
	case Timeframe7d, Timeframe30d, Timeframe90d:
		return Timeframe(raw)
	default:
		return Timeframe30d
	}
}

// TTL returns how long a cached report may serve this timeframe.
// Shorter timeframes demand fresher data.
func (t Timeframe) TTL() time.Duration {
	switch t {
	case Timeframe7d:
		return 2 * time.Minute
	case Timeframe90d:
		return 15 * time.Minute
	default:
		return 5 * time.Minute
	}
}

// maxTTL is the longest TTL any timeframe can ask for. Entries older
// than this are dead under every policy and safe to prune.
const maxTTL = 15 * time.Minute

// LoanStore is the read side the aggregation engine depends on.
// Implemented by the GORM loan repository.
type LoanStore interface {
	FindByUser(ctx context.Context, userID string) ([]models.Loan, error)
}

// ============================================================
// Report types
// ============================================================

// StatsReport is an immutable statistics snapshot for one user.
type StatsReport struct {
	Summary            StatsSummary       `json:"summary"`
	MonthlyTrends      []MonthlyTrend     `json:"monthlyTrends"`
	PaymentHistory     []DailyPayments    `json:"paymentHistory"`
	StatusDistribution []StatusSlice      `json:"statusDistribution"`
	TopBorrowers       []BorrowerStats    `json:"topBorrowers"`
	UpcomingPayments   []UpcomingPayment  `json:"upcomingPayments"`
	RecentActivity     RecentActivity     `json:"recentActivity"`
	FromCache          bool               `json:"fromCache"`
	LastUpdated        time.Time          `json:"lastUpdated"`
}

// StatsSummary holds all-time counts and totals.
type StatsSummary struct {
	TotalLoans          int     `json:"totalLoans"`
	ActiveLoans         int     `json:"activeLoans"`
	ActiveAmount        float64 `json:"activeAmount"`
	PaidLoans           int     `json:"paidLoans"`
	PaidAmount          float64 `json:"paidAmount"`
	OverdueLoans        int     `json:"overdueLoans"`
	OverdueAmount       float64 `json:"overdueAmount"`
	TotalInterestEarned float64 `json:"totalInterestEarned"`
	AverageLoanAmount   float64 `json:"averageLoanAmount"`
	RepaymentRate       float64 `json:"repaymentRate"`
}

// MonthlyTrend is one calendar-month bucket of the 12-month series.
type MonthlyTrend struct {
	Month            string  `json:"month"`
	LoansGiven       int     `json:"loansGiven"`
	LoanAmount       float64 `json:"loanAmount"`
	PaymentsReceived int     `json:"paymentsReceived"`
	PaymentAmount    float64 `json:"paymentAmount"`
	InterestEarned   float64 `json:"interestEarned"`
	ActiveLoans      int     `json:"activeLoans"`
}

// DailyPayments is one day of the trailing 7-day payment series.
type DailyPayments struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// StatusSlice is one entry of the status distribution chart.
type StatusSlice struct {
	Status string  `json:"status"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
	Color  string  `json:"color"`
}

// BorrowerStats is a per-borrower rollup, grouped by borrower name.
type BorrowerStats struct {
	BorrowerName  string    `json:"borrowerName"`
	TotalBorrowed float64   `json:"totalBorrowed"`
	ActiveLoans   int       `json:"activeLoans"`
	PaidLoans     int       `json:"paidLoans"`
	OverdueLoans  int       `json:"overdueLoans"`
	TotalLoans    int       `json:"totalLoans"`
	RepaymentRate float64   `json:"repaymentRate"`
	LastLoanDate  time.Time `json:"lastLoanDate"`
}

// UpcomingPayment is an expected repayment for an active loan.
type UpcomingPayment struct {
	LoanID              string    `json:"loanId"`
	BorrowerName        string    `json:"borrowerName"`
	ExpectedPaymentDate time.Time `json:"expectedPaymentDate"`
	Amount              float64   `json:"amount"`
	IsOverdue           bool      `json:"isOverdue"`
	DaysOverdue         int       `json:"daysOverdue"`
}

// RecentActivity summarizes the current calendar month.
type RecentActivity struct {
	LoansGiven       int     `json:"loansGiven"`
	PaymentsReceived int     `json:"paymentsReceived"`
	InterestEarned   float64 `json:"interestEarned"`
}

// ============================================================
// Service
// ============================================================

// CacheSet bundles the process-wide cache instances. Each store has
// its own capacity; they do not share eviction scope.
type CacheSet struct {
	Reports  *cache.Store[cache.Entry[StatsReport]]
	Loans    *cache.Store[cache.Entry[[]models.Loan]]
	Payments *cache.Store[cache.Entry[[]models.Payment]]
}

// NewCacheSet constructs the three cache instances with the given capacities.
func NewCacheSet(reportCap, loanCap, paymentCap int) *CacheSet {
	return &CacheSet{
		Reports:  cache.New[cache.Entry[StatsReport]](reportCap),
		Loans:    cache.New[cache.Entry[[]models.Loan]](loanCap),
		Payments: cache.New[cache.Entry[[]models.Payment]](paymentCap),
	}
}

// StatsService computes per-user loan statistics, consulting the
// report cache before recomputing.
type StatsService struct {
	store  LoanStore
	caches *CacheSet
	clock  clockwork.Clock
}

// NewStatsService creates a new stats service
func NewStatsService(store LoanStore, caches *CacheSet, clock clockwork.Clock) *StatsService {
	return &StatsService{
		store:  store,
		caches: caches,
		clock:  clock,
	}
}

func statsCacheKey(userID string, timeframe Timeframe) string {
	return fmt.Sprintf("stats:%s:%s", userID, timeframe)
}

// GetStats returns the statistics report for a user. A fresh cached
// report is returned as-is unless forceRefresh is set; otherwise the
// full loan set is fetched, aggregated, and cached under
// (userID, timeframe) before returning.
func (s *StatsService) GetStats(ctx context.Context, userID string, timeframe Timeframe, forceRefresh bool) (*StatsReport, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrMissingUserID
	}

	key := statsCacheKey(userID, timeframe)
	now := s.clock.Now()

	if !forceRefresh {
		if entry, ok := s.caches.Reports.Get(key); ok && !entry.Expired(now, timeframe.TTL()) {
			report := entry.Value
			report.FromCache = true
			report.LastUpdated = entry.Timestamp
			return &report, nil
		}
	}

	loans, err := s.store.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLoanStoreUnavailable, err)
	}

	report := s.compute(loans, now)
	s.caches.Reports.Set(key, cache.NewEntry(report, now))

	report.FromCache = false
	report.LastUpdated = now
	return &report, nil
}

// PruneExpired drops report-cache entries older than the longest TTL
// and returns how many were removed. Driven by the janitor, never by
// request paths.
func (s *StatsService) PruneExpired() int {
	now := s.clock.Now()
	pruned := 0
	for _, key := range s.caches.Reports.Keys() {
		entry, ok := s.caches.Reports.Peek(key)
		if ok && entry.Expired(now, maxTTL) {
			s.caches.Reports.Delete(key)
			pruned++
		}
	}
	return pruned
}

// ============================================================
// Cache introspection
// ============================================================

// CacheSection describes one cache instance.
type CacheSection struct {
	cache.Stats
	SampledKeys []string `json:"sampledKeys"`
}

// CacheInfo describes all cache instances.
type CacheInfo struct {
	Reports  CacheSection `json:"reports"`
	Loans    CacheSection `json:"loans"`
	Payments CacheSection `json:"payments"`
}

const sampledKeyLimit = 5

// GetCacheInfo reports counters and sampled keys for every cache
// instance. Read-only: it never populates entries, promotes keys, or
// moves the hit/miss counters.
func (s *StatsService) GetCacheInfo(userID string) *CacheInfo {
	return &CacheInfo{
		Reports:  sectionFor(s.caches.Reports.GetStats(), s.caches.Reports.Keys(), userID),
		Loans:    sectionFor(s.caches.Loans.GetStats(), s.caches.Loans.Keys(), userID),
		Payments: sectionFor(s.caches.Payments.GetStats(), s.caches.Payments.Keys(), userID),
	}
}

func sectionFor(stats cache.Stats, keys []string, userID string) CacheSection {
	sampled := make([]string, 0, sampledKeyLimit)
	// Walk from most- to least-recently-used so the sample shows the
	// hottest keys first.
	for i := len(keys) - 1; i >= 0 && len(sampled) < sampledKeyLimit; i-- {
		if userID != "" && !strings.Contains(keys[i], userID) {
			continue
		}
		sampled = append(sampled, keys[i])
	}
	return CacheSection{Stats: stats, SampledKeys: sampled}
}

// ============================================================
// Aggregation
// ============================================================

// compute derives the full report from a user's loan set. Pure with
// respect to its inputs and the supplied "now".
func (s *StatsService) compute(loans []models.Loan, now time.Time) StatsReport {
	report := StatsReport{
		MonthlyTrends:      make([]MonthlyTrend, 0, 12),
		PaymentHistory:     make([]DailyPayments, 0, 7),
		StatusDistribution: make([]StatusSlice, 0, 3),
		TopBorrowers:       make([]BorrowerStats, 0),
		UpcomingPayments:   make([]UpcomingPayment, 0),
	}

	// Step 1: status partition. Overdue is a derived view over active
	// loans, not a third stored status.
	overdueSet := make(map[string]struct{})
	for _, loan := range loans {
		if loan.IsActive() && daysSince(loan.StartDate, now) > overdueThresholdDays {
			overdueSet[loan.ID] = struct{}{}
		}
	}

	report.Summary = s.buildSummary(loans, overdueSet, now)
	report.MonthlyTrends = s.buildMonthlyTrends(loans, now)
	report.PaymentHistory = s.buildPaymentHistory(loans, now)
	report.StatusDistribution = s.buildStatusDistribution(loans, overdueSet)
	report.TopBorrowers = s.buildTopBorrowers(loans, overdueSet)
	report.UpcomingPayments = s.buildUpcomingPayments(loans, now)

	// Recent activity mirrors the newest monthly bucket.
	if n := len(report.MonthlyTrends); n > 0 {
		current := report.MonthlyTrends[n-1]
		report.RecentActivity = RecentActivity{
			LoansGiven:       current.LoansGiven,
			PaymentsReceived: current.PaymentsReceived,
			InterestEarned:   current.InterestEarned,
		}
	}

	return report
}

// CalculateInterest accrues interest for one loan up to its paid date,
// or up to now while it stays open. Monthly rates accrue over 30-day
// periods, yearly rates over 365-day periods.
func CalculateInterest(loan *models.Loan, now time.Time) float64 {
	principal := loan.Amount
	rate := loan.InterestRate / 100

	end := now
	if loan.PaidDate != nil {
		end = *loan.PaidDate
	}

	durationDays := math.Ceil(end.Sub(loan.StartDate).Hours() / 24)
	if durationDays < 0 {
		durationDays = 0
	}

	if loan.InterestRateType == models.RateTypeYearly {
		return principal * rate * (durationDays / 365)
	}
	// monthly is the default when the type is absent
	return principal * rate * (durationDays / 30)
}

func (s *StatsService) buildSummary(loans []models.Loan, overdueSet map[string]struct{}, now time.Time) StatsSummary {
	summary := StatsSummary{TotalLoans: len(loans)}

	var totalAmount float64
	for i := range loans {
		loan := &loans[i]
		totalAmount += loan.Amount

		if loan.IsActive() {
			summary.ActiveLoans++
			summary.ActiveAmount += loan.Amount
		}
		if loan.IsPaid() {
			summary.PaidLoans++
			summary.PaidAmount += loan.Amount
		}
		if _, ok := overdueSet[loan.ID]; ok {
			summary.OverdueLoans++
			summary.OverdueAmount += loan.Amount
		}

		summary.TotalInterestEarned += CalculateInterest(loan, now)
	}

	if len(loans) > 0 {
		summary.AverageLoanAmount = totalAmount / float64(len(loans))
		summary.RepaymentRate = float64(summary.PaidLoans) / float64(len(loans)) * 100
	}

	return summary
}

// buildMonthlyTrends buckets loans and payments into the last 12
// calendar months, oldest first, ending at the current month.
func (s *StatsService) buildMonthlyTrends(loans []models.Loan, now time.Time) []MonthlyTrend {
	trends := make([]MonthlyTrend, 0, 12)

	for i := 11; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		monthEnd := monthStart.AddDate(0, 1, 0)

		trend := MonthlyTrend{Month: monthStart.Format("2006-01")}

		for j := range loans {
			loan := &loans[j]
			if inRange(loan.StartDate, monthStart, monthEnd) {
				trend.LoansGiven++
				trend.LoanAmount += loan.Amount
				trend.InterestEarned += CalculateInterest(loan, now)
				if loan.IsActive() {
					trend.ActiveLoans++
				}
			}
			for k := range loan.Payments {
				if inRange(loan.Payments[k].Date, monthStart, monthEnd) {
					trend.PaymentsReceived++
					trend.PaymentAmount += loan.Payments[k].Amount
				}
			}
		}

		trends = append(trends, trend)
	}

	return trends
}

// buildPaymentHistory sums payment activity per day over the trailing
// 7 calendar days, today included.
func (s *StatsService) buildPaymentHistory(loans []models.Loan, now time.Time) []DailyPayments {
	history := make([]DailyPayments, 0, 7)

	for i := 6; i >= 0; i-- {
		dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, -i)
		dayEnd := dayStart.AddDate(0, 0, 1)

		day := DailyPayments{Date: dayStart.Format("2006-01-02")}
		for j := range loans {
			for k := range loans[j].Payments {
				if inRange(loans[j].Payments[k].Date, dayStart, dayEnd) {
					day.Count++
					day.Amount += loans[j].Payments[k].Amount
				}
			}
		}

		history = append(history, day)
	}

	return history
}

func (s *StatsService) buildStatusDistribution(loans []models.Loan, overdueSet map[string]struct{}) []StatusSlice {
	active := StatusSlice{Status: "Active", Color: colorActive}
	paid := StatusSlice{Status: "Paid", Color: colorPaid}
	overdue := StatusSlice{Status: "Overdue", Color: colorOverdue}

	for i := range loans {
		loan := &loans[i]
		if loan.IsActive() {
			active.Count++
			active.Amount += loan.Amount
		}
		if loan.IsPaid() {
			paid.Count++
			paid.Amount += loan.Amount
		}
		if _, ok := overdueSet[loan.ID]; ok {
			overdue.Count++
			overdue.Amount += loan.Amount
		}
	}

	distribution := make([]StatusSlice, 0, 3)
	for _, slice := range []StatusSlice{active, paid, overdue} {
		if slice.Count > 0 {
			distribution = append(distribution, slice)
		}
	}
	return distribution
}

// buildTopBorrowers groups loans by borrower name and keeps the 10
// largest borrowers by total amount borrowed.
func (s *StatsService) buildTopBorrowers(loans []models.Loan, overdueSet map[string]struct{}) []BorrowerStats {
	byName := make(map[string]*BorrowerStats)

	for i := range loans {
		loan := &loans[i]
		stats, ok := byName[loan.BorrowerName]
		if !ok {
			stats = &BorrowerStats{BorrowerName: loan.BorrowerName}
			byName[loan.BorrowerName] = stats
		}

		stats.TotalBorrowed += loan.Amount
		switch {
		case memberOf(overdueSet, loan.ID):
			stats.OverdueLoans++
		case loan.IsPaid():
			stats.PaidLoans++
		default:
			stats.ActiveLoans++
		}
		if loan.StartDate.After(stats.LastLoanDate) {
			stats.LastLoanDate = loan.StartDate
		}
	}

	borrowers := make([]BorrowerStats, 0, len(byName))
	for _, stats := range byName {
		stats.TotalLoans = stats.ActiveLoans + stats.PaidLoans + stats.OverdueLoans
		// Rate is defined as 0 whenever no loan is fully repaid,
		// regardless of how many are outstanding.
		if stats.PaidLoans > 0 {
			stats.RepaymentRate = float64(stats.PaidLoans) / float64(stats.TotalLoans) * 100
		}
		borrowers = append(borrowers, *stats)
	}

	sort.Slice(borrowers, func(i, j int) bool {
		return borrowers[i].TotalBorrowed > borrowers[j].TotalBorrowed
	})
	if len(borrowers) > 10 {
		borrowers = borrowers[:10]
	}
	return borrowers
}

// buildUpcomingPayments schedules an expected repayment 30 days after
// the start of every active loan, soonest first.
func (s *StatsService) buildUpcomingPayments(loans []models.Loan, now time.Time) []UpcomingPayment {
	upcoming := make([]UpcomingPayment, 0)

	for i := range loans {
		loan := &loans[i]
		if !loan.IsActive() {
			continue
		}

		days := daysSince(loan.StartDate, now)
		daysOverdue := days - overdueThresholdDays
		if daysOverdue < 0 {
			daysOverdue = 0
		}

		upcoming = append(upcoming, UpcomingPayment{
			LoanID:              loan.ID,
			BorrowerName:        loan.BorrowerName,
			ExpectedPaymentDate: loan.StartDate.AddDate(0, 0, overdueThresholdDays),
			Amount:              loan.Amount + CalculateInterest(loan, now),
			IsOverdue:           days > overdueThresholdDays,
			DaysOverdue:         daysOverdue,
		})
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].ExpectedPaymentDate.Before(upcoming[j].ExpectedPaymentDate)
	})
	return upcoming
}

// ============================================================
// Helpers
// ============================================================

// daysSince returns whole elapsed days, rounded down.
func daysSince(start, now time.Time) int {
	return int(math.Floor(now.Sub(start).Hours() / 24))
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

func memberOf(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
