package models

import (
	"time"

	"gorm.io/gorm"
)

// ============================================================
// Loan & Payment Tables
// ============================================================

// Loan status values
const (
	LoanStatusActive = "active"
	LoanStatusPaid   = "paid"
)

// Interest rate types
const (
	RateTypeMonthly = "monthly"
	RateTypeYearly  = "yearly"
)

// Loan represents loans table
type Loan struct {
	ID               string         `gorm:"primaryKey;size:36" json:"id"`
	UserID           string         `gorm:"index;size:64;not null" json:"user_id"`
	BorrowerName     string         `gorm:"size:100;not null" json:"borrower_name"`
	BorrowerPhone    *string        `gorm:"size:20" json:"borrower_phone,omitempty"`
	Amount           float64        `gorm:"type:decimal(12,2);not null" json:"amount"`
	InterestRate     float64        `gorm:"type:decimal(5,2);not null" json:"interest_rate"`
	InterestRateType string         `gorm:"size:10;default:'monthly'" json:"interest_rate_type"`
	StartDate        time.Time      `gorm:"not null" json:"start_date"`
	PaidDate         *time.Time     `json:"paid_date,omitempty"`
	Status           string         `gorm:"size:10;default:'active';index" json:"status"`
	Payments         []Payment      `gorm:"foreignKey:LoanID" json:"payments"`
	CreatedAt        time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Loan) TableName() string {
	return "loans"
}

// IsActive returns true if the loan has not been repaid yet
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// IsPaid returns true if the loan has been repaid
func (l *Loan) IsPaid() bool {
	return l.Status == LoanStatusPaid
}

// Payment represents payments table
type Payment struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	LoanID    string         `gorm:"index;size:36;not null" json:"loan_id"`
	Amount    float64        `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date      time.Time      `gorm:"not null" json:"date"`
	Method    string         `gorm:"size:50" json:"method"`
	Notes     *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Payment) TableName() string {
	return "payments"
}

// AutoMigrate creates/updates tables for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Loan{},
		&Payment{},
	)
}
