package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date with day precision. The zero value is invalid.
	Date struct {
		time.Time
	}

	// Record is a single ledger row. Records are immutable once stored:
	// corrections are made by inserting an offsetting record, never by update.
	Record struct {
		ID          int64
		Date        Date
		Category    string
		Description string
		TotalAmount decimal.Decimal
		PaidAmount  decimal.Decimal
		Quantity    int64
		PaidBy      string
	}
)

var (
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrInvalidQuantity    = errors.New("invalid quantity")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
)

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO-8601 date string (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String renders the date in the storage format (YYYY-MM-DD).
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Remaining is total minus paid for this row alone. Once installment rows
// exist for a category, only the per-category sum of Remaining is meaningful.
func (r Record) Remaining() decimal.Decimal {
	return r.TotalAmount.Sub(r.PaidAmount)
}

func (r Record) Validate() error {
	if err := r.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if len(r.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if r.TotalAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if r.PaidAmount.IsNegative() {
		return ErrInvalidAmount
	}
	if r.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// ParseAmount converts a decimal string to a non-negative amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Returns an error for invalid formats or negative values; zero is valid
// because deduction rows carry a zero total.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}
