package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// SuggestedCategories is the fixed starting taxonomy for a construction
// ledger. Categories are free text; this list only seeds the picker.
var SuggestedCategories = []string{
	"Architect & Structural Consulting",
	"Bore Well",
	"Cement",
	"Cement/Clay Blocks",
	"Deposits/Refundable",
	"Earth Work",
	"Electrical",
	"Flooring",
	"Interior",
}

// EntryMode selects how a new ledger row is shaped.
type EntryMode string

const (
	// ModeNewEntry records a fresh cost, both total and paid user-supplied.
	ModeNewEntry EntryMode = "new"
	// ModeDeduction records an installment payment against an existing
	// category: total is forced to zero so the category's remaining balance
	// shrinks by the paid amount.
	ModeDeduction EntryMode = "deduction"
)

var (
	ErrUnknownEntryMode        = errors.New("unknown entry mode")
	ErrPaidExceedsTotal        = errors.New("paid amount exceeds total amount")
	ErrNoOutstandingCategories = errors.New("no categories with an outstanding balance")
	ErrCategoryNotEligible     = errors.New("category has no outstanding balance")
)

// EntryForm carries user-supplied fields for a new ledger row.
type EntryForm struct {
	Date        Date
	Category    string
	Description string
	TotalAmount decimal.Decimal
	PaidAmount  decimal.Decimal
	Quantity    int64
	PaidBy      string
}

// BuildEntry shapes a Record from a form according to the entry mode.
// Deductions are only valid against a category that currently has an
// outstanding balance in the existing ledger; with no eligible category the
// mode is unavailable and ErrNoOutstandingCategories is returned.
//
// The paid<=total rule is enforced for new entries only. The store itself
// stays permissive so installment rows (total=0, paid>0) remain expressible.
func BuildEntry(mode EntryMode, form EntryForm, existing []Record) (Record, error) {
	if form.Quantity == 0 {
		form.Quantity = 1
	}

	rec := Record{
		Date:        form.Date,
		Category:    strings.TrimSpace(form.Category),
		Description: strings.TrimSpace(form.Description),
		TotalAmount: form.TotalAmount,
		PaidAmount:  form.PaidAmount,
		Quantity:    form.Quantity,
		PaidBy:      strings.TrimSpace(form.PaidBy),
	}

	switch mode {
	case ModeNewEntry:
		if rec.PaidAmount.GreaterThan(rec.TotalAmount) {
			return Record{}, ErrPaidExceedsTotal
		}
	case ModeDeduction:
		outstanding := CategoriesWithOutstandingBalance(existing)
		if len(outstanding) == 0 {
			return Record{}, ErrNoOutstandingCategories
		}
		eligible := false
		for _, c := range outstanding {
			if c == rec.Category {
				eligible = true
				break
			}
		}
		if !eligible {
			return Record{}, ErrCategoryNotEligible
		}
		if !rec.PaidAmount.IsPositive() {
			return Record{}, ErrInvalidAmount
		}
		rec.TotalAmount = decimal.Zero
	default:
		return Record{}, ErrUnknownEntryMode
	}

	if err := rec.Validate(); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Taxonomy merges the suggested categories with those already present in the
// ledger, deduplicated, suggested first.
func Taxonomy(records []Record) []string {
	seen := make(map[string]struct{}, len(SuggestedCategories))
	out := make([]string, 0, len(SuggestedCategories))
	for _, c := range SuggestedCategories {
		seen[c] = struct{}{}
		out = append(out, c)
	}
	for _, s := range SummaryByCategory(records) {
		if _, ok := seen[s.Category]; ok {
			continue
		}
		seen[s.Category] = struct{}{}
		out = append(out, s.Category)
	}
	return out
}
